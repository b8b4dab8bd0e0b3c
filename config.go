// FILE: lixenwraith/tierlog/config.go
package tierlog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	lconfig "github.com/lixenwraith/config"

	"github.com/lixenwraith/tierlog/sanitizer"
)

// Credentials is the mail account used to authenticate alert delivery
type Credentials struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// Empty reports whether neither field is set
func (c Credentials) Empty() bool {
	return c.Username == "" && c.Password == ""
}

// Config holds all logger configuration values
type Config struct {
	// Basic settings
	Name         string `toml:"name"` // Base name for log files and the registry key
	Directory    string `toml:"directory"`
	AppendMode   string `toml:"append_mode"`   // "append" or "truncate" (first open only)
	OpenDelay    bool   `toml:"open_delay"`    // Open files on first write
	MinimumLevel string `toml:"minimum_level"` // DEBUG..CRITICAL or legacy 10..50

	// Rotation
	RotationMode   string `toml:"rotation_mode"`   // "size", "time" or "size_or_time"
	MaxBytes       int64  `toml:"max_bytes"`       // Size bound per file
	RotateWhen     string `toml:"rotate_when"`     // second, minute, hour, day or midnight
	RotateInterval int64  `toml:"rotate_interval"` // Units per period
	RotateUTC      bool   `toml:"rotate_utc"`      // Compute boundaries and archive stamps in UTC
	RetainCount    int64  `toml:"retain_count"`    // Archives kept per sink

	// Formatting
	RecordFormat    string `toml:"record_format"`
	TimestampFormat string `toml:"timestamp_format"`
	TextEncoding    string `toml:"text_encoding"` // IANA charset name
	Sanitize        string `toml:"sanitize"`      // "raw", "txt" or "strip"

	// Console mirror
	ConsoleEnabled bool   `toml:"console_enabled"`
	ConsoleTarget  string `toml:"console_target"` // "stdout" or "stderr"

	// Critical alerts
	AlertingEnabled   bool        `toml:"alerting_enabled"`
	MailHost          string      `toml:"mail_host"` // host or host:port
	MailFrom          string      `toml:"mail_from"`
	MailTo            string      `toml:"mail_to"` // Comma-separated recipients
	MailSubject       string      `toml:"mail_subject"`
	MailCredentials   Credentials `toml:"mail_credentials"`
	VerifyCredentials bool        `toml:"verify_credentials"` // Authenticate once during init
	MailSecurity      string      `toml:"mail_security"`      // "none", "starttls" or "tls"
	MailCertFile      string      `toml:"mail_cert_file"`     // Optional client certificate
	MailKeyFile       string      `toml:"mail_key_file"`
	MailTimeoutMs     int64       `toml:"mail_timeout_ms"`
	MailRatePerMin    int64       `toml:"mail_rate_per_min"` // 0 = unlimited

	// Internal error handling
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"` // Write internal errors to stderr
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	// Basic settings
	Name:         "app",
	Directory:    "./logs",
	AppendMode:   AppendModeAppend,
	OpenDelay:    false,
	MinimumLevel: "INFO",

	// Rotation
	RotationMode:   "size",
	MaxBytes:       10 * sizeMultiplier * sizeMultiplier,
	RotateWhen:     "day",
	RotateInterval: 1,
	RotateUTC:      false,
	RetainCount:    5,

	// Formatting
	RecordFormat:    DefaultRecordFormat,
	TimestampFormat: DefaultTimestampFormat,
	TextEncoding:    "utf-8",
	Sanitize:        string(sanitizer.PolicyRaw),

	// Console mirror
	ConsoleEnabled: false,
	ConsoleTarget:  ConsoleStdout,

	// Critical alerts
	AlertingEnabled: false,
	MailSubject:     DefaultMailSubject,
	MailSecurity:    SecurityStartTLS,
	MailTimeoutMs:   2000,
	MailRatePerMin:  0,

	// Internal error handling
	InternalErrorsToStderr: true,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	// Create a copy to prevent modifications to the original
	copiedConfig := defaultConfig
	return &copiedConfig
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// LoadConfig builds a Config from defaults, a TOML file, TIERLOG_* environment variables
// and "--key=value" CLI arguments, in increasing precedence. A missing file is not an error.
func LoadConfig(path string, args []string) (*Config, error) {
	lcfg, err := lconfig.NewBuilder().
		WithDefaults(DefaultConfig()).
		WithEnvPrefix(envPrefix).
		WithFile(path).
		WithArgs(args).
		WithSources(
			lconfig.SourceCLI,
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()

	if err != nil {
		if !errors.Is(err, lconfig.ErrConfigNotFound) || lcfg == nil {
			return nil, fmtErrorf("failed to load config from '%s': %w", path, err)
		}
	}

	cfg := &Config{}
	if err := lcfg.Scan(cfg); err != nil {
		return nil, fmtErrorf("failed to scan config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes c to path as TOML
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return fmtErrorf("cannot save config: path is empty")
	}

	lcfg, err := lconfig.NewBuilder().
		WithFile(path).
		WithTarget(c).
		WithFileFormat("toml").
		Build()
	if err != nil {
		// A target file that does not exist yet is created by Save
		if !errors.Is(err, lconfig.ErrConfigNotFound) || lcfg == nil {
			return fmtErrorf("failed to create config builder: %w", err)
		}
	}

	if err := lcfg.Save(path); err != nil {
		return fmtErrorf("failed to save config to '%s': %w", path, err)
	}
	return nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides.
// Nested keys use dots, e.g. "mail_credentials.username".
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmtErrorf("failed to apply overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	fieldMap := make(map[string]reflect.Value)
	collectFields(reflect.ValueOf(cfg).Elem(), "", fieldMap)

	var errs []error
	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			errs = append(errs, fmt.Errorf("unknown config key: %s", key))
			continue
		}
		if err := setFieldValue(fieldValue, value); err != nil {
			errs = append(errs, fmt.Errorf("failed to set %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// collectFields maps toml keys to settable fields, descending into nested structs
func collectFields(v reflect.Value, prefix string, out map[string]reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}
		key := prefix + tomlTag
		if field.Type.Kind() == reflect.Struct {
			collectFields(v.Field(i), key+".", out)
			continue
		}
		out[key] = v.Field(i)
	}
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}
	return nil
}

// Validate checks every option and returns all problems at once, joined.
// Each joined error is a *ConfigError and matches ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	add := func(key, format string, args ...any) {
		errs = append(errs, &ConfigError{Key: key, Msg: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(c.Name) == "" {
		add("name", "log name cannot be empty")
	} else if strings.ContainsAny(c.Name, `/\`) || c.Name == "." || c.Name == ".." {
		add("name", "'%s' must be a plain file name", c.Name)
	}
	if strings.TrimSpace(c.Directory) == "" {
		add("directory", "log directory cannot be empty")
	}
	if c.AppendMode != AppendModeAppend && c.AppendMode != AppendModeTruncate {
		add("append_mode", "'%s' (use append or truncate)", c.AppendMode)
	}
	if _, _, err := ParseLevel(c.MinimumLevel); err != nil {
		add("minimum_level", "%s", trimPrefix(err.Error()))
	}

	if _, err := c.policy(); err != nil {
		errs = append(errs, flatten(err)...)
	}
	if c.RetainCount < 0 {
		add("retain_count", "cannot be negative: %d", c.RetainCount)
	}

	if _, err := newFormatter(c); err != nil {
		errs = append(errs, err)
	}
	if _, err := resolveEncoding(c.TextEncoding); err != nil {
		add("text_encoding", "%s", trimPrefix(err.Error()))
	}
	if c.ConsoleTarget != ConsoleStdout && c.ConsoleTarget != ConsoleStderr {
		add("console_target", "'%s' (use stdout or stderr)", c.ConsoleTarget)
	}

	if c.AlertingEnabled {
		errs = append(errs, c.validateAlerting()...)
	}

	return errors.Join(errs...)
}

func (c *Config) validateAlerting() []error {
	var errs []error
	add := func(key, format string, args ...any) {
		errs = append(errs, &ConfigError{Key: key, Msg: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(c.MailHost) == "" {
		add("mail_host", "required when alerting is enabled")
	}
	if strings.TrimSpace(c.MailFrom) == "" {
		add("mail_from", "sender address cannot be blank")
	}
	if len(c.Recipients()) == 0 {
		add("mail_to", "at least one non-blank recipient is required")
	}
	if c.VerifyCredentials && (strings.TrimSpace(c.MailCredentials.Username) == "" || c.MailCredentials.Password == "") {
		add("mail_credentials", "a username and password pair is required to verify credentials")
	}
	switch c.MailSecurity {
	case SecurityNone, SecurityStartTLS, SecurityTLS:
	default:
		add("mail_security", "'%s' (use none, starttls or tls)", c.MailSecurity)
	}
	if (c.MailCertFile == "") != (c.MailKeyFile == "") {
		add("mail_cert_file", "mail_cert_file and mail_key_file must be set together")
	}
	if c.MailTimeoutMs <= 0 {
		add("mail_timeout_ms", "must be positive milliseconds: %d", c.MailTimeoutMs)
	}
	if c.MailRatePerMin < 0 {
		add("mail_rate_per_min", "cannot be negative: %d", c.MailRatePerMin)
	}
	return errs
}

// Warnings returns the non-fatal advisories for this configuration
func (c *Config) Warnings() []Warning {
	var warnings []Warning
	if _, legacy, err := ParseLevel(c.MinimumLevel); err == nil && legacy {
		warnings = append(warnings, Warning{
			Kind: WarnDeprecated,
			Msg:  fmt.Sprintf("numeric minimum_level '%s' is deprecated, use a level name", c.MinimumLevel),
		})
	}
	if mode, err := ParseMode(c.RotationMode); err == nil && mode == ModeSizeOrTime {
		warnings = append(warnings, Warning{
			Kind: WarnExperimental,
			Msg:  "size_or_time rotation is experimental",
		})
	}
	return warnings
}

// Recipients splits mail_to into trimmed, non-blank addresses
func (c *Config) Recipients() []string {
	var out []string
	for _, addr := range strings.Split(c.MailTo, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// level returns the parsed minimum level
func (c *Config) level() Level {
	lvl, _, err := ParseLevel(c.MinimumLevel)
	if err != nil {
		return LevelInfo
	}
	return lvl
}

// policy builds the rotation policy; only the options the mode uses are checked
func (c *Config) policy() (Policy, error) {
	mode, err := ParseMode(c.RotationMode)
	if err != nil {
		return Policy{}, &ConfigError{Key: "rotation_mode", Msg: fmt.Sprintf("'%s' (use size, time or size_or_time)", c.RotationMode)}
	}

	p := Policy{Mode: mode, MaxBytes: c.MaxBytes, Interval: int(c.RotateInterval), UTC: c.RotateUTC}
	if mode.hasTime() {
		unit, err := ParseTimeUnit(c.RotateWhen)
		if err != nil {
			return Policy{}, errors.Join(
				&ConfigError{Key: "rotate_when", Msg: fmt.Sprintf("'%s' (use second, minute, hour, day or midnight)", c.RotateWhen)},
				Policy{Mode: mode, MaxBytes: c.MaxBytes, Unit: UnitSecond, Interval: int(c.RotateInterval)}.Validate(),
			)
		}
		p.Unit = unit
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func (c *Config) mailTimeout() time.Duration {
	return time.Duration(c.MailTimeoutMs) * time.Millisecond
}
