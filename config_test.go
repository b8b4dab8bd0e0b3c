// FILE: lixenwraith/tierlog/config_test.go
package tierlog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "app", cfg.Name)
	assert.Equal(t, "./logs", cfg.Directory)
	assert.Equal(t, "INFO", cfg.MinimumLevel)
	assert.Equal(t, "size", cfg.RotationMode)
	assert.Equal(t, int64(10*1000*1000), cfg.MaxBytes)
	assert.Equal(t, int64(5), cfg.RetainCount)
	assert.Equal(t, DefaultRecordFormat, cfg.RecordFormat)
	assert.False(t, cfg.AlertingEnabled)
	assert.NoError(t, cfg.Validate())

	// Copies are independent
	cfg.Name = "changed"
	assert.Equal(t, "app", DefaultConfig().Name)
	clone := cfg.Clone()
	clone.Name = "other"
	assert.Equal(t, "changed", cfg.Name)
}

func TestConfigValidateAggregates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Name = ""
	cfg.MinimumLevel = "LOUD"
	cfg.RotationMode = "time"
	cfg.RotateInterval = 0
	cfg.RetainCount = -1
	cfg.Sanitize = "scrub"
	cfg.RecordFormat = "{message} {nope}"
	cfg.TextEncoding = "klingon-8"
	cfg.ConsoleTarget = "printer"

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	keys := configErrorKeys(err)
	for _, key := range []string{"name", "minimum_level", "rotate_interval", "retain_count", "sanitize", "text_encoding", "console_target"} {
		assert.Contains(t, keys, key)
	}
}

func TestConfigValidateRecordFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RecordFormat = "{message} {nope}"
	assert.Equal(t, []string{"record_format"}, configErrorKeys(cfg.Validate()))
}

func TestConfigValidateOnlyCheckedModeOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RotationMode = "time"
	cfg.MaxBytes = 0
	assert.NoError(t, cfg.Validate(), "max_bytes is unused in time mode")

	cfg = DefaultConfig()
	cfg.RotateWhen = "fortnight"
	cfg.RotateInterval = 0
	assert.NoError(t, cfg.Validate(), "time options are unused in size mode")

	cfg.RotationMode = "size_or_time"
	keys := configErrorKeys(cfg.Validate())
	assert.Contains(t, keys, "rotate_when")
	assert.Contains(t, keys, "rotate_interval")
}

func TestConfigValidateAlerting(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AlertingEnabled = true
	cfg.MailTo = " , "
	cfg.VerifyCredentials = true
	cfg.MailCredentials = Credentials{Username: "ops"}
	cfg.MailSecurity = "ssl"
	cfg.MailCertFile = "client.pem"
	cfg.MailTimeoutMs = 0
	cfg.MailRatePerMin = -1

	keys := configErrorKeys(cfg.Validate())
	assert.ElementsMatch(t, []string{
		"mail_host", "mail_from", "mail_to", "mail_credentials",
		"mail_security", "mail_cert_file", "mail_timeout_ms", "mail_rate_per_min",
	}, keys)

	// Alerting options are ignored while alerting is disabled
	cfg.AlertingEnabled = false
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidateName(t *testing.T) {
	for _, name := range []string{"a/b", `a\b`, "..", " "} {
		cfg := DefaultConfig()
		cfg.Name = name
		assert.Equal(t, []string{"name"}, configErrorKeys(cfg.Validate()), "name %q", name)
	}
}

func TestConfigWarnings(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.Warnings())

	cfg.MinimumLevel = "30"
	cfg.RotationMode = "size_or_time"
	warnings := cfg.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, WarnDeprecated, warnings[0].Kind)
	assert.Equal(t, WarnExperimental, warnings[1].Kind)
	assert.Contains(t, warnings[0].String(), "deprecated: ")
	assert.Equal(t, LevelWarn, cfg.level())
}

func TestConfigRecipients(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MailTo = " ops@example.com,, dev@example.com , "
	assert.Equal(t, []string{"ops@example.com", "dev@example.com"}, cfg.Recipients())
}

func TestNewConfigFromDefaults(t *testing.T) {
	cfg, err := NewConfigFromDefaults(map[string]any{
		"name":                      "api",
		"max_bytes":                 2048,
		"rotate_utc":                true,
		"mail_credentials.username": "ops",
	})
	require.NoError(t, err)
	assert.Equal(t, "api", cfg.Name)
	assert.Equal(t, int64(2048), cfg.MaxBytes)
	assert.True(t, cfg.RotateUTC)
	assert.Equal(t, "ops", cfg.MailCredentials.Username)

	_, err = NewConfigFromDefaults(map[string]any{"bogus": 1})
	assert.Error(t, err)

	_, err = NewConfigFromDefaults(map[string]any{"max_bytes": "big"})
	assert.Error(t, err)

	_, err = NewConfigFromDefaults(map[string]any{"minimum_level": "LOUD"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestApplyOverride(t *testing.T) {
	cfg := DefaultConfig()
	err := ApplyOverride(cfg,
		"directory=/var/log/app",
		" rotation_mode = time ",
		"rotate_interval=6",
		"open_delay=true",
		"mail_credentials.password=s3cret",
	)
	require.NoError(t, err)
	assert.Equal(t, "/var/log/app", cfg.Directory)
	assert.Equal(t, "time", cfg.RotationMode)
	assert.Equal(t, int64(6), cfg.RotateInterval)
	assert.True(t, cfg.OpenDelay)
	assert.Equal(t, "s3cret", cfg.MailCredentials.Password)
}

func TestApplyOverrideErrors(t *testing.T) {
	cfg := DefaultConfig()

	err := ApplyOverride(cfg, "nokey")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected key=value")

	err = ApplyOverride(cfg, "unknown=1", "max_bytes=huge", "open_delay=maybe", "=x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple configuration errors")
	assert.Contains(t, err.Error(), "1. unknown configuration key 'unknown'")
	assert.Contains(t, err.Error(), "invalid integer value for max_bytes")
	assert.Contains(t, err.Error(), "invalid boolean value for open_delay")
	assert.Contains(t, err.Error(), "key cannot be empty")

	// Valid overrides among invalid ones still apply
	cfg = DefaultConfig()
	_ = ApplyOverride(cfg, "name=kept", "bogus=1")
	assert.Equal(t, "kept", cfg.Name)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tierlog.toml")
	content := `
name = "billing"
directory = "/srv/logs"
minimum_level = "WARNING"
rotation_mode = "time"
rotate_when = "midnight"
retain_count = 14
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "billing", cfg.Name)
	assert.Equal(t, "/srv/logs", cfg.Directory)
	assert.Equal(t, "WARNING", cfg.MinimumLevel)
	assert.Equal(t, "time", cfg.RotationMode)
	assert.Equal(t, "midnight", cfg.RotateWhen)
	assert.Equal(t, int64(14), cfg.RetainCount)
	// Unset keys keep their defaults
	assert.Equal(t, DefaultRecordFormat, cfg.RecordFormat)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Name, cfg.Name)
	assert.Equal(t, DefaultConfig().MaxBytes, cfg.MaxBytes)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "tierlog.toml")
	cfg := DefaultConfig()
	cfg.Name = "billing"
	cfg.RotationMode = "time"
	cfg.RetainCount = 9
	require.NoError(t, cfg.SaveConfig(path))
	require.FileExists(t, path)

	loaded, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "billing", loaded.Name)
	assert.Equal(t, "time", loaded.RotationMode)
	assert.Equal(t, int64(9), loaded.RetainCount)
	assert.NoError(t, loaded.Validate())
}

func TestSaveConfigEmptyPath(t *testing.T) {
	assert.Error(t, DefaultConfig().SaveConfig(""))
}

// configErrorKeys lists the option keys of every ConfigError in err
func configErrorKeys(err error) []string {
	var keys []string
	for _, e := range flatten(err) {
		var ce *ConfigError
		if errors.As(e, &ce) {
			keys = append(keys, ce.Key)
		}
	}
	return keys
}
