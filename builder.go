// FILE: lixenwraith/tierlog/builder.go
package tierlog

import "strings"

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg      *Config
	registry *Registry
	opts     []Option
	err      error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
//
//	logger, err := tierlog.NewBuilder().
//		Name("svc").
//		Directory("/var/log/app").
//		LevelString("debug").
//		RotateSize(10 * 1000 * 1000).
//		RetainCount(5).
//		Build()
func NewBuilder() *Builder {
	return &Builder{
		cfg:      DefaultConfig(),
		registry: defaultRegistry,
	}
}

// Build validates the configuration and initializes the logger in the builder's registry
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, newSetupError(b.cfg.Name, b.err)
	}
	return b.registry.Init(b.cfg.Clone(), b.opts...)
}

// Config returns a copy of the configuration built so far
func (b *Builder) Config() *Config {
	return b.cfg.Clone()
}

// Registry selects the registry Build initializes into
func (b *Builder) Registry(r *Registry) *Builder {
	b.registry = r
	return b
}

// Options appends construction options passed to Build
func (b *Builder) Options(opts ...Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// Name sets the logger name
func (b *Builder) Name(name string) *Builder {
	b.cfg.Name = name
	return b
}

// Directory sets the log root directory
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// Level sets the minimum level
func (b *Builder) Level(level Level) *Builder {
	b.cfg.MinimumLevel = level.String()
	return b
}

// LevelString sets the minimum level from a name or legacy number
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	if _, _, err := ParseLevel(level); err != nil {
		b.err = err
		return b
	}
	b.cfg.MinimumLevel = level
	return b
}

// Truncate truncates existing files on the first open instead of appending
func (b *Builder) Truncate(truncate bool) *Builder {
	b.cfg.AppendMode = AppendModeAppend
	if truncate {
		b.cfg.AppendMode = AppendModeTruncate
	}
	return b
}

// OpenDelay defers opening each file until its first write
func (b *Builder) OpenDelay(delay bool) *Builder {
	b.cfg.OpenDelay = delay
	return b
}

// RotateSize selects size rotation at maxBytes
func (b *Builder) RotateSize(maxBytes int64) *Builder {
	b.cfg.RotationMode = ModeSize.String()
	b.cfg.MaxBytes = maxBytes
	return b
}

// RotateTime selects time rotation every interval units
func (b *Builder) RotateTime(unit TimeUnit, interval int) *Builder {
	b.cfg.RotationMode = ModeTime.String()
	b.cfg.RotateWhen = unit.String()
	b.cfg.RotateInterval = int64(interval)
	return b
}

// RotateSizeOrTime selects the experimental hybrid rotation
func (b *Builder) RotateSizeOrTime(maxBytes int64, unit TimeUnit, interval int) *Builder {
	b.RotateTime(unit, interval)
	b.cfg.RotationMode = ModeSizeOrTime.String()
	b.cfg.MaxBytes = maxBytes
	return b
}

// RotateUTC computes rotation boundaries in UTC
func (b *Builder) RotateUTC(utc bool) *Builder {
	b.cfg.RotateUTC = utc
	return b
}

// RetainCount sets the archives kept per file
func (b *Builder) RetainCount(n int) *Builder {
	b.cfg.RetainCount = int64(n)
	return b
}

// RecordFormat sets the record template
func (b *Builder) RecordFormat(format string) *Builder {
	b.cfg.RecordFormat = format
	return b
}

// TimestampFormat sets the Go time layout of {time}
func (b *Builder) TimestampFormat(layout string) *Builder {
	b.cfg.TimestampFormat = layout
	return b
}

// TextEncoding sets the file charset
func (b *Builder) TextEncoding(name string) *Builder {
	b.cfg.TextEncoding = name
	return b
}

// Sanitize sets the message sanitization policy
func (b *Builder) Sanitize(policy string) *Builder {
	b.cfg.Sanitize = policy
	return b
}

// Console enables mirroring to "stdout" or "stderr"
func (b *Builder) Console(target string) *Builder {
	b.cfg.ConsoleEnabled = true
	b.cfg.ConsoleTarget = target
	return b
}

// Alert enables CRITICAL alerts from sender to the recipients through host
func (b *Builder) Alert(host, from string, to ...string) *Builder {
	b.cfg.AlertingEnabled = true
	b.cfg.MailHost = host
	b.cfg.MailFrom = from
	b.cfg.MailTo = strings.Join(to, ",")
	return b
}

// MailCredentials sets the alert account, optionally verifying it during Build
func (b *Builder) MailCredentials(username, password string, verify bool) *Builder {
	b.cfg.MailCredentials = Credentials{Username: username, Password: password}
	b.cfg.VerifyCredentials = verify
	return b
}

// MailSecurity sets "none", "starttls" or "tls"
func (b *Builder) MailSecurity(security string) *Builder {
	b.cfg.MailSecurity = security
	return b
}

// MailTimeoutMs sets the dial and per-command timeout
func (b *Builder) MailTimeoutMs(ms int64) *Builder {
	b.cfg.MailTimeoutMs = ms
	return b
}

// MailRatePerMin caps alert deliveries per minute, 0 for unlimited
func (b *Builder) MailRatePerMin(n int64) *Builder {
	b.cfg.MailRatePerMin = n
	return b
}

// Override applies "key=value" strings
func (b *Builder) Override(overrides ...string) *Builder {
	if b.err != nil {
		return b
	}
	b.err = ApplyOverride(b.cfg, overrides...)
	return b
}
