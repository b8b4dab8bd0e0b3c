// FILE: lixenwraith/tierlog/builder_test.go
package tierlog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderConfig(t *testing.T) {
	cfg := NewBuilder().
		Name("svc").
		Directory("/var/log/app").
		Level(LevelWarn).
		Truncate(true).
		OpenDelay(true).
		RotateSizeOrTime(4096, UnitHour, 6).
		RotateUTC(true).
		RetainCount(3).
		RecordFormat("{level} {message}").
		TimestampFormat("15:04:05").
		TextEncoding("ISO-8859-1").
		Sanitize("strip").
		Console(ConsoleStderr).
		Alert("mail.example.com", "log@example.com", "ops@example.com", "dev@example.com").
		MailCredentials("ops", "pw", true).
		MailSecurity(SecurityTLS).
		MailTimeoutMs(500).
		MailRatePerMin(6).
		Config()

	assert.Equal(t, "svc", cfg.Name)
	assert.Equal(t, "/var/log/app", cfg.Directory)
	assert.Equal(t, "WARNING", cfg.MinimumLevel)
	assert.Equal(t, AppendModeTruncate, cfg.AppendMode)
	assert.True(t, cfg.OpenDelay)
	assert.Equal(t, "size_or_time", cfg.RotationMode)
	assert.Equal(t, int64(4096), cfg.MaxBytes)
	assert.Equal(t, "hour", cfg.RotateWhen)
	assert.Equal(t, int64(6), cfg.RotateInterval)
	assert.True(t, cfg.RotateUTC)
	assert.Equal(t, int64(3), cfg.RetainCount)
	assert.Equal(t, "ISO-8859-1", cfg.TextEncoding)
	assert.True(t, cfg.ConsoleEnabled)
	assert.Equal(t, ConsoleStderr, cfg.ConsoleTarget)
	assert.True(t, cfg.AlertingEnabled)
	assert.Equal(t, []string{"ops@example.com", "dev@example.com"}, cfg.Recipients())
	assert.True(t, cfg.VerifyCredentials)
	assert.Equal(t, SecurityTLS, cfg.MailSecurity)
	assert.Equal(t, int64(6), cfg.MailRatePerMin)
	assert.NoError(t, cfg.Validate())
}

func TestBuilderBuild(t *testing.T) {
	r := NewRegistry()
	t.Cleanup(func() { _ = r.Shutdown() })
	dir := t.TempDir()

	l, err := NewBuilder().
		Registry(r).
		Name("built").
		Directory(dir).
		LevelString("debug").
		RecordFormat("{message}").
		RotateSize(1000).
		Override("internal_errors_to_stderr=false").
		Build()
	require.NoError(t, err)

	l.Debug("hello")
	assert.Equal(t, "hello\n", readFile(t, tierPath(l.Config(), "Debug", "debug")))
	assert.Equal(t, []string{"built"}, r.Names())
}

func TestBuilderDeferredErrors(t *testing.T) {
	r := NewRegistry()

	_, err := NewBuilder().Registry(r).LevelString("loud").Build()
	var setupErr *SetupError
	require.True(t, errors.As(err, &setupErr))

	// The first error wins; later overrides are skipped
	_, err = NewBuilder().Registry(r).Override("bogus=1").LevelString("debug").Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")

	_, err = NewBuilder().Registry(r).Directory(t.TempDir()).RotateTime(UnitDay, 0).Build()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Empty(t, r.Names())
}
