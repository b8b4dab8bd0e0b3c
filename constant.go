// FILE: lixenwraith/tierlog/constant.go
package tierlog

// Record formatting defaults
const (
	DefaultRecordFormat    = "[{time}] -- {level} - {file} -- {func} - Line no - {line} -- {message}"
	DefaultTimestampFormat = "2006-01-02T15:04:05.000Z07:00"
	DefaultMailSubject     = "{name}: {level} record"
)

// Append modes
const (
	AppendModeAppend   = "append"
	AppendModeTruncate = "truncate"
)

// Console targets
const (
	ConsoleStdout = "stdout"
	ConsoleStderr = "stderr"
)

// Mail transport security
const (
	SecurityNone     = "none"
	SecurityStartTLS = "starttls"
	SecurityTLS      = "tls"
)

const (
	// Size multiplier for KB, MB
	sizeMultiplier = 1000

	// Default SMTP ports per security mode
	defaultSMTPPort  = "25"
	defaultSMTPSPort = "465"

	// Environment prefix for LoadConfig
	envPrefix = "TIERLOG_"
)
