// FILE: lixenwraith/tierlog/alert.go
package tierlog

import (
	"strings"
	"time"

	"github.com/jordan-wright/email"
	"golang.org/x/time/rate"
)

// alertChannel delivers CRITICAL records by email, one attempt per record
type alertChannel struct {
	transport MailTransport
	host      string
	from      string
	to        []string
	subject   string
	creds     Credentials
	timeout   time.Duration
	limiter   *rate.Limiter // nil when unlimited
	state     *state
}

func newAlertChannel(c *Config, transport MailTransport, st *state) *alertChannel {
	a := &alertChannel{
		transport: transport,
		host:      strings.TrimSpace(c.MailHost),
		from:      strings.TrimSpace(c.MailFrom),
		to:        c.Recipients(),
		subject:   c.MailSubject,
		creds:     c.MailCredentials,
		timeout:   c.mailTimeout(),
		state:     st,
	}
	if a.subject == "" {
		a.subject = DefaultMailSubject
	}
	if c.MailRatePerMin > 0 {
		n := int(c.MailRatePerMin)
		a.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
	}
	return a
}

// Verify connects and authenticates once without sending
func (a *alertChannel) Verify() error {
	sess, err := a.transport.Dial(a.host, a.timeout)
	if err != nil {
		return &AlertError{Op: "dial", Err: err}
	}
	if err := sess.Authenticate(a.creds); err != nil {
		_ = sess.Close()
		return &AlertError{Op: "authenticate", Err: err}
	}
	if err := sess.Close(); err != nil {
		return &AlertError{Op: "close", Err: err}
	}
	return nil
}

// Deliver sends rec with its formatted line as the body.
// The file sinks have already written the record; a failure here never undoes that.
func (a *alertChannel) Deliver(rec Record, line []byte) error {
	err := a.deliver(rec, line)
	if err != nil {
		a.state.alertErrors.Add(1)
		return err
	}
	a.state.alertsSent.Add(1)
	return nil
}

func (a *alertChannel) deliver(rec Record, line []byte) error {
	if a.limiter != nil && !a.limiter.AllowN(rec.Time, 1) {
		return &AlertError{Op: "send", Err: ErrAlertRateLimited}
	}

	msg, err := a.message(rec, line)
	if err != nil {
		return &AlertError{Op: "compose", Err: err}
	}

	sess, err := a.transport.Dial(a.host, a.timeout)
	if err != nil {
		return &AlertError{Op: "dial", Err: err}
	}
	defer func() { _ = sess.Close() }()

	if !a.creds.Empty() {
		if err := sess.Authenticate(a.creds); err != nil {
			return &AlertError{Op: "authenticate", Err: err}
		}
	}
	if err := sess.Send(a.from, a.to, msg); err != nil {
		return &AlertError{Op: "send", Err: err}
	}
	return nil
}

// message composes the MIME message for rec
func (a *alertChannel) message(rec Record, line []byte) ([]byte, error) {
	e := email.NewEmail()
	e.From = a.from
	e.To = a.to
	e.Subject = strings.NewReplacer("{name}", rec.Name, "{level}", rec.Level.String()).Replace(a.subject)
	e.Text = line
	return e.Bytes()
}

// VerifyMail connects to the configured mail host and authenticates once, without
// building a logger or touching the log directory. Alerting options are validated first.
func VerifyMail(cfg *Config, opts ...Option) error {
	if cfg == nil {
		return &ConfigError{Key: "alerting_enabled", Msg: "no configuration"}
	}
	if errs := cfg.validateAlerting(); len(errs) > 0 {
		return newSetupError(cfg.Name, errs...)
	}
	if cfg.MailCredentials.Empty() {
		return &ConfigError{Key: "mail_credentials", Msg: "nothing to verify without a username and password"}
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	transport := o.transport
	if transport == nil {
		smtpTransport, err := newSMTPTransport(cfg)
		if err != nil {
			return err
		}
		transport = smtpTransport
	}
	return newAlertChannel(cfg, transport, &state{}).Verify()
}
