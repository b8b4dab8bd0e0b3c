// FILE: lixenwraith/tierlog/mail.go
package tierlog

import (
	"crypto/tls"
	"net"
	"net/smtp"
	"time"
)

// MailTransport opens sessions to a mail host.
// Implementations must honor timeout for connection setup and every later session call.
type MailTransport interface {
	Dial(host string, timeout time.Duration) (MailSession, error)
}

// MailSession is one connection to a mail host
type MailSession interface {
	Authenticate(creds Credentials) error
	Send(from string, to []string, msg []byte) error
	Close() error
}

// SMTPTransport is the default MailTransport, speaking SMTP through net/smtp.
// Security selects plain, STARTTLS-upgraded or implicit TLS connections.
type SMTPTransport struct {
	Security  string
	TLSConfig *tls.Config
}

var _ MailTransport = (*SMTPTransport)(nil)

// newSMTPTransport builds the transport for the mail_* options, loading the client certificate if set
func newSMTPTransport(c *Config) (*SMTPTransport, error) {
	t := &SMTPTransport{Security: c.MailSecurity, TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12}}
	if c.MailCertFile != "" {
		cert, err := tls.LoadX509KeyPair(c.MailCertFile, c.MailKeyFile)
		if err != nil {
			return nil, &ConfigError{Key: "mail_cert_file", Msg: err.Error()}
		}
		t.TLSConfig.Certificates = []tls.Certificate{cert}
	}
	return t, nil
}

// Dial connects to host ("host" or "host:port"), upgrading with STARTTLS when configured
func (t *SMTPTransport) Dial(host string, timeout time.Duration) (MailSession, error) {
	addr, serverName := t.address(host)
	tlsConfig := t.tlsConfig(serverName)
	dialer := &net.Dialer{Timeout: timeout}

	var conn net.Conn
	var err error
	if t.Security == SecurityTLS {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsConfig)
	} else {
		conn, err = dialer.Dial("tcp", addr)
	}
	if err != nil {
		return nil, fmtErrorf("failed to connect to mail host '%s': %w", addr, err)
	}

	s := &smtpSession{conn: conn, timeout: timeout, serverName: serverName}
	s.extend()

	client, err := smtp.NewClient(conn, serverName)
	if err != nil {
		_ = conn.Close()
		return nil, fmtErrorf("smtp handshake with '%s' failed: %w", addr, err)
	}
	s.client = client

	if t.Security == SecurityStartTLS {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			_ = client.Close()
			return nil, fmtErrorf("mail host '%s' does not support STARTTLS", addr)
		}
		s.extend()
		if err := client.StartTLS(tlsConfig); err != nil {
			_ = client.Close()
			return nil, fmtErrorf("STARTTLS with '%s' failed: %w", addr, err)
		}
	}
	return s, nil
}

func (t *SMTPTransport) address(host string) (addr, serverName string) {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return host, h
	}
	port := defaultSMTPPort
	if t.Security == SecurityTLS {
		port = defaultSMTPSPort
	}
	return net.JoinHostPort(host, port), host
}

func (t *SMTPTransport) tlsConfig(serverName string) *tls.Config {
	var cfg *tls.Config
	if t.TLSConfig != nil {
		cfg = t.TLSConfig.Clone()
	} else {
		cfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	if cfg.ServerName == "" {
		cfg.ServerName = serverName
	}
	return cfg
}

// smtpSession refreshes the connection deadline before every command
type smtpSession struct {
	conn       net.Conn
	client     *smtp.Client
	timeout    time.Duration
	serverName string
}

func (s *smtpSession) extend() {
	_ = s.conn.SetDeadline(time.Now().Add(s.timeout))
}

// Authenticate uses PLAIN auth; net/smtp refuses it over unencrypted connections to non-local hosts
func (s *smtpSession) Authenticate(creds Credentials) error {
	if ok, _ := s.client.Extension("AUTH"); !ok {
		return fmtErrorf("mail host '%s' does not support AUTH", s.serverName)
	}
	s.extend()
	auth := smtp.PlainAuth("", creds.Username, creds.Password, s.serverName)
	if err := s.client.Auth(auth); err != nil {
		return fmtErrorf("authentication as '%s' failed: %w", creds.Username, err)
	}
	return nil
}

func (s *smtpSession) Send(from string, to []string, msg []byte) error {
	s.extend()
	if err := s.client.Mail(from); err != nil {
		return fmtErrorf("MAIL FROM '%s' rejected: %w", from, err)
	}
	for _, rcpt := range to {
		if err := s.client.Rcpt(rcpt); err != nil {
			return fmtErrorf("RCPT TO '%s' rejected: %w", rcpt, err)
		}
	}
	w, err := s.client.Data()
	if err != nil {
		return fmtErrorf("DATA rejected: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return fmtErrorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmtErrorf("message rejected: %w", err)
	}
	return nil
}

func (s *smtpSession) Close() error {
	s.extend()
	if err := s.client.Quit(); err != nil {
		_ = s.client.Close()
		return err
	}
	return nil
}
