// FILE: lixenwraith/tierlog/cmd/tierlog/main.go
// Command tierlog drives a tierlog logger from the shell: emit records into the tiered
// directory layout, check the alert mail account, and manage configuration files.
//
// Usage:
//
//	tierlog [--config file] [--set key=value]... <command> [arguments]
//
// Commands:
//
//	emit <level> <message...>   write one record
//	verify-mail                 authenticate against the configured mail host
//	config init <file>          write the default configuration as TOML
//	config check                validate the effective configuration
//
// Exit codes: 0 success, 1 runtime failure, 2 invalid configuration or arguments.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/lixenwraith/tierlog"
)

// Version can be set with -ldflags "-X main.Version=..."
var Version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := createApp().Run(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "tierlog: %s\n", strings.TrimPrefix(err.Error(), "tierlog: "))
		if errors.Is(err, tierlog.ErrInvalidConfig) || errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

var errUsage = errors.New("usage error")

func usagef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

func createApp() *cli.Command {
	return &cli.Command{
		Name:    "tierlog",
		Usage:   "severity-tiered rotating logs with critical mail alerts",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML configuration file; TIERLOG_* environment variables override it",
				Value:   "tierlog.toml",
				Sources: cli.EnvVars("TIERLOG_CONFIG_FILE"),
			},
			&cli.StringSliceFlag{
				Name:  "set",
				Usage: "override a configuration key, e.g. --set rotation_mode=time",
			},
		},
		Commands: []*cli.Command{
			createEmitCommand(),
			createVerifyMailCommand(),
			createConfigCommand(),
		},
	}
}

// loadConfig resolves defaults, file, environment and --set overrides, in that order
func loadConfig(cmd *cli.Command) (*tierlog.Config, error) {
	cfg, err := tierlog.LoadConfig(cmd.String("config"), nil)
	if err != nil {
		return nil, err
	}
	if err := tierlog.ApplyOverride(cfg, cmd.StringSlice("set")...); err != nil {
		return nil, usagef("%v", err)
	}
	return cfg, nil
}

func createEmitCommand() *cli.Command {
	return &cli.Command{
		Name:      "emit",
		Usage:     "write one record through the configured logger",
		ArgsUsage: "<level> <message...>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return usagef("emit needs a level and a message")
			}
			level, _, err := tierlog.ParseLevel(cmd.Args().First())
			if err != nil {
				return usagef("%v", err)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := tierlog.Init(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = tierlog.Shutdown() }()

			msg := strings.Join(cmd.Args().Tail(), " ")
			return logger.Log(level, msg)
		},
	}
}

func createVerifyMailCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify-mail",
		Usage: "authenticate once against the alert mail host",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "username",
				Usage: "mail account, overrides mail_credentials.username",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.AlertingEnabled = true
			if user := cmd.String("username"); user != "" {
				cfg.MailCredentials.Username = user
			}
			if cfg.MailCredentials.Password == "" {
				password, err := promptPassword(fmt.Sprintf("Password for %s: ", cfg.MailCredentials.Username))
				if err != nil {
					return err
				}
				cfg.MailCredentials.Password = password
			}

			if err := tierlog.VerifyMail(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.Root().Writer, "authenticated as %s on %s\n", cfg.MailCredentials.Username, cfg.MailHost)
			return nil
		},
	}
}

// promptPassword reads a password from the terminal without echo
func promptPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", usagef("no password configured and stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}

func createConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "manage configuration files",
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "write the default configuration, with --set overrides applied",
				ArgsUsage: "<file>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					path := cmd.Args().First()
					if path == "" {
						return usagef("config init needs a target file")
					}
					cfg := tierlog.DefaultConfig()
					if err := tierlog.ApplyOverride(cfg, cmd.StringSlice("set")...); err != nil {
						return usagef("%v", err)
					}
					if err := cfg.Validate(); err != nil {
						return err
					}
					return cfg.SaveConfig(path)
				},
			},
			{
				Name:  "check",
				Usage: "validate the effective configuration and print advisories",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					if err := cfg.Validate(); err != nil {
						return err
					}
					out := cmd.Root().Writer
					for _, w := range cfg.Warnings() {
						fmt.Fprintf(out, "%s\n", w)
					}
					fmt.Fprintf(out, "ok: logger '%s' writes to %s (%s rotation, %d archives)\n",
						cfg.Name, cfg.Directory, cfg.RotationMode, cfg.RetainCount)
					return nil
				},
			},
		},
	}
}
