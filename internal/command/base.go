// Package command implements the semaphore CLI commands.
package command

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/pkg/browser"

	semaphore "github.com/tj-smith47/semaphore-go"
	"github.com/tj-smith47/semaphore-go/internal/config"
)

// Meta holds the state shared by every command.
type Meta struct {
	Log hclog.Logger
	UI  cli.Ui

	// OpenURL opens a URL in the user's browser.
	OpenURL func(url string) error

	// ClientOptions are appended to the options built from the config.
	ClientOptions []semaphore.Option

	flagConfig   string
	flagFormat   string
	flagLogLevel string
}

// NewMeta returns a Meta that opens URLs with the system browser.
func NewMeta(log hclog.Logger, ui cli.Ui) *Meta {
	return &Meta{
		Log:     log,
		UI:      ui,
		OpenURL: browser.OpenURL,
	}
}

// FlagSet is a flag.FlagSet that renders its defaults for Help.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps fs. Parse errors are returned rather than exiting.
func NewFlagSet(name string) *FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return &FlagSet{FlagSet: fs}
}

// Help returns the flag defaults formatted for a command's help text.
func (f *FlagSet) Help() string {
	var b strings.Builder
	b.WriteString("\n\nOptions:\n\n")
	f.VisitAll(func(fl *flag.Flag) {
		fmt.Fprintf(&b, "  -%s", fl.Name)
		if fl.DefValue != "" && fl.DefValue != "false" {
			fmt.Fprintf(&b, "=%s", fl.DefValue)
		}
		fmt.Fprintf(&b, "\n      %s\n\n", fl.Usage)
	})
	return strings.TrimRight(b.String(), "\n")
}

// commonFlags returns a flag set carrying the flags every command accepts.
func (m *Meta) commonFlags(name string) *FlagSet {
	f := NewFlagSet(name)
	f.StringVar(&m.flagConfig, "config", "",
		"["+config.EnvConfig+"] Path to an HCL configuration file")
	f.StringVar(&m.flagFormat, "format", formatTable,
		"Output format: table, json or yaml")
	f.StringVar(&m.flagLogLevel, "log-level", "",
		"Log level: trace, debug, info, warn or error")
	return f
}

// parse parses args and applies the log level. It reports errors on the UI.
func (m *Meta) parse(f *FlagSet, args []string) bool {
	if err := f.Parse(args); err != nil {
		m.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return false
	}
	if m.flagLogLevel != "" {
		level := hclog.LevelFromString(m.flagLogLevel)
		if level == hclog.NoLevel {
			m.UI.Error(fmt.Sprintf("invalid log level %q", m.flagLogLevel))
			return false
		}
		m.Log.SetLevel(level)
	}
	if !validFormat(m.flagFormat) {
		m.UI.Error(fmt.Sprintf("invalid format %q", m.flagFormat))
		return false
	}
	return true
}

// config loads the configuration selected by -config.
func (m *Meta) config() (*config.Config, error) {
	return config.Load(m.flagConfig)
}

// client loads the configuration and creates a client. Request logs from the
// library are forwarded to the CLI logger at debug level.
func (m *Meta) client() (*semaphore.Client, *config.Config, error) {
	cfg, err := m.config()
	if err != nil {
		return nil, nil, err
	}

	opts := append([]semaphore.Option{}, m.ClientOptions...)
	if m.Log.IsDebug() {
		w := m.Log.StandardWriter(&hclog.StandardLoggerOptions{ForceLevel: hclog.Debug})
		opts = append(opts, semaphore.WithLogger(slog.New(slog.NewTextHandler(w,
			&slog.HandlerOptions{Level: slog.LevelDebug}))))
	}

	client, err := cfg.NewClient(opts...)
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}

// authedClient returns a client with an active session. When no token or
// stored session exists it logs in with the configured credentials.
func (m *Meta) authedClient(ctx context.Context) (*semaphore.Client, error) {
	client, cfg, err := m.client()
	if err != nil {
		return nil, err
	}
	if client.IsAuthenticated() {
		return client, nil
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("%w: run \"semaphore login\" or set %s",
			semaphore.ErrNotAuthenticated, config.EnvAPIToken)
	}
	if err := client.Login(ctx, cfg.Username, cfg.Password); err != nil {
		return nil, err
	}
	m.Log.Debug("logged in", "user", cfg.Username)
	return client, nil
}

// fail reports err on the UI and returns the exit code for it.
func (m *Meta) fail(err error) int {
	m.UI.Error(fmt.Sprintf("Error: %v", err))
	if semaphore.IsAuthError(err) {
		return 2
	}
	return 1
}

// signalContext returns a context cancelled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
