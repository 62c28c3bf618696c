package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/hession/npmate/internal/config"
	"github.com/hession/npmate/internal/logger"
	"github.com/hession/npmate/internal/npm"
	"github.com/hession/npmate/internal/tools"
)

const Version = "0.1.0"

// App is shared by every command of one process, including all lines of a
// shell session, so the NPM token is reused between commands.
type App struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	load    func() (*config.Config, error)
	initLog bool

	mu     sync.Mutex
	cfg    *config.Config
	client *npm.Client
}

// Option configures an App
type Option func(*App)

// WithConfig uses cfg instead of loading configuration from disk and env
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.cfg = cfg
		a.initLog = false
	}
}

// WithIO replaces stdin, stdout and stderr
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *App) {
		a.in = in
		a.out = out
		a.errOut = errOut
	}
}

// NewApp creates an App reading configuration with config.Load on first use
func NewApp(opts ...Option) *App {
	a := &App{
		in:      os.Stdin,
		out:     os.Stdout,
		errOut:  os.Stderr,
		load:    config.Load,
		initLog: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Config loads the configuration once and starts the file logger
func (a *App) Config() (*config.Config, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cfg != nil {
		return a.cfg, nil
	}

	cfg, err := a.load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	if a.initLog {
		if err := logger.Init(cfg.LoggerConfig()); err != nil {
			fmt.Fprintf(a.errOut, "Warning: failed to initialize logger: %v\n", err)
		}
	}
	return cfg, nil
}

// Client returns the NPM client, creating it on first use. The configuration
// must name the credentials.
func (a *App) Client() (*npm.Client, error) {
	cfg, err := a.Config()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return a.sharedClient(cfg), nil
}

// Registry builds the tool registry over the shared client without checking
// credentials. It only serves schema listing; serve goes through Client.
func (a *App) Registry() (*tools.Registry, error) {
	cfg, err := a.Config()
	if err != nil {
		return nil, err
	}
	return tools.NewDefaultRegistry(a.sharedClient(cfg)), nil
}

func (a *App) sharedClient(cfg *config.Config) *npm.Client {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client == nil {
		a.client = npm.New(
			cfg.NPM.URL,
			cfg.NPM.Email,
			cfg.NPM.Password,
			npm.WithReadonly(cfg.NPM.Readonly),
			npm.WithHTTPClient(cfg.HTTPClient()),
			npm.WithLogger(logger.L()),
			npm.WithUserAgent("npmate/"+Version),
		)
	}
	return a.client
}

func (a *App) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
