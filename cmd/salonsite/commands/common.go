package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/salonsite/internal/config"
)

// DefaultConfigPath is where init writes and where other commands look when
// --config is not given and the file exists.
const DefaultConfigPath = "salonsite.yaml"

// Global carries state shared by every command.
type Global struct {
	Logger *slog.Logger
	// Out receives command output meant for the user.
	Out io.Writer
	// LogOutput receives logs. Defaults to stderr.
	LogOutput io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" env:"SALONSITE_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve    ServeCmd    `cmd:"" default:"1" help:"Serve the site, the editor and the preview"`
	Render   RenderCmd   `cmd:"" help:"Render the main page with the stored content"`
	Export   ExportCmd   `cmd:"" help:"Write the content and rendered page as a downloadable bundle"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
	Validate ValidateCmd `cmd:"" help:"Check the configuration and, optionally, a content file"`
	History  HistoryCmd  `cmd:"" help:"List or show saved content revisions"`

	cfg    *config.Config
	cfgErr error
}

// AfterApply runs after flag parsing: load the configuration once and set up
// logging from it. A configuration error is kept for the command to report.
func (c *CLI) AfterApply(g *Global) error {
	path := c.Config
	if path == "" {
		if _, err := os.Stat(DefaultConfigPath); err == nil {
			path = DefaultConfigPath
		}
	}
	c.cfg, c.cfgErr = config.Load(path)

	logCfg := config.Default().Logging
	if c.cfgErr == nil {
		logCfg = c.cfg.Logging
	}
	if g.LogOutput == nil {
		g.LogOutput = os.Stderr
	}
	if g.Out == nil {
		g.Out = os.Stdout
	}
	g.Logger = NewLogger(g.LogOutput, logCfg, c.Verbose)
	slog.SetDefault(g.Logger)
	return nil
}

// LoadConfig returns the configuration loaded during flag parsing.
func (c *CLI) LoadConfig() (*config.Config, error) {
	return c.cfg, c.cfgErr
}

// NewLogger builds the process logger. verbose forces debug level.
func NewLogger(w io.Writer, cfg config.LoggingConfig, verbose bool) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case config.LogLevelDebug:
		level = slog.LevelDebug
	case config.LogLevelWarn:
		level = slog.LevelWarn
	case config.LogLevelError:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
