package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mchmarny/phaseid/pkg/config"
	"github.com/mchmarny/phaseid/pkg/data"
	"github.com/mchmarny/phaseid/pkg/logging"
	"github.com/mchmarny/phaseid/pkg/phase"
	urfave "github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	appName      = "phaseid"
	appConfigKey = "app-config"

	settingsFileName = "settings.yaml"

	formatJSON = "json"
	formatYAML = "yaml"
)

const (
	debugFlagName    = "debug"
	dbFlagName       = "db"
	formatFlagName   = "format"
	settingsFlagName = "settings"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""
)

// Execute creates and runs the CLI application.
func Execute() {
	initLogging(false)

	app := newApp()
	if err := app.Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	DBPath       string
	SettingsPath string
	Debug        bool
	Format       string

	mu       sync.Mutex
	db       *sql.DB
	settings *phase.Settings
}

// getSettings loads the identification settings on first use.
func (c *appConfig) getSettings() (phase.Settings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.settings != nil {
		return *c.settings, nil
	}
	s, err := loadSettings(c.SettingsPath)
	if err != nil {
		return phase.Settings{}, err
	}
	c.settings = &s
	return s, nil
}

// getDB opens the component store on first use.
func (c *appConfig) getDB() (*sql.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db, nil
	}

	if c.DBPath == "" {
		dir, _, err := config.GetOrCreateHomeDir(appName)
		if err != nil {
			return nil, fmt.Errorf("resolving home dir: %w", err)
		}
		c.DBPath = filepath.Join(dir, data.DataFileName)
	}

	if err := data.Init(c.DBPath); err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	db, err := data.GetDB(c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	c.db = db
	return db, nil
}

func (c *appConfig) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db != nil {
		c.db.Close()
		c.db = nil
	}
}

func getConfig(cmd *urfave.Command) *appConfig {
	return cmd.Root().Metadata[appConfigKey].(*appConfig)
}

// newApp builds the command tree. Flags keep parsed values, so every run gets new ones.
func newApp() *urfave.Command {
	return &urfave.Command{
		Name:                  appName,
		Version:               fmt.Sprintf("%s (%s - %s)", version, commit, date),
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Usage:                 "Identify and order gas, liquid and solid phases from flash results",
		Metadata:              map[string]any{},
		Flags: []urfave.Flag{
			&urfave.BoolFlag{
				Name:  debugFlagName,
				Usage: "Prints verbose logs (optional, default: false)",
			},
			&urfave.StringFlag{
				Name:  dbFlagName,
				Usage: "Path to the Sqlite component database file (default: ~/.phaseid/components.db)",
			},
			&urfave.StringFlag{
				Name:  formatFlagName,
				Usage: "Output format [json, yaml]",
				Value: formatJSON,
			},
			&urfave.StringFlag{
				Name:  settingsFlagName,
				Usage: "Path to the identification settings file (default: ~/.phaseid/settings.yaml when present)",
			},
		},
		Commands: []*urfave.Command{
			identifyCommand(),
			scoreCommand(),
			batchCommand(),
			componentCommand(),
			settingsCommand(),
		},
		Before: func(ctx context.Context, cmd *urfave.Command) (context.Context, error) {
			if cmd.Bool(debugFlagName) {
				initLogging(true)
			}

			cfg := &appConfig{
				DBPath:       cmd.String(dbFlagName),
				SettingsPath: cmd.String(settingsFlagName),
				Debug:        cmd.Bool(debugFlagName),
				Format:       formatJSON,
			}

			switch f := cmd.String(formatFlagName); f {
			case formatJSON, "":
			case formatYAML, "yml":
				cfg.Format = formatYAML
			default:
				return ctx, fmt.Errorf("unsupported output format: %s", f)
			}

			cmd.Root().Metadata[appConfigKey] = cfg
			return ctx, nil
		},
		After: func(_ context.Context, cmd *urfave.Command) error {
			if cfg, ok := cmd.Root().Metadata[appConfigKey].(*appConfig); ok {
				cfg.close()
			}
			return nil
		},
	}
}

// loadSettings reads the settings file at path. With no path, the file in the home
// directory is used if it exists, otherwise the defaults.
func loadSettings(path string) (phase.Settings, error) {
	if path == "" {
		path = filepath.Join(getHomeDir(), settingsFileName)
		if _, err := os.Stat(path); err != nil {
			slog.Debug("using default settings")
			return phase.DefaultSettings(), nil
		}
	}

	f, err := config.Load(path)
	if err != nil {
		return phase.Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	s, err := f.Settings()
	if err != nil {
		return phase.Settings{}, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	slog.Debug("settings loaded", "path", path, "vl_id", s.VaporMethod, "water_sort", s.WaterSort)
	return s, nil
}

func initLogging(debug bool) {
	level := "info"
	if debug {
		level = "debug"
	}
	logging.SetDefaultCLILogger(level)
}

// getHomeDir returns the app directory under the user home without creating it.
func getHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Debug("error getting home dir, using current dir instead", "error", err)
		return "."
	}
	return filepath.Join(home, "."+appName)
}

func encode(w io.Writer, format string, v any) error {
	if format == formatYAML {
		e := yaml.NewEncoder(w)
		defer e.Close()
		return e.Encode(v)
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}

func output(cmd *urfave.Command, v any) error {
	cfg := getConfig(cmd)
	if err := encode(cmd.Root().Writer, cfg.Format, v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
