package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mchmarny/phaseid/pkg/config"
	"github.com/urfave/cli/v3"
)

func settingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Create or show the identification settings file",
		UsageText: `phaseid settings init                         # write ~/.phaseid/settings.yaml
   phaseid --settings ./s.yaml settings init     # write the defaults to a given path
   phaseid settings show                         # print the settings in effect`,
		HideHelpCommand: true,
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write the default settings file if it does not exist",
				Action: cmdSettingsInit,
			},
			{
				Name:   "show",
				Usage:  "Print the settings in effect",
				Action: cmdSettingsShow,
			},
		},
	}
}

func cmdSettingsInit(_ context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)

	var (
		f    *config.File
		path = cfg.SettingsPath
		err  error
	)
	if path == "" {
		dir, _, err := config.GetOrCreateHomeDir(appName)
		if err != nil {
			return fmt.Errorf("resolving home dir: %w", err)
		}
		path = filepath.Join(dir, settingsFileName)
		f, err = config.ReadOrCreate(dir)
		if err != nil {
			return fmt.Errorf("creating settings: %w", err)
		}
	} else {
		f, err = initSettingsFile(path)
		if err != nil {
			return err
		}
	}

	if _, err := f.Settings(); err != nil {
		return fmt.Errorf("settings %s: %w", path, err)
	}
	slog.Info("settings ready", "path", path)
	return output(cmd, f)
}

// initSettingsFile writes the defaults to path unless a file is already there.
func initSettingsFile(path string) (*config.File, error) {
	if _, err := os.Stat(path); err == nil {
		return config.Load(path)
	}
	f := config.Default()
	if err := config.Save(path, f); err != nil {
		return nil, fmt.Errorf("writing settings: %w", err)
	}
	return f, nil
}

func cmdSettingsShow(_ context.Context, cmd *cli.Command) error {
	s, err := getConfig(cmd).getSettings()
	if err != nil {
		return err
	}
	return output(cmd, config.FromSettings(s))
}
