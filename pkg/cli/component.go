package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mchmarny/phaseid/pkg/data"
	"github.com/mchmarny/phaseid/pkg/net"
	"github.com/urfave/cli/v3"
)

const forceFlagName = "force"

func componentCommand() *cli.Command {
	return &cli.Command{
		Name:    "component",
		Aliases: []string{"cmp"},
		Usage:   "Manage the critical constants store used to resolve case components",
		UsageText: `phaseid component seed                  # load the built-in components
   phaseid component import extra.yaml     # upsert components from a YAML or JSON list
   phaseid component import https://...    # same, from a URL
   phaseid component list                  # list stored components
   phaseid component get 7732-18-5         # show one component
   phaseid component reset --force         # delete every stored component`,
		HideHelpCommand: true,
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Usage:  "Load the built-in component set",
				Action: cmdComponentSeed,
			},
			{
				Name:      "import",
				Usage:     "Upsert components from a YAML or JSON file or URL",
				ArgsUsage: "<file|url>",
				Action:    cmdComponentImport,
			},
			{
				Name:   "list",
				Usage:  "List stored components",
				Action: cmdComponentList,
			},
			{
				Name:      "get",
				Usage:     "Show the component with the CAS number",
				ArgsUsage: "<cas>",
				Action:    cmdComponentGet,
			},
			{
				Name:  "reset",
				Usage: "Delete the component database and start fresh",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  forceFlagName,
						Usage: "Skip the confirmation prompt (optional, default: false)",
					},
				},
				Action: cmdComponentReset,
			},
		},
	}
}

type countResult struct {
	DB    string `json:"db" yaml:"db"`
	Count int    `json:"count" yaml:"count"`
}

func cmdComponentSeed(_ context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	db, err := cfg.getDB()
	if err != nil {
		return err
	}

	n, err := data.Seed(db)
	if err != nil {
		return fmt.Errorf("seeding components: %w", err)
	}
	slog.Info("components seeded", "count", n, "db", cfg.DBPath)
	return output(cmd, &countResult{DB: cfg.DBPath, Count: n})
}

func cmdComponentImport(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected one component file, got %d arguments", cmd.Args().Len())
	}
	path := cmd.Args().First()

	cfg := getConfig(cmd)
	db, err := cfg.getDB()
	if err != nil {
		return err
	}

	r, err := openSource(ctx, path)
	if err != nil {
		return err
	}
	defer r.Close()

	n, err := data.ImportComponents(db, r)
	if err != nil {
		return fmt.Errorf("importing %s: %w", path, err)
	}
	slog.Info("components imported", "count", n, "file", path)
	return output(cmd, &countResult{DB: cfg.DBPath, Count: n})
}

func openSource(ctx context.Context, path string) (io.ReadCloser, error) {
	if net.IsURL(path) {
		r, err := net.Fetch(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("downloading component list: %w", err)
		}
		return r, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening component file: %w", err)
	}
	return f, nil
}

func cmdComponentList(_ context.Context, cmd *cli.Command) error {
	db, err := getConfig(cmd).getDB()
	if err != nil {
		return err
	}

	list, err := data.ListComponents(db)
	if err != nil {
		return fmt.Errorf("listing components: %w", err)
	}
	return output(cmd, list)
}

func cmdComponentGet(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected one CAS number, got %d arguments", cmd.Args().Len())
	}
	cas := cmd.Args().First()

	db, err := getConfig(cmd).getDB()
	if err != nil {
		return err
	}

	c, err := data.GetComponent(db, cas)
	if err != nil {
		return fmt.Errorf("getting component: %w", err)
	}
	if c == nil {
		return fmt.Errorf("%s: %w", cas, data.ErrComponentNotFound)
	}
	return output(cmd, c)
}

func cmdComponentReset(_ context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)

	// resolves the default path and makes sure the file is a component store
	if _, err := cfg.getDB(); err != nil {
		return err
	}

	if !cmd.Bool(forceFlagName) {
		fmt.Fprintf(cmd.Root().Writer, "This will permanently delete all components in %s\n", cfg.DBPath)
		fmt.Fprint(cmd.Root().Writer, "Are you sure? [y/N]: ")

		answer, err := bufio.NewReader(cmd.Root().Reader).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("reading input: %w", err)
		}
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Fprintln(cmd.Root().Writer, "Aborted.")
			return nil
		}
	}

	// close the DB before deleting the file
	cfg.close()

	if err := os.Remove(cfg.DBPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting database: %w", err)
	}
	slog.Info("database deleted", "path", cfg.DBPath)

	// re-initialize empty database
	if err := data.Init(cfg.DBPath); err != nil {
		return fmt.Errorf("re-initializing database: %w", err)
	}
	slog.Info("database re-initialized", "path", cfg.DBPath)
	return nil
}
