package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mchmarny/phaseid/pkg/phase"
	"github.com/urfave/cli/v3"
)

const methodFlagName = "method"

func newMethodFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  methodFlagName,
		Usage: "Vapor score method, overrides the settings (e.g. PIP, Wilson, Tpc)",
	}
}

func identifyCommand() *cli.Command {
	return &cli.Command{
		Name:    "identify",
		Aliases: []string{"id"},
		Usage:   "Identify and order the phases of a case file",
		UsageText: `phaseid identify case.yaml                      # default settings
   phaseid --format yaml identify case.yaml        # YAML report
   phaseid identify --method Wilson case.yaml      # override the vapor score method`,
		ArgsUsage:       "<case-file>",
		HideHelpCommand: true,
		Flags:           []cli.Flag{newMethodFlag()},
		Action:          cmdIdentify,
	}
}

func scoreCommand() *cli.Command {
	return &cli.Command{
		Name:            "score",
		Usage:           "Print the vapor and solid scores of each phase in a case file",
		ArgsUsage:       "<case-file>",
		HideHelpCommand: true,
		Flags:           []cli.Flag{newMethodFlag()},
		Action:          cmdScore,
	}
}

// Report is the identification outcome of one case.
type Report struct {
	Case    string        `json:"case" yaml:"case"`
	Gas     int           `json:"gas" yaml:"gas"`
	Liquids []int         `json:"liquids" yaml:"liquids"`
	Solids  []int         `json:"solids" yaml:"solids"`
	Order   []int         `json:"order" yaml:"order"`
	Labels  []phase.Label `json:"labels" yaml:"labels"`
	Betas   []float64     `json:"betas,omitempty" yaml:"betas,omitempty"`
	Error   string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// ScoreReport lists per phase scores in input order.
type ScoreReport struct {
	Case        string            `json:"case" yaml:"case"`
	VaporMethod phase.VaporMethod `json:"vl_id" yaml:"vl_id"`
	Vapor       []float64         `json:"vapor" yaml:"vapor"`
	SolidMethod phase.SolidMethod `json:"s_id" yaml:"s_id"`
	Solid       []float64         `json:"solid,omitempty" yaml:"solid,omitempty"`
}

func caseArg(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() != 1 {
		return "", fmt.Errorf("expected one case file, got %d arguments", cmd.Args().Len())
	}
	return cmd.Args().First(), nil
}

// settingsFor applies the command's method override to the loaded settings.
func settingsFor(cmd *cli.Command) (phase.Settings, error) {
	s, err := getConfig(cmd).getSettings()
	if err != nil {
		return s, err
	}
	if m := cmd.String(methodFlagName); m != "" {
		vm, err := phase.ParseVaporMethod(m)
		if err != nil {
			return s, err
		}
		s.VaporMethod = vm
	}
	return s, nil
}

func cmdIdentify(_ context.Context, cmd *cli.Command) error {
	path, err := caseArg(cmd)
	if err != nil {
		return err
	}
	s, err := settingsFor(cmd)
	if err != nil {
		return err
	}
	c, err := loadCase(path)
	if err != nil {
		return err
	}

	r, err := identifyCase(getConfig(cmd), c, s)
	if err != nil {
		return err
	}
	return output(cmd, r)
}

func identifyCase(cfg *appConfig, c *Case, s phase.Settings) (*Report, error) {
	consts, err := c.constants(cfg)
	if err != nil {
		return nil, err
	}

	res, err := phase.Identify(c.phases(), c.Betas, consts, s)
	if err != nil {
		return nil, fmt.Errorf("identifying case %s: %w", c.Name, err)
	}
	slog.Debug("case identified", "case", c.Name, "gas", res.GasIndex, "liquids", len(res.Liquids), "solids", len(res.Solids))

	return &Report{
		Case:    c.Name,
		Gas:     res.GasIndex,
		Liquids: res.LiquidIndexes,
		Solids:  res.SolidIndexes,
		Order:   res.Order(),
		Labels:  res.Labels(),
		Betas:   res.Betas,
	}, nil
}

func cmdScore(_ context.Context, cmd *cli.Command) error {
	path, err := caseArg(cmd)
	if err != nil {
		return err
	}
	s, err := settingsFor(cmd)
	if err != nil {
		return err
	}
	c, err := loadCase(path)
	if err != nil {
		return err
	}
	consts, err := c.constants(getConfig(cmd))
	if err != nil {
		return err
	}

	r := &ScoreReport{
		Case:        c.Name,
		VaporMethod: s.VaporMethod,
		SolidMethod: s.SolidMethod,
	}
	if r.Vapor, err = phase.ScoreVapor(c.phases(), consts, s); err != nil {
		return fmt.Errorf("scoring case %s: %w", c.Name, err)
	}
	if !s.SkipSolids {
		if r.Solid, err = phase.ScoreSolid(c.phases(), s.SolidMethod); err != nil {
			return fmt.Errorf("scoring case %s: %w", c.Name, err)
		}
	}
	return output(cmd, r)
}
