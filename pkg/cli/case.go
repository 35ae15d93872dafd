package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mchmarny/phaseid/pkg/data"
	"github.com/mchmarny/phaseid/pkg/phase"
	"gopkg.in/yaml.v3"
)

// Case is one flash result to identify: the phases, their fractions and the components.
// Components are either CAS numbers resolved through the store or inline constants.
type Case struct {
	Name        string            `yaml:"name"`
	Temperature float64           `yaml:"T"`
	Pressure    float64           `yaml:"P"`
	Components  []string          `yaml:"components"`
	Constants   phase.Constants   `yaml:"constants"`
	Betas       []float64         `yaml:"betas"`
	Phases      []*phase.Snapshot `yaml:"phases"`
}

// loadCase reads a YAML or JSON case file. The case name defaults to the file name.
func loadCase(path string) (*Case, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading case file: %w", err)
	}
	c, err := parseCase(b)
	if err != nil {
		return nil, fmt.Errorf("case %s: %w", path, err)
	}
	if c.Name == "" {
		c.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return c, nil
}

func parseCase(b []byte) (*Case, error) {
	c := &Case{Constants: phase.Constants{WaterIndex: phase.NoWater}}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("decoding case: %w", err)
	}

	if len(c.Phases) == 0 {
		return nil, fmt.Errorf("case has no phases")
	}
	for i, p := range c.Phases {
		if p == nil {
			return nil, fmt.Errorf("phase %d is empty", i)
		}
		// case level conditions apply to phases that do not set their own
		if p.Temperature == 0 {
			p.Temperature = c.Temperature
		}
		if p.Pressure == 0 {
			p.Pressure = c.Pressure
		}
	}

	inline := c.Constants.N() > 0
	switch {
	case inline && len(c.Components) > 0:
		return nil, fmt.Errorf("case sets both components and constants")
	case !inline && len(c.Components) == 0:
		return nil, fmt.Errorf("case needs components or constants")
	case inline:
		if c.Constants.WaterIndex == phase.NoWater {
			c.Constants.WaterIndex = c.Constants.IndexOfCAS(phase.WaterCAS)
		}
		if err := c.Constants.Validate(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// constants resolves the case components, through the store when given by CAS number.
func (c *Case) constants(cfg *appConfig) (phase.Constants, error) {
	if len(c.Components) == 0 {
		return c.Constants, nil
	}
	db, err := cfg.getDB()
	if err != nil {
		return phase.Constants{}, err
	}
	consts, err := data.GetConstants(db, c.Components)
	if err != nil {
		return phase.Constants{}, fmt.Errorf("resolving components: %w", err)
	}
	return consts, nil
}

func (c *Case) phases() []phase.Phase {
	list := make([]phase.Phase, len(c.Phases))
	for i, p := range c.Phases {
		list[i] = p
	}
	return list
}
