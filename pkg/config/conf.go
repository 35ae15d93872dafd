package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mchmarny/phaseid/pkg/phase"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	settingsFileName = "settings.yaml"
	dirMode          = 0700
	fileMode         = 0600
)

// File is the on-disk form of phase.Settings. Methods and modes are stored by name.
type File struct {
	VaporMethod       string   `yaml:"vl_id"`
	SolidMethod       string   `yaml:"s_id"`
	SkipSolids        bool     `yaml:"skip_solids"`
	TraceCASs         []string `yaml:"trace_cas"`
	TpcWeightedR1     float64  `yaml:"tpc_weighted_r1"`
	WaterSort         string   `yaml:"water_sort"`
	LiquidSortMethod  string   `yaml:"liquid_sort_method"`
	LiquidSortProp    string   `yaml:"liquid_sort_prop"`
	LiquidSortCmps    []int    `yaml:"liquid_sort_cmps,omitempty"`
	LiquidSortCmpsNeg []int    `yaml:"liquid_sort_cmps_neg,omitempty"`
	SolidSortMethod   string   `yaml:"solid_sort_method"`
	SolidSortProp     string   `yaml:"solid_sort_prop"`
	SolidSortCmps     []int    `yaml:"solid_sort_cmps,omitempty"`
	SolidSortCmpsNeg  []int    `yaml:"solid_sort_cmps_neg,omitempty"`
	HigherFirst       bool     `yaml:"phase_sort_higher_first"`
}

// Default returns the file form of phase.DefaultSettings.
func Default() *File {
	return FromSettings(phase.DefaultSettings())
}

// FromSettings converts s to its named file form.
func FromSettings(s phase.Settings) *File {
	return &File{
		VaporMethod:       s.VaporMethod.String(),
		SolidMethod:       s.SolidMethod.String(),
		SkipSolids:        s.SkipSolids,
		TraceCASs:         append([]string(nil), s.TraceCASs...),
		TpcWeightedR1:     s.TpcWeightedR1,
		WaterSort:         s.WaterSort.String(),
		LiquidSortMethod:  s.LiquidSort.Method.String(),
		LiquidSortProp:    s.LiquidSort.Property.String(),
		LiquidSortCmps:    s.LiquidSort.Components,
		LiquidSortCmpsNeg: s.LiquidSort.NegComponents,
		SolidSortMethod:   s.SolidSort.Method.String(),
		SolidSortProp:     s.SolidSort.Property.String(),
		SolidSortCmps:     s.SolidSort.Components,
		SolidSortCmpsNeg:  s.SolidSort.NegComponents,
		HigherFirst:       s.HigherFirst,
	}
}

// Settings parses the named fields. An unknown name is a *phase.ConfigError naming the key.
func (f *File) Settings() (phase.Settings, error) {
	var s phase.Settings
	if f == nil {
		return s, errors.New("settings file required")
	}

	var err error
	if s.VaporMethod, err = phase.ParseVaporMethod(f.VaporMethod); err != nil {
		return s, err
	}
	if s.SolidMethod, err = phase.ParseSolidMethod(f.SolidMethod); err != nil {
		return s, err
	}
	if s.WaterSort, err = phase.ParseWaterSort(f.WaterSort); err != nil {
		return s, err
	}
	if s.LiquidSort, err = sortPolicy("liquid", f.LiquidSortMethod, f.LiquidSortProp, f.LiquidSortCmps, f.LiquidSortCmpsNeg); err != nil {
		return s, err
	}
	if s.SolidSort, err = sortPolicy("solid", f.SolidSortMethod, f.SolidSortProp, f.SolidSortCmps, f.SolidSortCmpsNeg); err != nil {
		return s, err
	}

	s.SkipSolids = f.SkipSolids
	s.TraceCASs = append([]string(nil), f.TraceCASs...)
	s.TpcWeightedR1 = f.TpcWeightedR1
	s.HigherFirst = f.HigherFirst
	return s, nil
}

func sortPolicy(bucket, method, prop string, cmps, neg []int) (phase.SortPolicy, error) {
	p := phase.SortPolicy{
		Components:    append([]int(nil), cmps...),
		NegComponents: append([]int(nil), neg...),
	}

	m, err := phase.ParseSortMethod(method)
	if err != nil {
		return p, &phase.ConfigError{Setting: bucket + "_sort_method", Value: method}
	}
	p.Method = m

	// the property is unused by key-component sorting, so it may be left blank
	if m == phase.SortByKeyComponents && strings.TrimSpace(prop) == "" {
		return p, nil
	}
	v, err := phase.ParseSortProperty(prop)
	if err != nil {
		return p, &phase.ConfigError{Setting: bucket + "_sort_prop", Value: prop}
	}
	p.Property = v
	return p, nil
}

// Load reads a settings file. Keys missing from the file keep their default values.
func Load(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("settings file path required")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading settings file: %s", path)
	}

	f := Default()
	if err := yaml.Unmarshal(b, f); err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling settings file: %s", path)
	}
	return f, nil
}

// Save writes f to path.
func Save(path string, f *File) error {
	if path == "" {
		return errors.New("settings file path required")
	}
	if f == nil {
		return errors.New("settings required")
	}
	b, err := yaml.Marshal(f)
	if err != nil {
		return errors.Wrap(err, "failed to marshal settings")
	}
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write settings file: %s", path)
	}
	return nil
}

// ReadOrCreate reads the settings file from the directory, writing the default one first
// if it does not exist.
func ReadOrCreate(dirPath string) (*File, error) {
	if dirPath == "" {
		return nil, errors.New("settings directory required")
	}

	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dirPath, dirMode); err != nil {
			return nil, errors.Wrapf(err, "failed to create dir: %s", dirPath)
		}
	}

	path := filepath.Join(dirPath, settingsFileName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Debug("writing default settings", "path", path)
		if err := Save(path, Default()); err != nil {
			return nil, errors.Wrap(err, "failed to create default settings")
		}
	}

	return Load(path)
}

// GetOrCreateHomeDir returns the named directory under the user home.
// The create flag is set to true if the directory was created.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, errors.Wrap(err, "failed to get user home dir")
	}

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "dir", dir)
		if err := os.Mkdir(dir, dirMode); err != nil {
			return "", false, errors.Wrapf(err, "failed to create dir: %s", dir)
		}
		created = true
	}
	return dir, created, nil
}
