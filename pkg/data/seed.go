package data

import (
	"bytes"
	"database/sql"
	"embed"
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed seed/components.yaml
var seedFS embed.FS

// SeedComponents returns the built-in component set.
func SeedComponents() ([]*Component, error) {
	b, err := seedFS.ReadFile("seed/components.yaml")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read seed components")
	}
	return decodeComponents(bytes.NewReader(b))
}

// Seed upserts the built-in component set and returns the number of components saved.
func Seed(db *sql.DB) (int, error) {
	list, err := SeedComponents()
	if err != nil {
		return 0, err
	}
	if err := SaveComponents(db, list); err != nil {
		return 0, errors.Wrap(err, "failed to save seed components")
	}
	slog.Debug("seeded components", "count", len(list))
	return len(list), nil
}

// ImportComponents reads a YAML (or JSON) list of components from r and upserts them.
func ImportComponents(db *sql.DB, r io.Reader) (int, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}
	list, err := decodeComponents(r)
	if err != nil {
		return 0, err
	}
	if err := SaveComponents(db, list); err != nil {
		return 0, errors.Wrap(err, "failed to save imported components")
	}
	slog.Debug("imported components", "count", len(list))
	return len(list), nil
}

func decodeComponents(r io.Reader) ([]*Component, error) {
	if r == nil {
		return nil, errors.New("reader required")
	}
	var list []*Component
	if err := yaml.NewDecoder(r).Decode(&list); err != nil {
		if errors.Is(err, io.EOF) {
			return []*Component{}, nil
		}
		return nil, errors.Wrap(err, "failed to decode components")
	}
	return list, nil
}
