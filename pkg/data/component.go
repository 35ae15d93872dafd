package data

import (
	"database/sql"
	"log/slog"
	"math"
	"strings"

	"github.com/mchmarny/phaseid/pkg/phase"
	"github.com/pkg/errors"
)

const (
	insertComponentSQL = `INSERT INTO component (cas, name, tc, pc, vc, omega, mw)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(cas) DO UPDATE SET
			name = excluded.name,
			tc = excluded.tc,
			pc = excluded.pc,
			vc = excluded.vc,
			omega = excluded.omega,
			mw = excluded.mw,
			updated_at = CURRENT_TIMESTAMP
	`

	selectComponentSQL = `SELECT cas, name, tc, pc, vc, omega, mw
		FROM component
		WHERE cas = ?
	`

	selectComponentsSQL = `SELECT cas, name, tc, pc, vc, omega, mw
		FROM component
		ORDER BY name, cas
	`
)

// ErrComponentNotFound is returned when a requested CAS number is not in the store.
var ErrComponentNotFound = errors.New("component not found")

// Component holds the critical constants of one chemical, in SI units.
type Component struct {
	CAS   string  `json:"cas" yaml:"cas"`
	Name  string  `json:"name" yaml:"name"`
	Tc    float64 `json:"tc" yaml:"tc"`       // [K]
	Pc    float64 `json:"pc" yaml:"pc"`       // [Pa]
	Vc    float64 `json:"vc" yaml:"vc"`       // [m^3/mol]
	Omega float64 `json:"omega" yaml:"omega"` // [-]
	MW    float64 `json:"mw" yaml:"mw"`       // [g/mol]
}

// Validate rejects components that could not be used for scoring.
func (c *Component) Validate() error {
	if c == nil {
		return errors.New("component required")
	}
	if strings.TrimSpace(c.CAS) == "" {
		return errors.New("component CAS required")
	}
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"tc", c.Tc},
		{"pc", c.Pc},
		{"vc", c.Vc},
		{"mw", c.MW},
	} {
		if !(v.val > 0) || math.IsInf(v.val, 0) {
			return errors.Errorf("component %s: %s must be positive, got %v", c.CAS, v.name, v.val)
		}
	}
	if math.IsNaN(c.Omega) || math.IsInf(c.Omega, 0) {
		return errors.Errorf("component %s: omega must be finite", c.CAS)
	}
	return nil
}

// SaveComponents upserts the components in a single transaction.
func SaveComponents(db *sql.DB, list []*Component) error {
	if db == nil {
		return errDBNotInitialized
	}

	if len(list) == 0 {
		return nil
	}

	for i, c := range list {
		if err := c.Validate(); err != nil {
			return errors.Wrapf(err, "invalid component[%d]", i)
		}
	}

	stmt, err := db.Prepare(insertComponentSQL)
	if err != nil {
		return errors.Wrap(err, "failed to prepare component insert statement")
	}
	defer stmt.Close()

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	for i, c := range list {
		if _, err = tx.Stmt(stmt).Exec(c.CAS, c.Name, c.Tc, c.Pc, c.Vc, c.Omega, c.MW); err != nil {
			slog.Error("failed to insert component",
				"index", i,
				"error", err,
				"cas", c.CAS,
				"name", c.Name,
			)
			rollbackTransaction(tx)
			return errors.Wrapf(err, "error inserting component[%d]: %s", i, c.CAS)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil
}

// GetComponent returns the component with the CAS number, or nil when there is none.
func GetComponent(db *sql.DB, cas string) (*Component, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	stmt, err := db.Prepare(selectComponentSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare component select statement")
	}
	defer stmt.Close()

	c := &Component{}
	if err = stmt.QueryRow(strings.TrimSpace(cas)).Scan(&c.CAS, &c.Name, &c.Tc, &c.Pc, &c.Vc, &c.Omega, &c.MW); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to scan row")
	}

	return c, nil
}

// ListComponents returns every stored component ordered by name.
func ListComponents(db *sql.DB) ([]*Component, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectComponentsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute component select statement")
	}
	defer rows.Close()

	list := make([]*Component, 0)
	for rows.Next() {
		c := &Component{}
		if err := rows.Scan(&c.CAS, &c.Name, &c.Tc, &c.Pc, &c.Vc, &c.Omega, &c.MW); err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate component rows")
	}

	return list, nil
}

// GetConstants builds phase constants for the CAS numbers in the order given.
// The water index is resolved from the CAS numbers.
func GetConstants(db *sql.DB, cass []string) (phase.Constants, error) {
	if db == nil {
		return phase.Constants{}, errDBNotInitialized
	}
	if len(cass) == 0 {
		return phase.Constants{}, errors.New("at least one component required")
	}

	n := len(cass)
	ids := make([]string, 0, n)
	tcs := make([]float64, 0, n)
	pcs := make([]float64, 0, n)
	vcs := make([]float64, 0, n)
	omegas := make([]float64, 0, n)
	mws := make([]float64, 0, n)

	for _, cas := range cass {
		cas = strings.TrimSpace(cas)
		if Contains(ids, cas) {
			return phase.Constants{}, errors.Errorf("duplicate component: %s", cas)
		}
		c, err := GetComponent(db, cas)
		if err != nil {
			return phase.Constants{}, errors.Wrapf(err, "failed to get component: %s", cas)
		}
		if c == nil {
			return phase.Constants{}, errors.Wrap(ErrComponentNotFound, cas)
		}
		ids = append(ids, c.CAS)
		tcs = append(tcs, c.Tc)
		pcs = append(pcs, c.Pc)
		vcs = append(vcs, c.Vc)
		omegas = append(omegas, c.Omega)
		mws = append(mws, c.MW)
	}

	return phase.NewConstants(ids, tcs, pcs, vcs, omegas, mws), nil
}
