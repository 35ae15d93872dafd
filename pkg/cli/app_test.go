package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mchmarny/phaseid/pkg/config"
	"github.com/mchmarny/phaseid/pkg/phase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// runApp runs the CLI with an isolated home dir and returns what it wrote to stdout.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runAppWithInput(t, strings.NewReader(""), args...)
}

func runAppWithInput(t *testing.T, in io.Reader, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var buf bytes.Buffer
	app := newApp()
	app.Reader = in
	app.Writer = &buf
	app.ErrWriter = &buf
	err := app.Run(t.Context(), append([]string{appName}, args...))
	return buf.String(), err
}

func decodeReport(t *testing.T, out string) *Report {
	t.Helper()
	var r Report
	require.NoError(t, json.Unmarshal([]byte(out), &r), out)
	return &r
}

func TestIdentify_InlineConstants(t *testing.T) {
	path := writeFile(t, t.TempDir(), "case.yaml", waterHexaneCase+inlineConstants)

	out, err := runApp(t, "identify", path)
	require.NoError(t, err)

	r := decodeReport(t, out)
	assert.Equal(t, "water-hexane", r.Case)
	assert.Equal(t, 1, r.Gas)
	assert.Equal(t, []int{0, 3, 2}, r.Liquids)
	assert.Empty(t, r.Solids)
	assert.Equal(t, []int{1, 0, 3, 2}, r.Order)
	assert.Equal(t, []phase.Label{phase.Liquid, phase.Gas, phase.Liquid, phase.Liquid}, r.Labels)
	assert.Equal(t, []float64{0.2, 0.1, 0.4, 0.3}, r.Betas)
}

func TestIdentify_ComponentsFromStore(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "components.db")
	path := writeFile(t, dir, "case.yaml", waterHexaneCase+"components: [7732-18-5, 110-54-3]\n")

	// nothing seeded yet
	_, err := runApp(t, "--db", db, "identify", path)
	require.Error(t, err)

	_, err = runApp(t, "--db", db, "component", "seed")
	require.NoError(t, err)

	out, err := runApp(t, "--db", db, "identify", path)
	require.NoError(t, err)
	r := decodeReport(t, out)
	assert.Equal(t, []int{1, 0, 3, 2}, r.Order)
}

func TestIdentify_YAMLOutput(t *testing.T) {
	path := writeFile(t, t.TempDir(), "case.yaml", waterHexaneCase+inlineConstants)

	out, err := runApp(t, "--format", "yaml", "identify", path)
	require.NoError(t, err)

	var r Report
	require.NoError(t, yaml.Unmarshal([]byte(out), &r))
	assert.Equal(t, 1, r.Gas)
	assert.Contains(t, out, "- gas")
}

func TestIdentify_SettingsFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "case.yaml", waterHexaneCase+inlineConstants)

	f := config.Default()
	f.WaterSort = phase.WaterFirst.String()
	settings := filepath.Join(dir, "settings.yaml")
	require.NoError(t, config.Save(settings, f))

	out, err := runApp(t, "--settings", settings, "identify", path)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 3}, decodeReport(t, out).Liquids)

	f.LiquidSortProp = "VISCOSITY"
	require.NoError(t, config.Save(settings, f))
	_, err = runApp(t, "--settings", settings, "identify", path)
	assert.True(t, errors.Is(err, phase.ErrConfig))
}

func TestIdentify_MethodOverride(t *testing.T) {
	path := writeFile(t, t.TempDir(), "case.yaml", waterHexaneCase+inlineConstants)

	// every phase is far below the mixture critical temperature
	out, err := runApp(t, "identify", "--method", "Tpc", path)
	require.NoError(t, err)
	assert.Equal(t, -1, decodeReport(t, out).Gas)

	_, err = runApp(t, "identify", "--method", "SRK", path)
	assert.True(t, errors.Is(err, phase.ErrConfig))
}

func TestIdentify_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := runApp(t, "identify")
	assert.Error(t, err)

	_, err = runApp(t, "identify", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = runApp(t, "--format", "xml", "identify", writeFile(t, dir, "c.yaml", waterHexaneCase+inlineConstants))
	assert.Error(t, err)

	// betas do not line up with the phases
	bad := writeFile(t, dir, "bad.yaml", inlineConstants+"betas: [1]\nphases: [{zs: [0.5, 0.5], PIP: 2, d2P_dVdT: -1}, {zs: [0.5, 0.5], PIP: 2, d2P_dVdT: -1}]")
	_, err = runApp(t, "identify", bad)
	assert.True(t, errors.Is(err, phase.ErrBetaLength))
}

func TestScore(t *testing.T) {
	path := writeFile(t, t.TempDir(), "case.yaml", waterHexaneCase+inlineConstants)

	out, err := runApp(t, "score", path)
	require.NoError(t, err)

	var r ScoreReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, phase.VaporPIP, r.VaporMethod)
	require.Len(t, r.Vapor, 4)
	assert.InDelta(t, -2, r.Vapor[0], 1e-12)
	assert.InDelta(t, 0.1, r.Vapor[1], 1e-12)
	assert.Equal(t, []float64{-1, -1, -1, -1}, r.Solid)

	out, err = runApp(t, "score", "--method", "Tpc", path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, phase.VaporTpc, r.VaporMethod)
	assert.InDelta(t, 300-(0.01*647.14+0.99*507.6), r.Vapor[0], 1e-9)
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", waterHexaneCase+inlineConstants)
	b := writeFile(t, dir, "b.yaml", inlineConstants+"phases: [{T: 300, P: 1e5, zs: [0.5, 0.5], PIP: 3, d2P_dVdT: 1}]")
	missing := filepath.Join(dir, "missing.yaml")

	out, err := runApp(t, "batch", a, missing, b)
	require.NoError(t, err)

	var reports []*Report
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 3)

	assert.Equal(t, "water-hexane", reports[0].Case)
	assert.Equal(t, []int{1, 0, 3, 2}, reports[0].Order)

	assert.Equal(t, missing, reports[1].Case)
	assert.NotEmpty(t, reports[1].Error)

	assert.Equal(t, "b", reports[2].Case)
	assert.Equal(t, []int{0}, reports[2].Solids)
	assert.Empty(t, reports[2].Error)

	_, err = runApp(t, "batch", "--fail-fast", a, missing, b)
	assert.Error(t, err)

	_, err = runApp(t, "batch")
	assert.Error(t, err)
}

func TestComponentCommands(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "components.db")

	out, err := runApp(t, "--db", db, "component", "list")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)

	extra := writeFile(t, dir, "extra.yaml", "- {cas: 71-43-2, name: benzene, tc: 562.05, pc: 4895000, vc: 2.56e-4, omega: 0.21, mw: 78.11184}")
	out, err = runApp(t, "--db", db, "component", "import", extra)
	require.NoError(t, err)
	assert.JSONEq(t, `{"db": "`+db+`", "count": 1}`, out)

	out, err = runApp(t, "--db", db, "component", "get", "71-43-2")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "benzene"`)

	_, err = runApp(t, "--db", db, "component", "get", "0-00-0")
	assert.Error(t, err)

	_, err = runApp(t, "--db", db, "component", "import", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestSettingsCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	_, err := runApp(t, "--settings", path, "settings", "init")
	require.NoError(t, err)
	assert.FileExists(t, path)

	f, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), f)

	out, err := runApp(t, "--settings", path, "--format", "yaml", "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "vl_id: PIP")
	assert.Contains(t, out, "water_sort: water last")

	// init keeps an existing file
	f.VaporMethod = "Wilson"
	require.NoError(t, config.Save(path, f))
	_, err = runApp(t, "--settings", path, "settings", "init")
	require.NoError(t, err)
	f, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Wilson", f.VaporMethod)
}

func TestComponentImport_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/components.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`[{"cas": "67-56-1", "name": "methanol", "tc": 512.5, "pc": 8084000, "vc": 1.17e-4, "omega": 0.565, "mw": 32.04186}]`))
	}))
	defer srv.Close()

	db := filepath.Join(t.TempDir(), "components.db")
	_, err := runApp(t, "--db", db, "component", "import", srv.URL+"/components.json")
	require.NoError(t, err)

	out, err := runApp(t, "--db", db, "component", "get", "67-56-1")
	require.NoError(t, err)
	assert.Contains(t, out, "methanol")

	_, err = runApp(t, "--db", db, "component", "import", srv.URL+"/missing.json")
	assert.Error(t, err)
}

func TestComponentReset(t *testing.T) {
	db := filepath.Join(t.TempDir(), "components.db")
	_, err := runApp(t, "--db", db, "component", "seed")
	require.NoError(t, err)

	out, err := runAppWithInput(t, strings.NewReader("n\n"), "--db", db, "component", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")

	out, err = runApp(t, "--db", db, "component", "list")
	require.NoError(t, err)
	assert.NotEqual(t, "[]", strings.TrimSpace(out))

	_, err = runAppWithInput(t, strings.NewReader("y\n"), "--db", db, "component", "reset")
	require.NoError(t, err)

	out, err = runApp(t, "--db", db, "component", "list")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)

	_, err = runApp(t, "--db", db, "component", "seed")
	require.NoError(t, err)
	_, err = runApp(t, "--db", db, "component", "reset", "--force")
	require.NoError(t, err)
	out, err = runApp(t, "--db", db, "component", "list")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}
