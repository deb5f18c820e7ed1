package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greendilt/digicarbon/internal/cli"
	"github.com/greendilt/digicarbon/internal/config"
	"github.com/greendilt/digicarbon/internal/footprint"
	"github.com/greendilt/digicarbon/internal/insight"
)

const desktopSnapshotYAML = `role: student
devices:
  - type: desktop_computer
    lifespan_years: 5
habits:
  idle_behavior: power_off
`

const professorSnapshotJSON = `{
  "role": "professor",
  "ai_usage": {"explain_code": 10}
}`

// setupCLITest isolates the configuration directory and resets global state.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvOutputFormat, "")
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// calculationJSON mirrors the JSON document printed per snapshot.
type calculationJSON struct {
	Source string `json:"source"`
	insight.Payload
	Devices []footprint.DeviceShare `json:"devices"`
}

func TestCalculate_Table(t *testing.T) {
	setupCLITest(t)
	path := writeFile(t, t.TempDir(), "desktop.yaml", desktopSnapshotYAML)

	out, err := execute(t, "", "calculate", "--seed", "1", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Digital Carbon Footprint: "+path)
	assert.Contains(t, out, "59.20 kg CO2e")
	assert.Contains(t, out, "-13.26 kg CO2e")
	assert.Contains(t, out, "2.08 kg CO2e")
	assert.Contains(t, out, "48.02 kg CO2e")
	assert.Contains(t, out, "Biggest source: Devices")
	assert.Contains(t, out, "Equivalent to: Produce ~")
	assert.Contains(t, out, "HOW TO REDUCE YOUR DEVICES FOOTPRINT")
	assert.Contains(t, out, "MORE IDEAS")
	assert.NotContains(t, out, "END OF LIFE/YEAR", "device detail needs --details")
}

func TestCalculate_DetailsAndUnit(t *testing.T) {
	setupCLITest(t)
	path := writeFile(t, t.TempDir(), "desktop.yml", desktopSnapshotYAML)

	out, err := execute(t, "", "calculate", "--details", "--unit", "g", path)
	require.NoError(t, err)

	assert.Contains(t, out, "DEVICES")
	assert.Contains(t, out, "Desktop Computer")
	assert.Contains(t, out, "59,200.00 g CO2e")
	assert.Contains(t, out, "5.0 y")
}

func TestCalculate_JSONKeepsArgumentOrder(t *testing.T) {
	setupCLITest(t)
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.json", professorSnapshotJSON),
		writeFile(t, dir, "b.yaml", desktopSnapshotYAML),
		writeFile(t, dir, "c.json", `{"role":"staff","habits":{"idle_behavior":"no_computer"}}`),
	}

	out, err := execute(t, "", append([]string{"calculate", "--output", "json", "--details"}, paths...)...)
	require.NoError(t, err)

	var results []calculationJSON
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 3)
	for i, p := range paths {
		assert.Equal(t, p, results[i].Source)
	}
	assert.Equal(t, footprint.CategoryAITools, results[0].Dominant)
	assert.InDelta(t, 48.0208, results[1].Total, 1e-9)
	require.Len(t, results[1].Devices, 1)
	assert.InDelta(t, 59.2, results[1].Devices[0].Production, 1e-9)
	assert.Zero(t, results[2].Total)
	assert.Empty(t, results[2].Devices)
}

func TestCalculate_SingleJSONIsAnObject(t *testing.T) {
	setupCLITest(t)
	path := writeFile(t, t.TempDir(), "desktop.yaml", desktopSnapshotYAML)

	out, err := execute(t, "", "calculate", "--output", "json", path)
	require.NoError(t, err)

	var result calculationJSON
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, footprint.CategoryDevices, result.Dominant)
	assert.Len(t, result.BonusTips, insight.BonusTipCount)
}

func TestCalculate_NDJSONFromStdin(t *testing.T) {
	setupCLITest(t)
	path := writeFile(t, t.TempDir(), "desktop.yaml", desktopSnapshotYAML)

	out, err := execute(t, professorSnapshotJSON, "calculate", "--output", "ndjson", "-", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	var first, second calculationJSON
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "-", first.Source)
	assert.Equal(t, path, second.Source)
}

func TestCalculate_YAMLFromStdin(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, desktopSnapshotYAML, "calculate", "--stdin-format", "yaml", "--output", "json", "-")
	require.NoError(t, err)

	var result calculationJSON
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.InDelta(t, 59.2, result.Breakdown.Devices, 1e-9)
}

func TestCalculate_SeedIsReproducible(t *testing.T) {
	setupCLITest(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", desktopSnapshotYAML)
	b := writeFile(t, dir, "b.yaml", desktopSnapshotYAML)

	first, err := execute(t, "", "calculate", "--output", "ndjson", "--seed", "11", a, b)
	require.NoError(t, err)
	second, err := execute(t, "", "calculate", "--output", "ndjson", "--seed", "11", a, b)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	lines := strings.Split(strings.TrimSpace(first), "\n")
	require.Len(t, lines, 2)
	var ra, rb calculationJSON
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &ra))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &rb))
	assert.Equal(t, ra.BonusTips, rb.BonusTips, "identical snapshots draw identical tips under one seed")
}

func TestCalculate_Errors(t *testing.T) {
	setupCLITest(t)
	dir := t.TempDir()
	valid := writeFile(t, dir, "ok.yaml", desktopSnapshotYAML)
	badRole := writeFile(t, dir, "dean.json", `{"role":"dean"}`)
	unknownField := writeFile(t, dir, "extra.json", `{"role":"student","pets":2}`)
	mismatch := writeFile(t, dir, "future.json", `{"role":"student","methodology":"^2.0"}`)

	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{name: "no files", args: []string{"calculate"}, wantMsg: "requires at least 1 arg"},
		{name: "missing file", args: []string{"calculate", filepath.Join(dir, "nope.json")}, wantErr: os.ErrNotExist},
		{name: "invalid role", args: []string{"calculate", valid, badRole}, wantErr: footprint.ErrInvalidRole},
		{name: "unknown field", args: []string{"calculate", unknownField}, wantMsg: "unknown field"},
		{name: "methodology", args: []string{"calculate", mismatch}, wantErr: footprint.ErrMethodologyMismatch},
		{name: "output format", args: []string{"calculate", "--output", "xml", valid}, wantMsg: "invalid output format"},
		{name: "unit", args: []string{"calculate", "--unit", "stone", valid}, wantMsg: "stone"},
		{name: "stdin format", args: []string{"calculate", "--stdin-format", "toml", "-"}, wantMsg: "--stdin-format"},
		{name: "stdin twice", args: []string{"calculate", "-", "-"}, wantMsg: "only once"},
		{name: "negative max", args: []string{"calculate", "--max-total", "-1", valid}, wantMsg: "--max-total"},
		{name: "exit code", args: []string{"calculate", "--exit-code", "0", valid}, wantMsg: "--exit-code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestCalculate_MaxTotal(t *testing.T) {
	setupCLITest(t)
	dir := t.TempDir()
	small := writeFile(t, dir, "staff.json", `{"role":"staff"}`)
	large := writeFile(t, dir, "desktop.yaml", desktopSnapshotYAML)

	_, err := execute(t, "", "calculate", "--max-total", "100", small, large)
	require.NoError(t, err)

	out, err := execute(t, "", "calculate", "--max-total", "10", small, large)
	require.Error(t, err)
	var exitErr *cli.ThresholdExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, cli.ExitCodeThreshold, exitErr.ExitCode)
	assert.Contains(t, exitErr.Reason, large)
	assert.Contains(t, exitErr.Reason, "48.02 kg CO2e")
	assert.Contains(t, out, "Biggest source", "results are printed before the threshold error")

	_, err = execute(t, "", "calculate", "--max-total", "10", "--exit-code", "42", large)
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 42, exitErr.ExitCode)
}

func TestCalculate_ConfiguredOutput(t *testing.T) {
	home := setupCLITest(t)
	path := writeFile(t, t.TempDir(), "desktop.yaml", desktopSnapshotYAML)
	writeFile(t, home, config.DefaultConfigFile, "output:\n  default_format: ndjson\n  unit: t\n  precision: 3\n")

	out, err := execute(t, "", "calculate", path)
	require.NoError(t, err)
	var result calculationJSON
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &result))

	config.ResetGlobalConfigForTest()
	out, err = execute(t, "", "calculate", "--output", "table", path)
	require.NoError(t, err)
	assert.Contains(t, out, "0.059 t CO2e")
}

func TestRoot_ConfigFlag(t *testing.T) {
	setupCLITest(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "desktop.yaml", desktopSnapshotYAML)
	cfgPath := writeFile(t, dir, "custom.yaml", "output:\n  default_format: json\n")

	out, err := execute(t, "", "--config", cfgPath, "calculate", path)
	require.NoError(t, err)
	var result calculationJSON
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	broken := writeFile(t, dir, "broken.yaml", "output:\n  precision: 99\n")
	_, err = execute(t, "", "--config", broken, "calculate", path)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestFactors(t *testing.T) {
	setupCLITest(t)

	out, err := execute(t, "", "factors")
	require.NoError(t, err)
	assert.Contains(t, out, "methodology "+footprint.MethodologyVersion)
	assert.Contains(t, out, "ACTIVITIES: STUDENT")
	assert.Contains(t, out, "ACTIVITIES: STAFF MEMBER")
	assert.Contains(t, out, "Desktop Computer")
	assert.Contains(t, out, "296")
	assert.Contains(t, out, "LIFESPAN MULTIPLIERS")
	assert.Contains(t, out, "used, shared")

	out, err = execute(t, "", "factors", "--role", "professor")
	require.NoError(t, err)
	assert.Contains(t, out, "ACTIVITIES: PROFESSOR")
	assert.NotContains(t, out, "ACTIVITIES: STUDENT")

	out, err = execute(t, "", "factors", "--role", "staff", "--output", "json")
	require.NoError(t, err)
	var ft footprint.FactorTable
	require.NoError(t, json.Unmarshal([]byte(out), &ft))
	assert.Len(t, ft.Activities, 1)
	assert.Len(t, ft.Activities[footprint.RoleStaff], 5)
	assert.Len(t, ft.AITasks, 12)

	_, err = execute(t, "", "factors", "--role", "dean")
	require.ErrorIs(t, err, footprint.ErrInvalidRole)
	_, err = execute(t, "", "factors", "--output", "csv")
	require.Error(t, err)
}

func TestConfigInitAndShow(t *testing.T) {
	home := setupCLITest(t)
	path := filepath.Join(home, config.DefaultConfigFile)

	out, err := execute(t, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized successfully")
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "default_format: table")
	assert.Contains(t, string(data), "session_ttl: 30m0s")

	_, err = execute(t, "", "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "use --force to overwrite")

	_, err = execute(t, "", "config", "init", "--force")
	require.NoError(t, err)

	t.Setenv(config.EnvAddr, "0.0.0.0:9000")
	config.ResetGlobalConfigForTest()
	out, err = execute(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# "+path)
	assert.Contains(t, out, "0.0.0.0:9000", "show prints the effective configuration")
}

func TestConfigInit_CreatesHomeDir(t *testing.T) {
	setupCLITest(t)
	home := filepath.Join(t.TempDir(), "nested", "digicarbon")
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvConfig, filepath.Join(t.TempDir(), "elsewhere.yaml"))
	config.ResetGlobalConfigForTest()

	_, err := execute(t, "", "config", "init")
	require.NoError(t, err)

	stat, err := os.Stat(home)
	require.NoError(t, err)
	assert.True(t, stat.IsDir())
}
