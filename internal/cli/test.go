package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/roach88/rdfkit/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // rewrite golden traces
	Filter string // glob over scenario file names
}

// Golden trace states reported per scenario.
const (
	goldenMatch    = "match"
	goldenMismatch = "mismatch"
	goldenUpdated  = "updated"
)

// ScenarioResult is the outcome of one scenario file.
type ScenarioResult struct {
	Name string `json:"name"`
	File string `json:"file"`
	Pass bool   `json:"pass"`

	// Steps is the number of setup and flow steps that ran.
	Steps int `json:"steps"`
	// Size is the store size after the flow.
	Size int64 `json:"size"`

	// Errors holds failed expectations and assertions, each prefixed
	// with the step or assertion it belongs to.
	Errors []string `json:"errors,omitempty"`

	// Golden is empty when the scenario has no golden trace.
	Golden     string `json:"golden,omitempty"`
	GoldenDiff string `json:"golden_diff,omitempty"`
}

func (r ScenarioResult) failed(format string, args ...any) ScenarioResult {
	r.Pass = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	return r
}

// TestResult holds the outcome of a test run.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

func (t *TestResult) add(r ScenarioResult) {
	t.Scenarios = append(t.Scenarios, r)
	t.Total++
	if r.Pass {
		t.Passed++
	} else {
		t.Failed++
	}
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run scenario files",
		Long: `Run YAML scenario files against fresh stores.

Each scenario imports documents, runs queries and checks the expected
outcomes and final assertions. When golden/<name>.golden exists next to
a scenario its trace must match it; a mismatch is shown as a diff.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  rdfkit test ./scenarios
  rdfkit test ./scenarios --filter "import-*"
  rdfkit test ./scenarios --update
  rdfkit test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "rewrite golden traces from this run")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "run only scenarios whose file name matches this glob")

	return cmd
}

func runTests(opts *TestOptions, dir string, cmd *cobra.Command) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return NewExitError(ExitCommandError, "scenarios directory not found: "+dir)
	}
	files, err := findScenarioFiles(dir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	out := newFormatter(opts.RootOptions, cmd)
	text := out.Format != "json"
	if len(files) == 0 && text {
		fmt.Fprintln(out.Writer, "No scenarios found.")
		return nil
	}

	result := TestResult{Scenarios: []ScenarioResult{}}
	for _, file := range files {
		r := runScenario(file, opts.Update)
		out.VerboseLog("%s: %d steps, store size %d", r.File, r.Steps, r.Size)
		if text {
			printScenario(out.Writer, r)
		}
		result.add(r)
	}

	if !text {
		return writeTestJSON(out.Writer, result)
	}
	fmt.Fprintf(out.Writer, "\nTest Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	fmt.Fprintln(out.Writer, "✓ All scenarios passed")
	return nil
}

// findScenarioFiles lists .yaml and .yml files under dir whose base name,
// without extension, matches filter.
func findScenarioFiles(dir, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			if ok, _ := filepath.Match(filter, strings.TrimSuffix(d.Name(), ext)); !ok {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// runScenario loads and runs one scenario file, then checks or rewrites
// its golden trace.
func runScenario(file string, update bool) ScenarioResult {
	r := ScenarioResult{Name: filepath.Base(file), File: file}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return r.failed("load: %v", err)
	}
	r.Name = scenario.Name

	res, err := harness.Run(scenario)
	if err != nil {
		return r.failed("run: %v", err)
	}
	r.Steps = len(res.Trace)
	r.Size = res.Size
	r.Errors = append(r.Errors, res.Errors...)

	got, err := harness.MarshalSnapshot(scenario.Name, res.Trace)
	if err != nil {
		return r.failed("golden: %v", err)
	}
	path := goldenFilePath(file)
	if update {
		if err := writeGolden(path, got); err != nil {
			return r.failed("golden: %v", err)
		}
		r.Golden = goldenUpdated
	} else {
		want, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return r.failed("golden: %v", err)
		case bytes.Equal(want, got):
			r.Golden = goldenMatch
		default:
			r.Golden = goldenMismatch
			r.GoldenDiff = snapshotDiff(want, got)
		}
	}

	r.Pass = len(r.Errors) == 0 && r.Golden != goldenMismatch
	return r
}

// goldenFilePath returns golden/<name>.golden next to the scenario file.
func goldenFilePath(scenarioFile string) string {
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(scenarioFile), "golden", name+".golden")
}

func writeGolden(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// snapshotDiff compares two golden traces event by event, falling back to
// a text diff when either does not decode.
func snapshotDiff(want, got []byte) string {
	var w, g harness.TraceSnapshot
	if json.Unmarshal(want, &w) != nil || json.Unmarshal(got, &g) != nil {
		return cmp.Diff(string(want), string(got))
	}
	return cmp.Diff(w, g)
}

func printScenario(w io.Writer, r ScenarioResult) {
	if r.Pass {
		note := fmt.Sprintf("%d steps, size %d", r.Steps, r.Size)
		if r.Golden == goldenUpdated {
			note += ", golden updated"
		}
		fmt.Fprintf(w, "✓ %s (%s)\n", r.Name, note)
		return
	}

	fmt.Fprintf(w, "✗ %s\n", r.Name)
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  %s\n", indent(e, "    "))
	}
	if r.Golden == goldenMismatch {
		fmt.Fprintln(w, "  Golden file mismatch (run with --update to regenerate), -golden +got:")
		fmt.Fprintf(w, "    %s\n", indent(strings.TrimRight(r.GoldenDiff, "\n"), "    "))
	}
}

// indent prefixes every line after the first.
func indent(s, prefix string) string {
	return strings.ReplaceAll(s, "\n", "\n"+prefix)
}

func writeTestJSON(w io.Writer, result TestResult) error {
	resp := CLIResponse{Status: "ok", Data: result}
	if result.Failed > 0 {
		resp.Status = "error"
		resp.Error = &CLIError{
			Code:    "E_TEST_FAILED",
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, resp.Error.Message)
	}
	return nil
}
