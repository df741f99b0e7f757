package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/roach88/rdfkit/internal/engine"
	"github.com/roach88/rdfkit/internal/graph"
	"github.com/roach88/rdfkit/internal/manager"
	"github.com/roach88/rdfkit/internal/testutil"
)

// Harness is the scenario execution engine.
type Harness struct {
	manager *manager.Manager
	store   graph.Store
	baseDir string
	clock   Clock
	logger  *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh store. A returned error means the
// scenario could not be run (store creation or a setup step failed);
// failed expectations and assertions are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	baseDir := scenario.BaseDir
	if baseDir == "" {
		baseDir = "."
	}
	m := manager.New(
		manager.WithLogger(logger),
		manager.WithBlankGenerator(testutil.NewDeterministicBlanks("b")),
		manager.WithRoot(baseDir),
	)
	defer m.Close()

	h := &Harness{manager: m, baseDir: baseDir, logger: logger}
	cleanup, err := h.openStore(ctx, scenario.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	defer cleanup()

	result := NewResult()
	for i, step := range scenario.Setup {
		ev, _, err := h.perform(ctx, step.Action, step.Args)
		if err != nil {
			return nil, fmt.Errorf("setup[%d] %s: %w", i, step.Action, err)
		}
		result.AddTrace(ev)
	}

	for i, step := range scenario.Flow {
		ev, output, err := h.perform(ctx, step.Invoke, step.Args)
		result.AddTrace(ev)
		for _, msg := range checkExpect(step, ev, output, err) {
			result.AddError(fmt.Sprintf("flow[%d] %s: %s", i, step.Invoke, msg))
		}
	}

	size, err := m.Size(ctx, h.store)
	if err != nil {
		return nil, fmt.Errorf("failed to read final size: %w", err)
	}
	result.Size = size

	for _, errMsg := range EvaluateAssertions(ctx, h, scenario.Assertions, result.Trace) {
		result.AddError(errMsg)
	}
	return result, nil
}

func (h *Harness) openStore(ctx context.Context, kind string) (func(), error) {
	switch kind {
	case StorePersistent:
		dir, err := os.MkdirTemp("", "rdfkit-scenario-*")
		if err != nil {
			return nil, err
		}
		st, err := h.manager.CreatePersistentStore(ctx, dir)
		if err != nil {
			os.RemoveAll(dir)
			return nil, err
		}
		h.store = st
		return func() {
			if err := st.Close(); err != nil {
				h.logger.Error("error closing store", "error", err)
			}
			os.RemoveAll(dir)
		}, nil
	case StoreOntology:
		h.store = h.manager.CreateEphemeralStore(ctx, true)
	default:
		h.store = h.manager.CreateEphemeralStore(ctx, false)
	}
	return func() {}, nil
}

// perform runs one action. The returned output is the text checked by
// expect.contains: serialized text, or "" for other actions.
func (h *Harness) perform(ctx context.Context, action string, args map[string]any) (TraceEvent, string, error) {
	ev := TraceEvent{Seq: h.clock.Next(), Action: action}

	var (
		output string
		err    error
	)
	switch action {
	case ActionImport:
		err = h.doImport(ctx, args, &ev)
	case ActionQuery:
		table, qerr := h.manager.Query(ctx, h.store, argString(args, "query"))
		if err = qerr; err == nil {
			ev.Columns, ev.Rows = table.Columns, table.Rows
		}
	case ActionSize:
		size, serr := h.manager.Size(ctx, h.store)
		if err = serr; err == nil {
			ev.Size = &size
		}
	case ActionSerialize:
		ev.Format = argString(args, "format")
		output, err = h.manager.Serialize(ctx, h.store, ev.Format)
		ev.Output = output
	case ActionResults:
		err = h.doResults(args, &ev)
	default:
		err = fmt.Errorf("unknown action %q", action)
	}
	if err != nil {
		ev.Error = errorCode(err)
	}
	return ev, output, err
}

func (h *Harness) doImport(ctx context.Context, args map[string]any, ev *TraceEvent) error {
	ev.Format = argString(args, "format")

	var (
		parsed int
		err    error
	)
	if file := argString(args, "file"); file != "" {
		res, ierr := h.manager.ImportFromFile(ctx, h.store, file, ev.Format)
		parsed, err = res.Parsed, ierr
	} else {
		res, ierr := h.manager.ImportFromString(ctx, h.store, argString(args, "content"), ev.Format)
		parsed, err = res.Parsed, ierr
	}
	ev.Parsed = &parsed
	if err != nil {
		return err
	}

	size, err := h.manager.Size(ctx, h.store)
	if err != nil {
		return err
	}
	ev.Size = &size
	return nil
}

func (h *Harness) doResults(args map[string]any, ev *TraceEvent) error {
	doc := argString(args, "document")
	if file := argString(args, "file"); file != "" {
		data, err := os.ReadFile(filepath.Join(h.baseDir, file))
		if err != nil {
			return err
		}
		doc = string(data)
	}
	table, err := h.manager.ParseResultDocument([]byte(doc), argString(args, "query"))
	if err != nil {
		return err
	}
	ev.Columns, ev.Rows = table.Columns, table.Rows
	return nil
}

func argString(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// errorCode returns the rdfkit or engine error code of err, or ERROR.
func errorCode(err error) string {
	if code := graph.CodeOf(err); code != "" {
		return string(code)
	}
	var re *engine.RuntimeError
	if errors.As(err, &re) {
		return string(re.Code)
	}
	return "ERROR"
}

func checkExpect(step FlowStep, ev TraceEvent, output string, err error) []string {
	exp := step.Expect
	if exp == nil {
		if err != nil {
			return []string{fmt.Sprintf("unexpected error: %v", err)}
		}
		return nil
	}

	var errs []string
	switch {
	case exp.Error == "" && err != nil:
		return []string{fmt.Sprintf("unexpected error: %v", err)}
	case exp.Error != "" && err == nil:
		return []string{fmt.Sprintf("expected error %s, got success", exp.Error)}
	case exp.Error != "" && ev.Error != exp.Error:
		errs = append(errs, fmt.Sprintf("expected error %s, got %s (%v)", exp.Error, ev.Error, err))
	}

	text := output
	if err != nil {
		text = err.Error()
	}
	for _, want := range exp.Contains {
		if !strings.Contains(text, want) {
			errs = append(errs, fmt.Sprintf("expected %q in %q", want, text))
		}
	}

	if exp.Size != nil {
		switch {
		case ev.Size == nil:
			errs = append(errs, fmt.Sprintf("expected size %d, got none", *exp.Size))
		case *ev.Size != *exp.Size:
			errs = append(errs, fmt.Sprintf("expected size %d, got %d", *exp.Size, *ev.Size))
		}
	}
	if exp.Rows != nil && len(ev.Rows) != *exp.Rows {
		errs = append(errs, fmt.Sprintf("expected %d rows, got %d", *exp.Rows, len(ev.Rows)))
	}
	if exp.Columns != nil {
		if diff := cmp.Diff(exp.Columns, ev.Columns); diff != "" {
			errs = append(errs, fmt.Sprintf("columns mismatch (-want +got):\n%s", diff))
		}
	}
	if exp.Table != nil {
		if diff := cmp.Diff(exp.Table, ev.Rows); diff != "" {
			errs = append(errs, fmt.Sprintf("table mismatch (-want +got):\n%s", diff))
		}
	}
	return errs
}
