package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// AssertionError is returned when an assertion fails.
// It includes the trace to help debug the failure.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		status := "ok"
		if event.Error != "" {
			status = event.Error
		}
		fmt.Fprintf(&buf, "  [%d] %s %s\n", event.Seq, event.Action, status)
	}
	return buf.String()
}

// EvaluateAssertions runs all assertions against the harness store and
// returns one message per failure.
func EvaluateAssertions(ctx context.Context, h *Harness, assertions []Assertion, trace []TraceEvent) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertSize:
			err = h.assertSize(ctx, a, trace)
		case AssertRowCount:
			err = h.assertRowCount(ctx, a, trace)
		case AssertTable:
			err = h.assertTable(ctx, a, trace)
		case AssertRoundTrip:
			err = h.assertRoundTrip(ctx, a, trace)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func (h *Harness) assertSize(ctx context.Context, a Assertion, trace []TraceEvent) error {
	size, err := h.manager.Size(ctx, h.store)
	if err != nil {
		return err
	}
	if size != int64(a.Count) {
		return &AssertionError{
			Type:     AssertSize,
			Expected: fmt.Sprintf("%d triples", a.Count),
			Actual:   fmt.Sprintf("%d triples", size),
			Trace:    trace,
		}
	}
	return nil
}

func (h *Harness) assertRowCount(ctx context.Context, a Assertion, trace []TraceEvent) error {
	table, err := h.manager.Query(ctx, h.store, a.Query)
	if err != nil {
		return err
	}
	if table.RowCount() != a.Count {
		return &AssertionError{
			Type:     AssertRowCount,
			Expected: fmt.Sprintf("%d rows", a.Count),
			Actual:   fmt.Sprintf("%d rows", table.RowCount()),
			Trace:    trace,
		}
	}
	return nil
}

func (h *Harness) assertTable(ctx context.Context, a Assertion, trace []TraceEvent) error {
	table, err := h.manager.Query(ctx, h.store, a.Query)
	if err != nil {
		return err
	}
	want := a.Table
	if want == nil {
		want = [][]string{}
	}
	if diff := cmp.Diff(want, table.Rows); diff != "" {
		return &AssertionError{
			Type:     AssertTable,
			Expected: fmt.Sprintf("%v", want),
			Actual:   fmt.Sprintf("%v (-want +got):\n%s", table.Rows, diff),
			Trace:    trace,
		}
	}
	return nil
}

// assertRoundTrip serializes the store and re-imports the text into a
// fresh store.
func (h *Harness) assertRoundTrip(ctx context.Context, a Assertion, trace []TraceEvent) error {
	text, err := h.manager.Serialize(ctx, h.store, a.Format)
	if err != nil {
		return err
	}
	fresh := h.manager.CreateEphemeralStore(ctx, false)
	if _, err := h.manager.ImportFromString(ctx, fresh, text, a.Format); err != nil {
		return fmt.Errorf("re-import: %w", err)
	}

	want, err := h.manager.Size(ctx, h.store)
	if err != nil {
		return err
	}
	got, err := h.manager.Size(ctx, fresh)
	if err != nil {
		return err
	}
	if got != want {
		return &AssertionError{
			Type:     AssertRoundTrip,
			Expected: fmt.Sprintf("%d triples after %s round trip", want, a.Format),
			Actual:   fmt.Sprintf("%d triples", got),
			Trace:    trace,
		}
	}
	return nil
}
