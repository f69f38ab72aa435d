package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/PaesslerAG/jsonpath"
	"github.com/spf13/pflag"

	"github.com/five82/folio/internal/store"
)

// loader is the part of a store the read commands need.
type loader[T any] interface {
	Load(ctx context.Context)
	Snapshot() store.State[T]
}

// loadOnce loads s and returns its items, or the recorded store error.
func loadOnce[T any](ctx context.Context, s loader[T]) ([]T, error) {
	s.Load(ctx)
	snap := s.Snapshot()
	if snap.Err != nil {
		return nil, snap.Err
	}
	return snap.Items, nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// jsonOutput holds the --json and --jsonpath flags of the read commands.
type jsonOutput struct {
	enabled bool
	query   string
}

func (o *jsonOutput) bind(flags *pflag.FlagSet) {
	flags.BoolVar(&o.enabled, "json", false, "Print JSON instead of a table")
	flags.StringVar(&o.query, "jsonpath", "", "Print only what this JSONPath selects, e.g. '$[*].ticker'")
}

func (o jsonOutput) active() bool {
	return o.enabled || o.query != ""
}

// write prints v as JSON, filtered through the JSONPath query when set.
func (o jsonOutput) write(w io.Writer, v any) error {
	if o.query == "" {
		return printJSON(w, v)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	selected, err := jsonpath.Get(o.query, doc)
	if err != nil {
		return fmt.Errorf("jsonpath %q: %w", o.query, err)
	}
	return printJSON(w, selected)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
