// Package report tabulates every record of a report type into a header row
// and one row per record.
package report

import (
	"fmt"
	"log"
	"slices"

	"github.com/zulandar/pitwall/internal/record"
	"github.com/zulandar/pitwall/internal/settings"
	"github.com/zulandar/pitwall/internal/store"
)

// FileColumn heads the leading column, which holds each record's key.
const FileColumn = "file"

// Table is a header row plus data rows. Both are empty when no record
// matched.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// Options controls column selection.
type Options struct {
	// Schema declares the report's fields. When nil, columns are the union of
	// fields seen across all records in encounter order.
	Schema []string
	// Favorites, when non-nil, restricts columns to these fields in this order.
	Favorites []string
	// Stats adds one derived column per stat that applies to the type.
	Stats []settings.SmartStat
}

// Tabulate builds the table for reportType. Records missing a column get an
// empty cell; fields outside a declared schema are dropped.
func Tabulate(s store.Store, reportType string, opts Options) (*Table, error) {
	ks, recs, err := load(s, reportType)
	if err != nil {
		return nil, err
	}
	t := &Table{Header: []string{}, Rows: [][]string{}}
	if len(ks) == 0 {
		return t, nil
	}

	fields := opts.Schema
	if fields == nil {
		fields = unionFields(recs)
	}
	columns := fields
	if opts.Favorites != nil {
		columns = project(fields, opts.Favorites)
	}
	stats := unshadowed(compileStats(reportType, opts.Stats), fields)

	t.Header = append(t.Header, FileColumn)
	t.Header = append(t.Header, columns...)
	for _, st := range stats {
		t.Header = append(t.Header, st.name)
	}

	for i, rec := range recs {
		row := make([]string, 0, len(t.Header))
		row = append(row, ks[i])
		for _, c := range columns {
			v, _ := rec.Get(c)
			row = append(row, record.Cell(v))
		}
		if len(stats) > 0 {
			env := rec.Env()
			for _, st := range stats {
				row = append(row, st.eval(ks[i], env))
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// DiscoverFields returns the union of field names across every record of the
// given types, in encounter order.
func DiscoverFields(s store.Store, types ...string) ([]string, error) {
	var all []record.Record
	for _, typ := range types {
		_, recs, err := load(s, typ)
		if err != nil {
			return nil, err
		}
		all = append(all, recs...)
	}
	return unionFields(all), nil
}

// load reads and decodes every record of a type in index order.
func load(s store.Store, reportType string) ([]string, []record.Record, error) {
	ks, err := s.KeysIn(reportType)
	if err != nil {
		return nil, nil, fmt.Errorf("report: %w", err)
	}
	recs := make([]record.Record, 0, len(ks))
	for _, k := range ks {
		var rec record.Record
		found, err := store.GetJSON(s, k, &rec)
		if err != nil {
			return nil, nil, fmt.Errorf("report: %w", err)
		}
		if !found {
			return nil, nil, fmt.Errorf("report: index lists %s but it has no value", k)
		}
		recs = append(recs, rec)
	}
	return ks, recs, nil
}

func unionFields(recs []record.Record) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, r := range recs {
		for _, f := range r {
			if !seen[f.Name] {
				seen[f.Name] = true
				out = append(out, f.Name)
			}
		}
	}
	return out
}

// project keeps the favorites that are present in columns, in favorites order.
func project(columns, favorites []string) []string {
	out := []string{}
	for _, f := range favorites {
		if slices.Contains(columns, f) && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// unshadowed drops stats whose name is already a header: the file column,
// a record field (favorited or not) or an earlier stat.
func unshadowed(stats []compiledStat, fields []string) []compiledStat {
	taken := map[string]bool{FileColumn: true}
	for _, f := range fields {
		taken[f] = true
	}
	out := stats[:0]
	for _, st := range stats {
		if taken[st.name] {
			log.Printf("report: smart stat %q skipped: name is already a column", st.name)
			continue
		}
		taken[st.name] = true
		out = append(out, st)
	}
	return out
}

func logEvalError(stat, key string, err error) {
	log.Printf("report: smart stat %q on %s: %v", stat, key, err)
}
