package report

import (
	"math"

	"github.com/zulandar/pitwall/internal/keys"
	"github.com/zulandar/pitwall/internal/record"
	"github.com/zulandar/pitwall/internal/settings"
	"github.com/zulandar/pitwall/internal/store"
)

// DefaultGroupBy groups smart results by team.
const DefaultGroupBy = "team"

// SummaryHeader is the header of a smart result summary.
var SummaryHeader = []string{"result", "group", "value"}

// Summarize evaluates every smart result declared for reportType. Each
// result contributes one row per group, groups in first-seen order.
//
// When a record lacks the group field and the group is "team", the team
// number encoded in the record key (<mode>-<team>) is used instead.
func Summarize(s store.Store, reportType string, results []settings.SmartResult) (*Table, error) {
	t := &Table{Header: []string{}, Rows: [][]string{}}

	var applicable []settings.SmartResult
	for _, r := range results {
		if r.Type == reportType {
			applicable = append(applicable, r)
		}
	}
	if len(applicable) == 0 {
		return t, nil
	}

	ks, recs, err := load(s, reportType)
	if err != nil {
		return nil, err
	}
	if len(ks) == 0 {
		return t, nil
	}

	t.Header = append(t.Header, SummaryHeader...)
	for _, res := range applicable {
		groupBy := res.GroupBy
		if groupBy == "" {
			groupBy = DefaultGroupBy
		}
		var order []string
		acc := make(map[string]*accumulator)
		for i, rec := range recs {
			g := groupOf(ks[i], rec, groupBy)
			a, ok := acc[g]
			if !ok {
				a = &accumulator{min: math.Inf(1), max: math.Inf(-1)}
				acc[g] = a
				order = append(order, g)
			}
			v, present := rec.Get(res.Field)
			if !present || v == nil {
				continue
			}
			n, numeric := record.Number(v)
			a.add(n, numeric)
		}
		for _, g := range order {
			t.Rows = append(t.Rows, []string{res.Name, g, acc[g].result(res.Agg)})
		}
	}
	return t, nil
}

func groupOf(key string, rec record.Record, groupBy string) string {
	if v, ok := rec.Get(groupBy); ok && v != nil {
		return record.Cell(v)
	}
	if groupBy == DefaultGroupBy {
		if k, err := keys.Parse(key); err == nil {
			if n, ok := k.TeamNumber(); ok {
				return record.Cell(n)
			}
		}
	}
	return ""
}

type accumulator struct {
	count   int // values present, numeric or not
	numeric int
	sum     float64
	min     float64
	max     float64
}

func (a *accumulator) add(v float64, numeric bool) {
	a.count++
	if !numeric {
		return
	}
	a.numeric++
	a.sum += v
	a.min = math.Min(a.min, v)
	a.max = math.Max(a.max, v)
}

func (a *accumulator) result(agg string) string {
	if agg == "count" {
		return record.Cell(a.count)
	}
	if a.numeric == 0 {
		return ""
	}
	switch agg {
	case "sum":
		return record.FormatFloat(a.sum)
	case "min":
		return record.FormatFloat(a.min)
	case "max":
		return record.FormatFloat(a.max)
	default:
		return record.FormatFloat(a.sum / float64(a.numeric))
	}
}
