package report

import (
	"fmt"
	"slices"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
	"github.com/zulandar/pitwall/internal/record"
	"github.com/zulandar/pitwall/internal/settings"
)

// ErrCell is rendered in place of a smart stat that failed to evaluate.
const ErrCell = "ERR"

// Aggregations supported by smart results.
var Aggregations = []string{"mean", "sum", "min", "max", "count"}

type compiledStat struct {
	name    string
	program *exprvm.Program
	err     error
}

// CompileStat checks that a smart stat is well formed.
func CompileStat(st settings.SmartStat) error {
	if st.Name == "" {
		return fmt.Errorf("report: smart stat name is required")
	}
	if st.Expr == "" {
		return fmt.Errorf("report: smart stat %q: expression is required", st.Name)
	}
	if _, err := compile(st.Expr); err != nil {
		return fmt.Errorf("report: smart stat %q: %w", st.Name, err)
	}
	return nil
}

// ValidateResult checks that a smart result is well formed.
func ValidateResult(r settings.SmartResult) error {
	switch {
	case r.Name == "":
		return fmt.Errorf("report: smart result name is required")
	case r.Type == "":
		return fmt.Errorf("report: smart result %q: type is required", r.Name)
	case r.Field == "":
		return fmt.Errorf("report: smart result %q: field is required", r.Name)
	case !slices.Contains(Aggregations, r.Agg):
		return fmt.Errorf("report: smart result %q: agg %q must be one of %v", r.Name, r.Agg, Aggregations)
	}
	return nil
}

func compile(expression string) (*exprvm.Program, error) {
	return exprlang.Compile(expression,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	)
}

// compileStats compiles the stats that apply to reportType. A stat that does
// not compile still gets a column, filled with ErrCell.
func compileStats(reportType string, stats []settings.SmartStat) []compiledStat {
	var out []compiledStat
	for _, st := range stats {
		if st.Type != "" && st.Type != reportType {
			continue
		}
		program, err := compile(st.Expr)
		if err != nil {
			logEvalError(st.Name, reportType, err)
		}
		out = append(out, compiledStat{name: st.Name, program: program, err: err})
	}
	return out
}

func (c compiledStat) eval(key string, env map[string]any) string {
	if c.err != nil {
		return ErrCell
	}
	result, err := exprlang.Run(c.program, env)
	if err != nil {
		logEvalError(c.name, key, err)
		return ErrCell
	}
	return record.Cell(result)
}
