// SPDX-License-Identifier: Apache-2.0

// Package report provides the core's Reporter collaborator: a tabwriter-based
// table renderer over a built Summary.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/gobench-dev/gobench/pkg/gobench"
)

// Reporter renders a suite's toolchain results for a human or a CI log.
type Reporter interface {
	Report(out io.Writer, suiteKey string, results []gobench.ToolchainResult) error
}

// TableReporter renders a Summary as an aligned column table, coloring the
// baseline row (if any) so it stands out among comparisons.
type TableReporter struct {
	// Vars selects and orders the columns printed before the metric
	// columns. When empty, defaults to Name, Builder, Executor (whichever
	// are non-empty across the results) followed by every user parameter.
	Vars []string
}

// Report builds a summary from results and writes an aligned table to out.
func (r *TableReporter) Report(out io.Writer, suiteKey string, results []gobench.ToolchainResult) error {
	summary, err := gobench.BuildSummary(results)
	if err != nil {
		return err
	}

	vars := r.Vars
	if len(vars) == 0 {
		vars = inferVars(results)
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', tabwriter.FilterHTML)
	fmt.Fprintf(w, "SUITE: %s\n", suiteKey)

	header := append(append([]string(nil), vars...), "TIME (ms)", "THROUGHPUT")
	fmt.Fprintln(w, join(header))

	baseline := summary.Baseline()
	for _, row := range summary.Sort(vars) {
		cols := make([]string, 0, len(vars)+2)
		for _, v := range vars {
			cols = append(cols, row.Vars[v])
		}
		cols = append(cols, formatMetric(row.Metrics, "time"), formatMetric(row.Metrics, "throughput"))

		line := join(cols)
		if baseline != nil && row.Vars[baseline.Type] == baseline.Value {
			line = color.New(color.Bold).Sprint(line)
		}
		fmt.Fprintln(w, line)
	}

	return w.Flush()
}

func inferVars(results []gobench.ToolchainResult) []string {
	vars := []string{"Name"}
	for _, tr := range results {
		if tr.Builder != "" {
			vars = append(vars, "Builder")
			break
		}
	}
	for _, tr := range results {
		if tr.Executor != "" {
			vars = append(vars, "Executor")
			break
		}
	}
	if len(results) > 0 {
		for _, axis := range results[0].ParamDef {
			vars = append(vars, axis.Name)
		}
	}
	return vars
}

func formatMetric(m gobench.Metrics, key string) string {
	v, ok := m[key]
	if !ok || v.Kind == gobench.MetricAbsent {
		return "-"
	}
	switch v.Kind {
	case gobench.MetricNumber:
		return fmt.Sprintf("%.4f", v.Number)
	case gobench.MetricNumbers:
		return fmt.Sprintf("%.4f", mean(v.Numbers))
	case gobench.MetricLabel:
		return v.Label
	default:
		return "-"
	}
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func join(cols []string) string {
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += "\t"
		}
		out += c
	}
	return out
}

var _ Reporter = (*TableReporter)(nil)
