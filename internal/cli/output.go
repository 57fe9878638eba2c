package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/mitranim/sqlu/internal/plan"
	"github.com/mitranim/sqlu/internal/runner"
)

// OutputFormats lists the supported output formats.
var OutputFormats = []string{"text", "json", "yaml"}

func isOutputFormat(format string) bool {
	for _, val := range OutputFormats {
		if val == format {
			return true
		}
	}
	return false
}

// Report is the output of the explain command.
type Report struct {
	Dialect string           `json:"dialect"`
	Results []*runner.Result `json:"results"`
}

// WriteReport writes the report in the given format.
func WriteReport(w io.Writer, format string, report Report) error {
	var out string
	var err error

	switch format {
	case "text":
		out = FormatText(report)
	case "json":
		out, err = FormatJSON(report)
	case "yaml":
		out, err = FormatYAML(report)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, out)
	return err
}

// FormatText formats the report as human-readable text.
func FormatText(report Report) string {
	var sb strings.Builder

	if len(report.Results) == 0 {
		sb.WriteString("No statements explained\n")
		return sb.String()
	}

	for _, r := range report.Results {
		sb.WriteString(fmt.Sprintf("=== Statement %d (%s) ===\n", r.Index, report.Dialect))
		sb.WriteString(fmt.Sprintf("Query: %s\n", r.Query))
		if len(r.Args) > 0 {
			sb.WriteString(fmt.Sprintf("Args:  %v\n", r.Args))
		}
		sb.WriteString(fmt.Sprintf("Took:  %s\n\n", r.Duration))

		m := r.Metrics
		if m != (plan.Metrics{}) {
			sb.WriteString("Metrics:\n")
			sb.WriteString(fmt.Sprintf("  Execution Time: %.3f ms\n", m.ExecutionTimeMS))
			sb.WriteString(fmt.Sprintf("  Planning Time:  %.3f ms\n", m.PlanningTimeMS))
			sb.WriteString(fmt.Sprintf("  Total Cost:     %.2f\n", m.TotalCost))
			sb.WriteString(fmt.Sprintf("  Buffer Hits:    %d\n", m.BufferHits))
			if m.BufferReads > 0 {
				sb.WriteString(fmt.Sprintf("  Buffer Reads:   %d\n", m.BufferReads))
			}
			sb.WriteString(fmt.Sprintf("  Rows:           %d\n", m.Rows))
			sb.WriteString("\n")
		}

		sb.WriteString("Query Plan:\n")
		sb.WriteString(r.Plan)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// FormatJSON formats the report as indented JSON.
func FormatJSON(report Report) (string, error) {
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}

// FormatYAML formats the report as YAML.
func FormatYAML(report Report) (string, error) {
	b, err := yaml.Marshal(report)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
