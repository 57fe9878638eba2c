package plan

import (
	"regexp"
	"strconv"
)

// Metrics holds performance metrics extracted from EXPLAIN output.
type Metrics struct {
	ExecutionTimeMS float64 `json:"execution_time_ms"`
	PlanningTimeMS  float64 `json:"planning_time_ms"`
	BufferHits      int     `json:"buffer_hits"`
	BufferReads     int     `json:"buffer_reads"`
	Rows            int     `json:"rows"`
	TotalCost       float64 `json:"total_cost"`
	Nodes           int     `json:"nodes,omitempty"`
}

var (
	execTimeRe = regexp.MustCompile(`Execution Time: ([\d.]+) ms`)
	planTimeRe = regexp.MustCompile(`Planning Time: ([\d.]+) ms`)
	buffersRe  = regexp.MustCompile(`Buffers: shared hit=(\d+)(?: read=(\d+))?`)
	actualRe   = regexp.MustCompile(`actual (?:time=[\d.]+\.\.[\d.]+ )?rows=([\d.]+)`)
	rowsRe     = regexp.MustCompile(`rows=([\d.]+)`)
	costRe     = regexp.MustCompile(`cost=[\d.]+\.\.([\d.]+)`)
)

// ExtractMetrics extracts performance metrics from a text EXPLAIN plan, such
// as the lines of "EXPLAIN (ANALYZE true, BUFFERS true)" joined by newlines.
// Values of the first (root) node are used. Missing values stay zero.
func ExtractMetrics(plan string) Metrics {
	var m Metrics

	if match := execTimeRe.FindStringSubmatch(plan); match != nil {
		m.ExecutionTimeMS, _ = strconv.ParseFloat(match[1], 64)
	}

	if match := planTimeRe.FindStringSubmatch(plan); match != nil {
		m.PlanningTimeMS, _ = strconv.ParseFloat(match[1], 64)
	}

	if match := buffersRe.FindStringSubmatch(plan); match != nil {
		m.BufferHits, _ = strconv.Atoi(match[1])
		if match[2] != "" {
			m.BufferReads, _ = strconv.Atoi(match[2])
		}
	}

	// Prefer actual rows over the estimate when analyzed.
	if match := actualRe.FindStringSubmatch(plan); match != nil {
		m.Rows = parseRows(match[1])
	} else if match := rowsRe.FindStringSubmatch(plan); match != nil {
		m.Rows = parseRows(match[1])
	}

	if match := costRe.FindStringSubmatch(plan); match != nil {
		m.TotalCost, _ = strconv.ParseFloat(match[1], 64)
	}

	return m
}

// Newer PostgreSQL versions print fractional row counts such as "rows=1.00".
func parseRows(src string) int {
	val, _ := strconv.ParseFloat(src, 64)
	return int(val)
}
