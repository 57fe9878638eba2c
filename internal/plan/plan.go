// Package plan decodes query plans produced by "EXPLAIN" and extracts
// summary metrics from them.
package plan

import (
	"encoding/json"
	"fmt"
)

// Node is a single node of a PostgreSQL plan tree, as produced by
// "EXPLAIN (FORMAT json)". Actual values are set only when the statement was
// analyzed; buffer counters only with the "buffers" option.
type Node struct {
	NodeType      string  `json:"Node Type"`
	RelationName  string  `json:"Relation Name,omitempty"`
	Alias         string  `json:"Alias,omitempty"`
	IndexName     string  `json:"Index Name,omitempty"`
	StartupCost   float64 `json:"Startup Cost"`
	TotalCost     float64 `json:"Total Cost"`
	PlanRows      float64 `json:"Plan Rows"`
	PlanWidth     int     `json:"Plan Width"`
	ActualStartup float64 `json:"Actual Startup Time,omitempty"`
	ActualTotal   float64 `json:"Actual Total Time,omitempty"`
	ActualRows    float64 `json:"Actual Rows,omitempty"`
	ActualLoops   float64 `json:"Actual Loops,omitempty"`
	SharedHit     int     `json:"Shared Hit Blocks,omitempty"`
	SharedRead    int     `json:"Shared Read Blocks,omitempty"`
	Plans         []*Node `json:"Plans,omitempty"`
}

// Walk visits the node and its descendants depth-first, parents before
// children. Returning false from fn skips the children of that node.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, child := range n.Plans {
		child.walk(fn, depth+1)
	}
}

// Count returns the number of nodes in the tree.
func (n *Node) Count() int {
	var count int
	n.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// Explained is one statement's entry in JSON "EXPLAIN" output.
type Explained struct {
	Plan          *Node   `json:"Plan"`
	PlanningTime  float64 `json:"Planning Time,omitempty"`
	ExecutionTime float64 `json:"Execution Time,omitempty"`
}

// Metrics summarizes the plan. Buffer counters of the root node already
// include those of its children.
func (e Explained) Metrics() Metrics {
	m := Metrics{
		ExecutionTimeMS: e.ExecutionTime,
		PlanningTimeMS:  e.PlanningTime,
	}
	if e.Plan == nil {
		return m
	}

	m.TotalCost = e.Plan.TotalCost
	m.BufferHits = e.Plan.SharedHit
	m.BufferReads = e.Plan.SharedRead
	m.Nodes = e.Plan.Count()

	if e.ExecutionTime > 0 {
		m.Rows = int(e.Plan.ActualRows)
	} else {
		m.Rows = int(e.Plan.PlanRows)
	}
	return m
}

// ParseJSON decodes the output of "EXPLAIN (FORMAT json)". PostgreSQL returns
// a JSON array with one entry per explained statement.
func ParseJSON(src []byte) ([]Explained, error) {
	var out []Explained
	if err := json.Unmarshal(src, &out); err != nil {
		return nil, fmt.Errorf("decode JSON plan: %w", err)
	}
	for i, entry := range out {
		if entry.Plan == nil {
			return nil, fmt.Errorf("decode JSON plan: entry %d has no plan", i)
		}
	}
	return out, nil
}
