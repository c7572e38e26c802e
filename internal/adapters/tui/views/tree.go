package views

import (
	"fmt"

	"dasha/internal/application"
	"dasha/internal/domain"
)

// PeriodNode wraps a timeline period with the browser's expand state
type PeriodNode struct {
	Period   domain.Period
	Path     string
	Parent   *PeriodNode
	Children []*PeriodNode
	Expanded bool
	depth    int
}

// NewPeriodTree wraps the Maha periods of a timeline. Every node starts
// collapsed.
func NewPeriodTree(tl *domain.Timeline) []*PeriodNode {
	return wrapPeriods(tl.Periods, nil, "", 0)
}

func wrapPeriods(periods []domain.Period, parent *PeriodNode, path string, depth int) []*PeriodNode {
	nodes := make([]*PeriodNode, 0, len(periods))
	for _, p := range periods {
		n := &PeriodNode{Period: p, Parent: parent, depth: depth, Path: p.Lord.String()}
		if path != "" {
			n.Path = path + "/" + n.Path
		}
		n.Children = wrapPeriods(p.Children, n, n.Path, depth+1)
		nodes = append(nodes, n)
	}
	return nodes
}

// Depth returns the nesting level, 0 for Maha
func (n *PeriodNode) Depth() int {
	return n.depth
}

// HasChildren reports whether the node can expand
func (n *PeriodNode) HasChildren() bool {
	return len(n.Children) > 0
}

// String renders the node as one copyable line
func (n *PeriodNode) String() string {
	s := fmt.Sprintf("%s %s -> %s", n.Path, application.FormatJD(n.Period.Start), application.FormatJD(n.Period.End))
	if n.Period.Partial {
		s += " (partial)"
	}
	return s
}

// Flatten lists the visible nodes in display order
func Flatten(roots []*PeriodNode) []*PeriodNode {
	var out []*PeriodNode
	var walk func([]*PeriodNode)
	walk = func(nodes []*PeriodNode) {
		for _, n := range nodes {
			out = append(out, n)
			if n.Expanded {
				walk(n.Children)
			}
		}
	}
	walk(roots)
	return out
}

// ExpandTo expands the chain of periods containing jd and returns its
// deepest node, or nil when jd is outside the tree
func ExpandTo(roots []*PeriodNode, jd float64) *PeriodNode {
	var found *PeriodNode
	nodes := roots
	for {
		var next *PeriodNode
		for _, n := range nodes {
			if n.Period.Contains(jd) {
				next = n
				break
			}
		}
		if next == nil {
			return found
		}
		found = next
		if !next.HasChildren() {
			return found
		}
		next.Expanded = true
		nodes = next.Children
	}
}
