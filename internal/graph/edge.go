// Package graph implements the dependency graph engine: acyclicity
// enforcement, critical path analysis, and readiness computation over
// the blocks subgraph.
package graph

import (
	"fmt"
)

// Edge types. A blocks edge orders two tasks: the From task must reach
// a terminal status before the To task is ready. A blocked_by edge is
// the inverse view of the same fact and is normalized to blocks before
// storage. A related edge carries no ordering constraint.
const (
	TypeBlocks    = "blocks"
	TypeBlockedBy = "blocked_by"
	TypeRelated   = "related"
)

// Types lists the edge types accepted by dependency operations.
var Types = []string{TypeBlocks, TypeBlockedBy, TypeRelated}

// Edge is a stored dependency between two tasks. Only blocks and
// related edges are persisted; blocked_by exists as an input form.
type Edge struct {
	From int    `yaml:"from" json:"from"`
	To   int    `yaml:"to" json:"to"`
	Type string `yaml:"type" json:"type"`
}

func (e Edge) String() string {
	return fmt.Sprintf("#%d %s #%d", e.From, e.Type, e.To)
}

// ValidType reports whether t is a known edge type.
func ValidType(t string) bool {
	for _, known := range Types {
		if known == t {
			return true
		}
	}
	return false
}

// Normalize returns the canonical stored form of a dependency:
// blocked_by flips into a blocks edge with swapped endpoints, and
// related edges order their endpoints ascending so the same pair is
// stored once regardless of argument order.
func Normalize(from, to int, edgeType string) Edge {
	switch edgeType {
	case TypeBlockedBy:
		return Edge{From: to, To: from, Type: TypeBlocks}
	case TypeRelated:
		if to < from {
			from, to = to, from
		}
		return Edge{From: from, To: to, Type: TypeRelated}
	default:
		return Edge{From: from, To: to, Type: TypeBlocks}
	}
}
