// Package points scores validated receipts against a fixed set of rules.
package points

import "github.com/zombor/receipt-points/internal/receipt"

// Engine adds up the points of every rule it holds
type Engine struct {
	rules []Rule
}

// NewEngine creates an Engine with the default rules
func NewEngine() *Engine {
	return NewEngineWithRules(DefaultRules())
}

// NewEngineWithRules creates an Engine with a custom rule set for testing
func NewEngineWithRules(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

// Score returns the total points for r. r must already be validated. The
// total saturates at the largest int rather than overflowing.
func (e *Engine) Score(r *receipt.Receipt) int {
	total := 0
	for _, rule := range e.rules {
		total = addPoints(total, rule.Apply(r))
	}
	return total
}

// Breakdown returns the points each rule contributed, keyed by rule name
func (e *Engine) Breakdown(r *receipt.Receipt) map[string]int {
	out := make(map[string]int, len(e.rules))
	for _, rule := range e.rules {
		out[rule.Name] = rule.Apply(r)
	}
	return out
}
