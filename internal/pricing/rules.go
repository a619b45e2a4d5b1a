// Package pricing holds the closed registry of aggregation rules applied
// over resolved unit prices. Rule names are validated at the boundary;
// the registry is read-only after init.
package pricing

import (
	"fmt"
	"math"
	"sort"
)

// Default is the rule applied when the caller does not name one.
const Default = "media_simples"

// Func aggregates resolved unit prices into one final price. Every rule
// is pure: same input, same output, no state.
type Func func(prices []int64) int64

var rules = map[string]Func{
	"media_simples":   SimpleAverage,
	"media_simples_7": Average7,
}

// UnknownRuleError reports a rule name absent from the registry.
type UnknownRuleError struct {
	Rule string
}

func (e *UnknownRuleError) Error() string {
	return fmt.Sprintf("Regra inválida: '%s'.", e.Rule)
}

// Known reports whether the rule name is registered.
func Known(name string) bool {
	_, ok := rules[name]
	return ok
}

// Names returns the registered rule names in sorted order.
func Names() []string {
	names := make([]string, 0, len(rules))
	for name := range rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply runs the named rule over the prices.
func Apply(name string, prices []int64) (int64, error) {
	fn, ok := rules[name]
	if !ok {
		return 0, &UnknownRuleError{Rule: name}
	}
	return fn(prices), nil
}

// SimpleAverage is the arithmetic mean rounded half-up. The divisor is
// floored at 1 so an empty list cannot divide by zero; upstream
// validation keeps empty lists from reaching this point.
func SimpleAverage(prices []int64) int64 {
	return int64(math.Floor(mean(prices) + 0.5))
}

// Average7 computes the mean and snaps it to the nearest integer ending
// in digit 7.
func Average7(prices []int64) int64 {
	return RoundTo7(mean(prices))
}

// RoundTo7 returns the integer congruent to 7 modulo 10 nearest to value.
// Candidates are lower = decade(floor(value)) + 7, shifted down one
// decade when it overshoots, and upper = lower + 10. An exact midpoint
// resolves to upper.
func RoundTo7(value float64) int64 {
	decade := math.Floor(math.Floor(value)/10) * 10
	lower := decade + 7
	if lower > value {
		lower -= 10
	}
	upper := lower + 10
	if value-lower < upper-value {
		return int64(lower)
	}
	return int64(upper)
}

func mean(prices []int64) float64 {
	var sum int64
	for _, p := range prices {
		sum += p
	}
	n := len(prices)
	if n == 0 {
		n = 1
	}
	return float64(sum) / float64(n)
}
