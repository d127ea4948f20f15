package gateway

import (
	"fmt"
	"strconv"
	"strings"
)

// PlanckPerToken is the number of base units (planck) in one TENSOR.
const PlanckPerToken = 1_000_000_000

// TokenSymbol is the chain's display ticker.
const TokenSymbol = "TENSOR"

// FormatBalance renders a planck amount as a decimal token string, e.g.
// 1234500000 -> "1.234500000 TENSOR".
func FormatBalance(planck uint64) string {
	whole := planck / PlanckPerToken
	frac := planck % PlanckPerToken
	return fmt.Sprintf("%d.%09d %s", whole, frac, TokenSymbol)
}

// ParseBalance parses a decimal token amount ("1.5", "0.000000001") into
// planck. At most 9 fractional digits are accepted.
func ParseBalance(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if len(frac) > 9 {
		return 0, fmt.Errorf("amount %q: more than 9 decimal places", s)
	}

	var w uint64
	var err error
	if whole != "" {
		w, err = strconv.ParseUint(whole, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("amount %q: %w", s, err)
		}
	}

	var f uint64
	if frac != "" {
		f, err = strconv.ParseUint(frac+strings.Repeat("0", 9-len(frac)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("amount %q: %w", s, err)
		}
	}

	if w > (1<<64-1-f)/PlanckPerToken {
		return 0, fmt.Errorf("amount %q overflows", s)
	}
	return w*PlanckPerToken + f, nil
}
