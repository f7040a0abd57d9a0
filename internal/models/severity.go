package models

import (
	"fmt"
	"strconv"
	"strings"
)

// SeverityDefault is the moderate midpoint used when a caller decides to
// proceed despite an unparseable severity input.
const SeverityDefault = 5

var severityLabels = map[string]int{
	"mild":       1,
	"moderate":   5,
	"severe":     9,
	"unbearable": 10,
}

// ParseSeverity converts a qualitative label or numeric string into the
// 1-10 severity scale. Out-of-scale numerics clamp to the nearest bound so
// an overstated severity keeps its urgency rather than erroring away from
// it. Only non-numeric, non-label input returns an error; the caller
// chooses whether to surface it or fall back to SeverityDefault.
func ParseSeverity(s string) (int, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if v, ok := severityLabels[normalized]; ok {
		return v, nil
	}
	v, err := strconv.Atoi(normalized)
	if err != nil {
		return 0, fmt.Errorf("unrecognized severity %q", s)
	}
	if v < 1 {
		return 1, nil
	}
	if v > 10 {
		return 10, nil
	}
	return v, nil
}
