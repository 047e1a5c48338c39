// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCount decodes an integer that may carry thousands separators
// ("12,345" -> 12345).
func ParseCount(s string) (int64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if clean == "" {
		return 0, fmt.Errorf("empty count %q", s)
	}
	n, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing count %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %q", s)
	}
	return n, nil
}

// ParsePercent decodes a decimal number with an optional trailing percent
// sign ("45.50%" and "45.50" -> 45.5). The range is not checked.
func ParsePercent(s string) (float64, error) {
	clean := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if clean == "" {
		return 0, fmt.Errorf("empty percentage %q", s)
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing percentage %q: %w", s, err)
	}
	return f, nil
}
