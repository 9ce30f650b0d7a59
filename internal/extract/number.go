package extract

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseNumber converts a source number to an int through a float cast so that
// values exported with a decimal part ("3.0") are accepted. Fractions are
// truncated toward zero.
func ParseNumber(text string) (int, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, fmt.Errorf("empty number")
	}

	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", text)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", text)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%q is out of range", text)
	}

	return int(math.Trunc(f)), nil
}
