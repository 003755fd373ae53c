package analysis

import (
	"math"
	"strconv"
)

// round2 rounds to 2 decimal places (점수 저장 규약)
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// comma formats a non-negative count with thousand separators (판정 문구용)
func comma(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}
