package entry

import (
	"strconv"
	"strings"
)

// JoinList renders names for display: "", "A", "A & B", "A, B, & C".
// With limit > 0 and more than limit names, the remainder collapses into
// "A, B, & N others".
func JoinList(items []string, limit int) string {
	if limit > 0 && len(items) > limit {
		rest := len(items) - limit
		noun := "others"
		if rest == 1 {
			noun = "other"
		}
		shown := append(append([]string{}, items[:limit]...), strconv.Itoa(rest)+" "+noun)
		return JoinList(shown, 0)
	}

	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " & " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", & " + items[len(items)-1]
	}
}
