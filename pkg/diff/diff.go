package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	fragmentRunes   = 40
	maxFragments    = 6
	truncateMessage = " ..."
)

// Distance returns the Levenshtein edit distance between a and b.
func Distance(a, b string) int {
	if a == b {
		return 0
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffLevenshtein(diffs)
}

// Ratio returns the edit distance normalized by the longer input's rune
// count, 0 for identical strings and 1 for a full rewrite. Two empty strings
// are identical.
func Ratio(a, b string) float64 {
	if a == b {
		return 0
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	ratio := float64(Distance(a, b)) / float64(longest)
	if ratio > 1 {
		ratio = 1
	}
	return ratio
}

// Similarity returns 1 - Ratio, a score in [0,1] where 1 means identical.
func Similarity(a, b string) float64 {
	return 1 - Ratio(a, b)
}

// Compact renders the difference between expected and actual as a short
// inline summary suitable for a diagnostic message: deletions appear as
// [-...-], insertions as {+...+}, and unchanged stretches are elided. At most
// a handful of change fragments are shown.
func Compact(expected, actual string) string {
	if expected == actual {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(expected, actual, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var sb strings.Builder
	fragments := 0
	for _, d := range diffs {
		if fragments >= maxFragments {
			sb.WriteString(truncateMessage)
			break
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			continue
		case diffmatchpatch.DiffDelete:
			sb.WriteString("[-")
			sb.WriteString(clip(d.Text))
			sb.WriteString("-]")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("{+")
			sb.WriteString(clip(d.Text))
			sb.WriteString("+}")
		}
		sb.WriteByte(' ')
		fragments++
	}
	return strings.TrimSpace(sb.String())
}

func clip(s string) string {
	runes := []rune(s)
	if len(runes) <= fragmentRunes {
		return s
	}
	return string(runes[:fragmentRunes]) + "…"
}
