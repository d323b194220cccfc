package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, Distance("same", "same"))
	require.Equal(t, 1, Distance("cat", "cut"))
	require.Equal(t, 3, Distance("", "abc"))
}

func TestRatio(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0.0, Ratio("", ""))
	require.Equal(t, 0.0, Ratio("identical", "identical"))
	require.Equal(t, 1.0, Ratio("", "abc"))
	require.InDelta(t, 1.0/3.0, Ratio("cat", "cut"), 1e-9)
}

func TestSimilarityBounds(t *testing.T) {
	t.Parallel()

	cases := []struct{ a, b string }{
		{"", ""},
		{"a", "b"},
		{"the quick brown fox", "the quick brown fox jumps"},
		{"wholly different", "nothing alike at all here"},
	}
	for _, tc := range cases {
		s := Similarity(tc.a, tc.b)
		require.GreaterOrEqual(t, s, 0.0)
		require.LessOrEqual(t, s, 1.0)
	}
	require.Equal(t, 1.0, Similarity("x", "x"))
}

func TestCompact(t *testing.T) {
	t.Parallel()

	require.Empty(t, Compact("same", "same"))

	out := Compact("the cat sat", "the dog sat")
	require.Contains(t, out, "[-")
	require.Contains(t, out, "{+")
	require.Contains(t, out, "cat")
	require.Contains(t, out, "dog")
}

func TestCompactClipsLongFragments(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 300)
	out := Compact(long, "")
	require.Less(t, len(out), 100)
	require.Contains(t, out, "…")
}
