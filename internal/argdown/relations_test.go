package argdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroundedSupportBetweenArguments(t *testing.T) {
	t.Parallel()

	src := "<A>\n" +
		"(1) Something holds.\n" +
		"----\n" +
		"(2) [T]: The thesis.\n" +
		"\n" +
		"<B>\n" +
		"(1) [T]\n" +
		"----\n" +
		"(2) A further point."

	doc, err := Parse(src)
	require.NoError(t, err)

	grounded := GroundedRelations(doc)
	require.True(t, containsGrounded(grounded, "<A>", "<B>", Support))
	require.True(t, containsGrounded(grounded, "<A>", "[T]", Support))
	require.True(t, containsGrounded(grounded, "[T]", "<B>", Support))
	require.False(t, containsGrounded(grounded, "<B>", "<A>", Support))

	for _, rel := range grounded {
		require.True(t, rel.Dialectics.Has(Grounded))
	}
}

func TestGroundedAttackViaNegation(t *testing.T) {
	t.Parallel()

	src := "<A>\n" +
		"(1) A reason.\n" +
		"----\n" +
		"(2) NOT: It rains.\n" +
		"\n" +
		"<B>\n" +
		"(1) It rains.\n" +
		"----\n" +
		"(2) The street gets wet."

	doc, err := Parse(src)
	require.NoError(t, err)

	grounded := GroundedRelations(doc)
	require.True(t, containsGrounded(grounded, "<A>", "<B>", Attack))
	require.False(t, containsGrounded(grounded, "<A>", "<B>", Support))
}

func TestGroundedAttackViaContradiction(t *testing.T) {
	t.Parallel()

	src := "[P]: It rains.\n" +
		"  >< [Q]: It stays dry.\n" +
		"\n" +
		"<A>\n" +
		"(1) A reason.\n" +
		"----\n" +
		"(2) [Q]\n" +
		"\n" +
		"<B>\n" +
		"(1) [P]\n" +
		"----\n" +
		"(2) Something follows."

	doc, err := Parse(src)
	require.NoError(t, err)

	grounded := GroundedRelations(doc)
	require.True(t, containsGrounded(grounded, "<A>", "<B>", Attack))
	require.True(t, containsGrounded(grounded, "<A>", "[P]", Attack))
}

func TestGroundedRelationsIgnoreIncompleteArguments(t *testing.T) {
	t.Parallel()

	// B has no conclusion step, so it grounds nothing.
	src := "<A>\n" +
		"(1) P.\n" +
		"----\n" +
		"(2) [T]\n" +
		"\n" +
		"<B>: Only a gist."

	doc, err := Parse(src)
	require.NoError(t, err)

	grounded := GroundedRelations(doc)
	for _, rel := range grounded {
		require.NotEqual(t, "<B>", rel.Source.String())
	}
}

func TestGroundedRelationsDeterministic(t *testing.T) {
	t.Parallel()

	src := "<A>\n(1) [P]\n----\n(2) [T]\n\n<B>\n(1) [T]\n----\n(2) [U]"
	doc, err := Parse(src)
	require.NoError(t, err)

	first := GroundedRelations(doc)
	second := GroundedRelations(doc)
	require.Equal(t, first, second)
}

func containsGrounded(rels []*Relation, src, tgt string, valence Valence) bool {
	for _, rel := range rels {
		if rel.Source.String() == src && rel.Target.String() == tgt && rel.Valence == valence {
			return true
		}
	}
	return false
}
