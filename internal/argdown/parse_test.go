package argdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMapSketch(t *testing.T) {
	t.Parallel()

	doc, err := Parse("[C]: Claim.\n  <+ <A>: Because.")
	require.NoError(t, err)

	require.Len(t, doc.Propositions, 1)
	c := doc.PropositionByLabel("C")
	require.NotNil(t, c)
	require.Equal(t, "Claim.", c.FirstText())
	require.False(t, c.AutoLabel)

	require.Len(t, doc.Arguments, 1)
	a := doc.ArgumentByLabel("A")
	require.NotNil(t, a)
	require.Equal(t, []string{"Because."}, a.Gists)
	require.Empty(t, a.PCS)

	require.Len(t, doc.Relations, 1)
	rel := doc.Relations[0]
	require.Equal(t, "<A>", rel.Source.String())
	require.Equal(t, "[C]", rel.Target.String())
	require.Equal(t, Support, rel.Valence)
	require.True(t, rel.Dialectics.Has(Sketched))
}

func TestParseReconstruction(t *testing.T) {
	t.Parallel()

	src := "<A>\n" +
		"(1) X {annotation_ids:[]}\n" +
		"-- {from:['1']} --\n" +
		"(2) P. {annotation_ids:['i1']}"

	doc, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, doc.Arguments, 1)

	a := doc.ArgumentByLabel("A")
	require.NotNil(t, a)
	require.Len(t, a.PCS, 2)

	premise := a.PCS[0]
	require.Equal(t, "1", premise.Label)
	require.False(t, premise.IsConclusion)
	p1 := doc.PropositionByLabel(premise.PropositionLabel)
	require.NotNil(t, p1)
	require.Equal(t, "X", p1.FirstText())
	ids, isList := StringList(p1.Data[AnnotationIDsKey])
	require.True(t, isList)
	require.Empty(t, ids)

	conclusion := a.PCS[1]
	require.Equal(t, "2", conclusion.Label)
	require.True(t, conclusion.IsConclusion)
	from, present, isList := InferenceFrom(conclusion.InferenceData, "from")
	require.True(t, present)
	require.True(t, isList)
	require.Equal(t, []string{"1"}, from)

	p2 := doc.PropositionByLabel(conclusion.PropositionLabel)
	require.NotNil(t, p2)
	require.Equal(t, "P.", p2.FirstText())
	require.Equal(t, []string{"i1"}, AnnotationIDs(p2))

	fc, ok := a.FinalConclusion()
	require.True(t, ok)
	require.Equal(t, "2", fc.Label)
}

func TestParseMultilineInferenceRule(t *testing.T) {
	t.Parallel()

	src := "<B>: A gist.\n" +
		"\n" +
		"(1) First premise.\n" +
		"(2) Second premise.\n" +
		"--\n" +
		"modus ponens {from: [\"1\", \"2\"]}\n" +
		"--\n" +
		"(3) [T]: The conclusion."

	doc, err := Parse(src)
	require.NoError(t, err)

	b := doc.ArgumentByLabel("B")
	require.NotNil(t, b)
	require.Equal(t, []string{"A gist."}, b.Gists)
	require.Len(t, b.PCS, 3)

	require.Equal(t, 2, len(b.Premises()))
	fc, ok := b.FinalConclusion()
	require.True(t, ok)
	require.True(t, fc.IsConclusion)
	require.Equal(t, "T", fc.PropositionLabel)
	from, present, isList := InferenceFrom(fc.InferenceData, "from")
	require.True(t, present)
	require.True(t, isList)
	require.Equal(t, []string{"1", "2"}, from)
}

func TestParsePlainSeparator(t *testing.T) {
	t.Parallel()

	doc, err := Parse("(1) Premise.\n----\n(2) Conclusion.")
	require.NoError(t, err)

	// A pcs without a preceding argument statement opens an anonymous one.
	require.Len(t, doc.Arguments, 1)
	a := doc.Arguments[0]
	require.True(t, a.AutoLabel)
	require.Equal(t, "untitled-argument-1", a.Label)
	require.Len(t, a.PCS, 2)
	require.True(t, a.PCS[1].IsConclusion)
	require.NotNil(t, a.PCS[1].InferenceData)
}

func TestParseRelationNesting(t *testing.T) {
	t.Parallel()

	src := "[A]: Root.\n" +
		"  <- <B>: Objection.\n" +
		"    <+ [C]: Backing.\n" +
		"  -> [D]: Victim."

	doc, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, doc.Relations, 3)

	require.True(t, hasRelation(doc, "<B>", "[A]", Attack))
	require.True(t, hasRelation(doc, "[C]", "<B>", Support))
	require.True(t, hasRelation(doc, "[A]", "[D]", Attack))
}

func TestParseContradiction(t *testing.T) {
	t.Parallel()

	doc, err := Parse("[P]: It rains.\n  >< [Q]: It is dry.")
	require.NoError(t, err)

	require.Len(t, doc.Relations, 1)
	rel := doc.Relations[0]
	require.Equal(t, Contradict, rel.Valence)
	require.True(t, rel.Dialectics.Has(Axiomatic))

	p := doc.PropositionByLabel("P")
	q := doc.PropositionByLabel("Q")
	require.True(t, doc.Contradictory(p, q))
	require.True(t, doc.Contradictory(q, p))
}

func TestParseDuplicateRelationMergesDialectics(t *testing.T) {
	t.Parallel()

	src := "[A]: Root.\n" +
		"  <+ <B>\n" +
		"[A]\n" +
		"  <+ <B>"

	doc, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, doc.Relations, 1)
}

func TestParseContinuationLines(t *testing.T) {
	t.Parallel()

	doc, err := Parse("[A]: first part\nsecond part")
	require.NoError(t, err)

	a := doc.PropositionByLabel("A")
	require.NotNil(t, a)
	require.Equal(t, "first part second part", a.FirstText())
}

func TestParseBareTextParagraphs(t *testing.T) {
	t.Parallel()

	doc, err := Parse("Just some thought.\n\nAnother one.")
	require.NoError(t, err)

	require.Len(t, doc.Propositions, 2)
	require.True(t, doc.Propositions[0].AutoLabel)
	require.Equal(t, "untitled-1", doc.Propositions[0].Label)
	require.Equal(t, "untitled-2", doc.Propositions[1].Label)
}

func TestParseComments(t *testing.T) {
	t.Parallel()

	src := "/* block\ncomment */[A]: Visible. // trailing\n// whole line\n  <+ <B>"
	doc, err := Parse(src)
	require.NoError(t, err)

	a := doc.PropositionByLabel("A")
	require.NotNil(t, a)
	require.Equal(t, "Visible.", a.FirstText())
	require.Len(t, doc.Relations, 1)
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	doc, err := Parse("")
	require.NoError(t, err)
	require.Empty(t, doc.Arguments)
	require.Empty(t, doc.Propositions)
	require.Empty(t, doc.Relations)
}

func TestParseDeterministic(t *testing.T) {
	t.Parallel()

	src := "[C]: Claim.\n" +
		"  <+ <A>: First.\n" +
		"  <- <B>: Second.\n" +
		"\n" +
		"<A>\n" +
		"(1) P {annotation_ids:['i1']}\n" +
		"-- {from:['1']} --\n" +
		"(2) [C]"

	first, err := Parse(src)
	require.NoError(t, err)
	second, err := Parse(src)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		src  string
	}{
		{"unclosed rule", "(1) P\n--\nmodus ponens"},
		{"dangling separator", "(1) P\n----"},
		{"separator before statement", "(1) P\n----\n[X]: not a pcs line"},
		{"relation without parent", "<+ [X]"},
		{"invalid inline yaml", "(1) P {from: [}"},
		{"unbalanced brace", "[A]: text {oops"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tc.src)
			require.Error(t, err)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			require.Greater(t, perr.Line, 0)
		})
	}
}

func TestParsePCSInlineDataMergedIntoProposition(t *testing.T) {
	t.Parallel()

	doc, err := Parse("<A>\n(1) [P1]: Text. {formalization: \"p\", declarations: {p: \"it rains\"}}\n----\n(2) Q")
	require.NoError(t, err)

	p1 := doc.PropositionByLabel("P1")
	require.NotNil(t, p1)
	require.Equal(t, "p", p1.Data["formalization"])
	decl, ok := p1.Data["declarations"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "it rains", decl["p"])
}

func hasRelation(doc *Document, src, tgt string, valence Valence) bool {
	for _, rel := range doc.Relations {
		if rel.Source.String() == src && rel.Target.String() == tgt && rel.Valence == valence {
			return true
		}
	}
	return false
}
