package scorer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/debatelab/argdown-feedback-sub001/internal/annotation"
	"github.com/debatelab/argdown-feedback-sub001/internal/argdown"
	"github.com/debatelab/argdown-feedback-sub001/internal/fol"
	"github.com/debatelab/argdown-feedback-sub001/internal/model"
)

const annotatedText = `<proposition id="1" supports="2">It rains today.</proposition> and <proposition id="2">the street gets wet.</proposition>`

const smallMap = `[Wet]: The street is wet.

<Rain>: It rains.
    +> [Wet]
`

const logicalReco = `<A>: Wet street.

(1) It rains. {formalization: "p", declarations: {p: "it rains"}}
(2) If it rains, the street is wet. {formalization: "p -> q", declarations: {q: "the street is wet"}}
-- {from: ["1", "2"]} --
(3) The street is wet. {formalization: "q"}
`

const trivialReco = `<A>: Restatement.

(1) It rains. {formalization: "p", declarations: {p: "it rains"}}
-- {from: ["1"]} --
(2) It rains. {formalization: "p"}
`

func annoRequest(t *testing.T, src, source string) *model.Request {
	t.Helper()
	doc, err := annotation.Parse(src)
	require.NoError(t, err)
	req := model.NewRequest("", source, model.DefaultConfig())
	req.Items = append(req.Items, &model.PrimaryData{
		ID:          "xml_0",
		DType:       model.DTypeXML,
		CodeSnippet: src,
		Data:        doc,
	})
	return req
}

func argdownRequest(t *testing.T, src string) *model.Request {
	t.Helper()
	doc, err := argdown.Parse(src)
	require.NoError(t, err)
	req := model.NewRequest("", "", model.DefaultConfig())
	req.Items = append(req.Items, &model.PrimaryData{
		ID:          "argdown_0",
		DType:       model.DTypeArgdown,
		CodeSnippet: src,
		Data:        doc,
	})
	return req
}

func TestHandlerGatesOnToggle(t *testing.T) {
	t.Parallel()

	req := argdownRequest(t, smallMap)
	h := Handler{Scorer: MapSize{}}
	require.Equal(t, "map_size", h.Name())

	require.NoError(t, h.Handle(req))
	require.Empty(t, req.Scorings)

	req.Config.Enabled["map_size"] = true
	require.NoError(t, h.Handle(req))
	require.Len(t, req.Scorings, 1)
	require.Equal(t, "map_size", req.Scorings[0].ID)
}

func TestHandlerSkipsInvalidRequests(t *testing.T) {
	t.Parallel()

	req := argdownRequest(t, smallMap)
	req.Config.Enabled["map_size"] = true
	req.AddResult(model.InvalidResult("argmap.complete_claims", "incomplete"))

	require.NoError(t, Handler{Scorer: MapSize{}}.Handle(req))
	require.Empty(t, req.Scorings)
}

func TestAnnotationCoverage(t *testing.T) {
	t.Parallel()

	req := annoRequest(t, annotatedText, "It rains today. and the street gets wet.")
	sr, err := AnnotationCoverage{}.Score(req)
	require.NoError(t, err)
	require.NotNil(t, sr)
	require.Equal(t, "annotation_coverage", sr.ID)
	require.Greater(t, sr.Score, 0.5)
	require.LessOrEqual(t, sr.Score, 1.0)
}

func TestAnnotationCoverageSilentWithoutItem(t *testing.T) {
	t.Parallel()

	req := model.NewRequest("", "some text", model.DefaultConfig())
	sr, err := AnnotationCoverage{}.Score(req)
	require.NoError(t, err)
	require.Nil(t, sr)
}

func TestAnnotationRelations(t *testing.T) {
	t.Parallel()

	req := annoRequest(t, annotatedText, "")
	sr, err := AnnotationRelations{}.Score(req)
	require.NoError(t, err)
	require.NotNil(t, sr)
	require.InDelta(t, 0.5, sr.Score, 1e-9)
	require.Equal(t, "1 dialectical reference(s) across 2 proposition(s).", sr.Message)
}

func TestMapSize(t *testing.T) {
	t.Parallel()

	req := argdownRequest(t, smallMap)
	sr, err := MapSize{}.Score(req)
	require.NoError(t, err)
	require.NotNil(t, sr)
	require.InDelta(t, saturate(2, mapSizeScale), sr.Score, 1e-9)
	require.Equal(t, "Map holds 1 claim(s) and 1 argument(s).", sr.Message)
}

func TestMapDensity(t *testing.T) {
	t.Parallel()

	req := argdownRequest(t, smallMap)
	sr, err := MapDensity{}.Score(req)
	require.NoError(t, err)
	require.NotNil(t, sr)
	require.InDelta(t, 1.0, sr.Score, 1e-9)
}

func TestMapFaithfulness(t *testing.T) {
	t.Parallel()

	req := argdownRequest(t, smallMap)
	req.Source = "The street is wet."
	sr, err := MapFaithfulness{}.Score(req)
	require.NoError(t, err)
	require.NotNil(t, sr)
	require.Greater(t, sr.Score, 0.3)

	req.Source = ""
	sr, err = MapFaithfulness{}.Score(req)
	require.NoError(t, err)
	require.Nil(t, sr)
}

func TestRecoCountScorers(t *testing.T) {
	t.Parallel()

	req := argdownRequest(t, logicalReco)

	sr, err := SubargumentCount{}.Score(req)
	require.NoError(t, err)
	require.NotNil(t, sr)
	require.InDelta(t, saturate(1, subargumentScale), sr.Score, 1e-9)

	sr, err = PremiseCount{}.Score(req)
	require.NoError(t, err)
	require.NotNil(t, sr)
	require.InDelta(t, saturate(2, premiseScale), sr.Score, 1e-9)
}

func TestVerbalize(t *testing.T) {
	t.Parallel()

	f, err := fol.Parse("p -> q")
	require.NoError(t, err)
	decls := fol.NewDeclarations()
	decls.Add("p", "it rains")
	decls.Add("q", "the street is wet")
	require.Equal(t, "if it rains then the street is wet", verbalize(f, decls))

	g, err := fol.Parse("all x.(F(x) -> G(x))")
	require.NoError(t, err)
	require.Equal(t, "for all x if F x then G x", verbalize(g, fol.NewDeclarations()))
}

func TestFormalizationFaithfulness(t *testing.T) {
	t.Parallel()

	req := argdownRequest(t, logicalReco)
	sr, err := FormalizationFaithfulness{}.Score(req)
	require.NoError(t, err)
	require.NotNil(t, sr)
	require.Greater(t, sr.Score, 0.5)
	require.Equal(t, 3, sr.Details["formalizations"])
}

func TestFormalizationFaithfulnessSilentWithoutFormulas(t *testing.T) {
	t.Parallel()

	req := argdownRequest(t, smallMap)
	sr, err := FormalizationFaithfulness{}.Score(req)
	require.NoError(t, err)
	require.Nil(t, sr)
}

func TestPredicateLogicUsage(t *testing.T) {
	t.Parallel()

	req := argdownRequest(t, logicalReco)
	sr, err := PredicateLogicUsage{}.Score(req)
	require.NoError(t, err)
	require.NotNil(t, sr)
	require.InDelta(t, 0.0, sr.Score, 1e-9)

	src := "<A>: Mortality.\n\n(1) All men are mortal. {formalization: \"all x.(F(x) -> G(x))\", declarations: {F: \"is a man\", G: \"is mortal\"}}\n-- {from: [\"1\"]} --\n(2) Socrates is mortal if a man. {formalization: \"F(a) -> G(a)\", declarations: {a: \"Socrates\"}}\n"
	req = argdownRequest(t, src)
	sr, err = PredicateLogicUsage{}.Score(req)
	require.NoError(t, err)
	require.NotNil(t, sr)
	require.InDelta(t, 1.0, sr.Score, 1e-9)
}

func TestNonTriviality(t *testing.T) {
	t.Parallel()

	req := argdownRequest(t, logicalReco)
	sr, err := NonTriviality{}.Score(req)
	require.NoError(t, err)
	require.NotNil(t, sr)
	require.InDelta(t, 1.0, sr.Score, 1e-9)

	req = argdownRequest(t, trivialReco)
	sr, err = NonTriviality{}.Score(req)
	require.NoError(t, err)
	require.NotNil(t, sr)
	require.InDelta(t, 0.0, sr.Score, 1e-9)
	require.Equal(t, "0 of 1 final conclusion(s) are non-trivial.", sr.Message)
}
