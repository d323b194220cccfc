package infreco

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/debatelab/argdown-feedback-sub001/internal/argdown"
	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier"
)

var argdownPred = verifier.DTypePredicate(model.DTypeArgdown)

const validReco = "<A>: Wet street.\n\n(1) It rains.\n(2) If it rains, the street is wet.\n-- {from: [\"1\", \"2\"]} --\n(3) The street is wet.\n"

func recoRequest(t *testing.T, src string) *model.Request {
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

func soleResult(t *testing.T, req *model.Request) model.Result {
	t.Helper()
	require.Len(t, req.Results, 1)
	return req.Results[0]
}

func TestCompositeValidReco(t *testing.T) {
	t.Parallel()

	req := recoRequest(t, validReco)
	comp := Composite(Options{}, argdownPred)
	require.Equal(t, FamilyName, comp.Name())

	require.NoError(t, comp.Handle(req))
	require.Len(t, req.Results, 10)
	require.True(t, req.IsValid())
	for _, res := range req.Results {
		require.True(t, res.Valid, res.VerifierID)
	}
}

func TestCompositeVariants(t *testing.T) {
	t.Parallel()

	base := Composite(Options{}, argdownPred)
	unique := Composite(Options{RequireUnique: true}, argdownPred)
	require.Equal(t, base.Len()+1, unique.Len())

	lax := Composite(Options{SkipUsedPremises: true, AllowInlineData: true}, argdownPred)
	require.Equal(t, base.Len()-2, lax.Len())

	logical := Composite(Options{Family: "logreco", AllowInlineData: true}, argdownPred)
	require.Equal(t, "logreco", logical.Name())
	require.Equal(t, "logreco.has_arguments", CheckName("logreco", HasArgumentsCheck))
}

func TestHasArgumentsRespectsN(t *testing.T) {
	t.Parallel()

	req := recoRequest(t, validReco)
	req.Config.N = 2
	require.NoError(t, HasArguments(FamilyName, argdownPred).Handle(req))
	res := soleResult(t, req)
	require.False(t, res.Valid)
	require.Equal(t, "Expected at least 2 argument(s), found 1.", res.Message)
}

func TestHasUniqueArgument(t *testing.T) {
	t.Parallel()

	src := "<A>: First.\n\n(1) P.\n-- {from: [\"1\"]} --\n(2) C.\n\n<B>: Second.\n\n(1) Q.\n-- {from: [\"1\"]} --\n(2) D.\n"
	req := recoRequest(t, src)
	require.NoError(t, HasUniqueArgument(FamilyName, argdownPred).Handle(req))
	res := soleResult(t, req)
	require.False(t, res.Valid)
	require.Equal(t, "Expected exactly one argument, found 2.", res.Message)
}

func TestHasPCS(t *testing.T) {
	t.Parallel()

	req := recoRequest(t, "<A>: Gist only, never reconstructed.\n")
	require.NoError(t, HasPCS(FamilyName, argdownPred).Handle(req))
	res := soleResult(t, req)
	require.False(t, res.Valid)
	require.Equal(t, "Argument 'A' has no premise-conclusion structure.", res.Message)
}

func TestStartsWithPremiseEndsWithConclusion(t *testing.T) {
	t.Parallel()

	endsOnPremise := "<A>: G.\n\n(1) P.\n-- {from: [\"1\"]} --\n(2) C.\n(3) Q.\n"
	req := recoRequest(t, endsOnPremise)
	require.NoError(t, StartsWithPremiseEndsWithConclusion(FamilyName, argdownPred).Handle(req))
	res := soleResult(t, req)
	require.False(t, res.Valid)
	require.Contains(t, res.Message, "does not end with a conclusion")

	startsOnConclusion := "<A>: G.\n\n-- {from: [\"1\"]} --\n(1) C.\n"
	req = recoRequest(t, startsOnConclusion)
	require.NoError(t, StartsWithPremiseEndsWithConclusion(FamilyName, argdownPred).Handle(req))
	res = soleResult(t, req)
	require.False(t, res.Valid)
	require.Contains(t, res.Message, "starts with a conclusion")
}

func TestNoDuplicatePCSLabels(t *testing.T) {
	t.Parallel()

	src := "<A>: G.\n\n(1) P.\n(1) Q.\n-- {from: [\"1\"]} --\n(2) C.\n"
	req := recoRequest(t, src)
	require.NoError(t, NoDuplicatePCSLabels(FamilyName, argdownPred).Handle(req))
	res := soleResult(t, req)
	require.False(t, res.Valid)
	require.Equal(t, "Duplicate pcs label '(1)' in argument 'A'.", res.Message)
}

func TestHasLabelAndGist(t *testing.T) {
	t.Parallel()

	anonymous := "(1) P.\n-- {from: [\"1\"]} --\n(2) C.\n"
	req := recoRequest(t, anonymous)
	require.NoError(t, HasLabelAndGist(FamilyName, argdownPred).Handle(req))
	res := soleResult(t, req)
	require.False(t, res.Valid)
	require.Contains(t, res.Message, "has no explicit label")

	twoGists := "<A>: One take.\n\n<A>: Another take.\n"
	req = recoRequest(t, twoGists)
	require.NoError(t, HasLabelAndGist(FamilyName, argdownPred).Handle(req))
	res = soleResult(t, req)
	require.False(t, res.Valid)
	require.Contains(t, res.Message, "Argument 'A' has 2 gists")
}

func TestHasInferenceData(t *testing.T) {
	t.Parallel()

	missing := "<A>: G.\n\n(1) P.\n-----\n(2) C.\n"
	req := recoRequest(t, missing)
	require.NoError(t, HasInferenceData(FamilyName, argdownPred).Handle(req))
	res := soleResult(t, req)
	require.False(t, res.Valid)
	require.Equal(t, "Conclusion (2) of argument 'A' lacks inference data 'from'.", res.Message)

	notAList := "<A>: G.\n\n(1) P.\n-- {from: \"1\"} --\n(2) C.\n"
	req = recoRequest(t, notAList)
	require.NoError(t, HasInferenceData(FamilyName, argdownPred).Handle(req))
	res = soleResult(t, req)
	require.False(t, res.Valid)
	require.Contains(t, res.Message, "is not a non-empty list")

	forwardRef := "<A>: G.\n\n(1) P.\n-- {from: [\"3\"]} --\n(2) C.\n"
	req = recoRequest(t, forwardRef)
	require.NoError(t, HasInferenceData(FamilyName, argdownPred).Handle(req))
	res = soleResult(t, req)
	require.False(t, res.Valid)
	require.Equal(t, "Conclusion (2) of argument 'A' is drawn from '(3)' which does not precede it.", res.Message)
}

func TestHasInferenceDataCustomKey(t *testing.T) {
	t.Parallel()

	src := "<A>: G.\n\n(1) P.\n-- {uses: [\"1\"]} --\n(2) C.\n"
	req := recoRequest(t, src)
	req.Config.FromKey = "uses"
	require.NoError(t, HasInferenceData(FamilyName, argdownPred).Handle(req))
	require.True(t, soleResult(t, req).Valid)
}

func TestUsedPremises(t *testing.T) {
	t.Parallel()

	src := "<A>: G.\n\n(1) P.\n(2) Q.\n-- {from: [\"1\"]} --\n(3) C.\n"
	req := recoRequest(t, src)
	require.NoError(t, UsedPremises(FamilyName, argdownPred).Handle(req))
	res := soleResult(t, req)
	require.False(t, res.Valid)
	require.Equal(t, "Step (2) of argument 'A' is not used in any subsequent inference.", res.Message)
}

func TestNoExtraPropositions(t *testing.T) {
	t.Parallel()

	src := "[Loose]: A stray claim.\n\n<A>: G.\n\n(1) P.\n-- {from: [\"1\"]} --\n(2) C.\n"
	req := recoRequest(t, src)
	require.NoError(t, NoExtraPropositions(FamilyName, argdownPred).Handle(req))
	res := soleResult(t, req)
	require.False(t, res.Valid)
	require.Equal(t, "Proposition 'Loose' does not belong to any argument.", res.Message)
}

func TestOnlyGroundedDialecticalRelations(t *testing.T) {
	t.Parallel()

	grounded := "<A>: G1.\n\n(1) P.\n-- {from: [\"1\"]} --\n(2) [C]: Shared.\n\n<B>: G2.\n    <+ <A>\n\n(1) [C]: Shared.\n-- {from: [\"1\"]} --\n(2) D.\n"
	req := recoRequest(t, grounded)
	require.NoError(t, OnlyGroundedDialecticalRelations(FamilyName, argdownPred).Handle(req))
	require.True(t, soleResult(t, req).Valid)

	sketchedOnly := "<A>: G1.\n\n(1) P.\n-- {from: [\"1\"]} --\n(2) [C]: Shared.\n\n<B>: G2.\n    <- <A>\n\n(1) [C]: Shared.\n-- {from: [\"1\"]} --\n(2) D.\n"
	req = recoRequest(t, sketchedOnly)
	require.NoError(t, OnlyGroundedDialecticalRelations(FamilyName, argdownPred).Handle(req))
	res := soleResult(t, req)
	require.False(t, res.Valid)
	require.Contains(t, res.Message, "is not grounded in any reconstruction")
}

func TestNoInlineData(t *testing.T) {
	t.Parallel()

	src := "<A>: G. {note: \"x\"}\n\n(1) P. {annotation_ids: [\"a1\"]}\n-- {from: [\"1\"]} --\n(2) C. {weight: 0.3}\n"
	req := recoRequest(t, src)
	require.NoError(t, NoInlineData(FamilyName, argdownPred).Handle(req))
	res := soleResult(t, req)
	require.False(t, res.Valid)
	require.Contains(t, res.Message, "Argument 'A' carries inline yaml data.")
	require.Contains(t, res.Message, "Proposition 'untitled-2' carries inline yaml data.")
	require.NotContains(t, res.Message, "'untitled-1'")
}
