package argmap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/debatelab/argdown-feedback-sub001/internal/argdown"
	"github.com/debatelab/argdown-feedback-sub001/internal/model"
	"github.com/debatelab/argdown-feedback-sub001/internal/verifier"
)

var argdownPred = verifier.DTypePredicate(model.DTypeArgdown)

func mapRequest(t *testing.T, src string) *model.Request {
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

func TestCompositeValidMap(t *testing.T) {
	t.Parallel()

	src := "[C]: Claim.\n    <+ <A>: Because.\n"
	req := mapRequest(t, src)

	require.NoError(t, Composite(argdownPred).Handle(req))
	require.Len(t, req.Results, 3)
	require.True(t, req.IsValid())
	for _, name := range []string{CompleteClaimsName, NoDuplicateLabelsName, NoPCSName} {
		res, found := req.FindResult(name)
		require.True(t, found, name)
		require.True(t, res.Valid, name)
	}
}

func TestCompleteClaimsAutoLabel(t *testing.T) {
	t.Parallel()

	// A bare relation target becomes an auto-labeled claim.
	src := "[C]: Claim.\n    <+ Because it is so.\n"
	req := mapRequest(t, src)

	require.NoError(t, CompleteClaims(argdownPred).Handle(req))
	res := soleResult(t, req)
	require.False(t, res.Valid)
	require.Contains(t, res.Message, "has no explicit label")
}

func TestCompleteClaimsMissingText(t *testing.T) {
	t.Parallel()

	src := "[C]: Claim.\n    <+ [D]\n"
	req := mapRequest(t, src)

	require.NoError(t, CompleteClaims(argdownPred).Handle(req))
	res := soleResult(t, req)
	require.False(t, res.Valid)
	require.Contains(t, res.Message, "Claim 'D' has no text.")
}

func TestNoDuplicateLabels(t *testing.T) {
	t.Parallel()

	src := "[C]: First wording.\n\n[C]: Second wording.\n    <+ <A>: One gist.\n\n<A>: Another gist.\n"
	req := mapRequest(t, src)

	require.NoError(t, NoDuplicateLabels(argdownPred).Handle(req))
	res := soleResult(t, req)
	require.False(t, res.Valid)
	require.Contains(t, res.Message, "Claim label 'C' is bound to 2 different texts.")
	require.Contains(t, res.Message, "Argument label 'A' is bound to 2 different gists.")
}

func TestNoDuplicateLabelsSameWording(t *testing.T) {
	t.Parallel()

	// Restating a claim with the identical text is not a duplicate.
	src := "[C]: Same wording.\n\n[C]: Same wording.\n"
	req := mapRequest(t, src)

	require.NoError(t, NoDuplicateLabels(argdownPred).Handle(req))
	require.True(t, soleResult(t, req).Valid)
}

func TestNoPCS(t *testing.T) {
	t.Parallel()

	src := "<A>: Gist.\n\n(1) Premise.\n-----\n(2) Conclusion.\n"
	req := mapRequest(t, src)

	require.NoError(t, NoPCS(argdownPred).Handle(req))
	res := soleResult(t, req)
	require.False(t, res.Valid)
	require.Equal(t, "Argument 'A' carries a premise-conclusion structure.", res.Message)
}
