package verifier

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/debatelab/argdown-feedback-sub001/internal/model"
)

type stubHandler struct {
	name  string
	calls int
	fn    func(req *model.Request) error
}

func (s *stubHandler) Name() string { return s.name }

func (s *stubHandler) Handle(req *model.Request) error {
	s.calls++
	if s.fn != nil {
		return s.fn(req)
	}
	return nil
}

func newTestRequest() *model.Request {
	return model.NewRequest("", "", model.DefaultConfig())
}

func TestRunMarksExecutedOnce(t *testing.T) {
	t.Parallel()

	req := newTestRequest()
	h := &stubHandler{name: "check"}

	Run(h, req, nil)
	Run(h, req, nil)

	require.Equal(t, 2, h.calls)
	require.Equal(t, []string{"check"}, req.Executed)
}

func TestRunSkipsStoppedRequest(t *testing.T) {
	t.Parallel()

	req := newTestRequest()
	req.Halt()
	h := &stubHandler{name: "check"}

	Run(h, req, nil)

	require.Zero(t, h.calls)
	require.Empty(t, req.Executed)
}

func TestRunRecordsHandlerError(t *testing.T) {
	t.Parallel()

	req := newTestRequest()
	h := &stubHandler{name: "check", fn: func(*model.Request) error {
		return errors.New("boom")
	}}

	Run(h, req, nil)

	require.Len(t, req.Results, 1)
	res := req.Results[0]
	require.False(t, res.Valid)
	require.Equal(t, "check", res.VerifierID)
	require.Equal(t, "Processing error: boom", res.Message)
	require.True(t, req.ContinueProcessing)
}

func TestRunRecoversPanic(t *testing.T) {
	t.Parallel()

	req := newTestRequest()
	h := &stubHandler{name: "check", fn: func(*model.Request) error {
		panic("kaboom")
	}}

	Run(h, req, nil)

	require.Len(t, req.Results, 1)
	res := req.Results[0]
	require.False(t, res.Valid)
	require.Equal(t, "Processing error: kaboom", res.Message)
	require.True(t, req.ContinueProcessing)
	require.Equal(t, []string{"check"}, req.Executed)
}

func TestCompositeRunsChildrenInOrder(t *testing.T) {
	t.Parallel()

	var order []string
	child := func(name string) *stubHandler {
		return &stubHandler{name: name, fn: func(*model.Request) error {
			order = append(order, name)
			return nil
		}}
	}

	root := NewComposite("root", child("a"), NewComposite("inner", child("b"), child("c")))
	req := newTestRequest()
	Run(root, req, nil)

	require.Equal(t, []string{"a", "b", "c"}, order)
	require.Equal(t, []string{"root", "a", "inner", "b", "c"}, req.Executed)
}

func TestCompositeBreaksWhenProcessingStops(t *testing.T) {
	t.Parallel()

	halting := &stubHandler{name: "halting", fn: func(req *model.Request) error {
		req.Halt()
		return nil
	}}
	after := &stubHandler{name: "after"}

	root := NewComposite("root", halting, after)
	req := newTestRequest()
	Run(root, req, nil)

	require.Equal(t, 1, halting.calls)
	require.Zero(t, after.calls)
	require.Equal(t, []string{"root", "halting"}, req.Executed)
}

func TestItemCheckOneResultPerMatchedItem(t *testing.T) {
	t.Parallel()

	req := newTestRequest()
	req.Items = []*model.PrimaryData{
		{ID: "argdown_0", DType: model.DTypeArgdown, Data: struct{}{}},
		{ID: "argdown_1", DType: model.DTypeArgdown},
		{ID: "xml_0", DType: model.DTypeXML, Data: struct{}{}},
		{ID: "argdown_2", DType: model.DTypeArgdown, Data: struct{}{}},
	}

	check := &ItemCheck{
		CheckName: "family.check",
		Pred:      DTypePredicate(model.DTypeArgdown),
		Eval: func(_ *model.Request, item *model.PrimaryData) model.Result {
			return model.ValidResult("family.check", item.ID)
		},
	}

	require.NoError(t, check.Handle(req))
	require.Len(t, req.Results, 2)
	require.Equal(t, []string{"argdown_0"}, req.Results[0].Refs)
	require.Equal(t, []string{"argdown_2"}, req.Results[1].Refs)
}
