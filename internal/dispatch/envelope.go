package dispatch

import (
	"time"

	"github.com/debatelab/argdown-feedback-sub001/internal/model"
)

// Request is the client-facing verification envelope. Inputs may be empty;
// the pipeline then reports the missing artifacts as invalid results rather
// than rejecting the request.
type Request struct {
	Inputs string         `json:"inputs"`
	Source string         `json:"source,omitempty"`
	Config map[string]any `json:"config,omitempty"`
}

// ItemSummary is the serializable view of one extracted artifact.
type ItemSummary struct {
	ID          string          `json:"id"`
	DType       model.DType     `json:"dtype"`
	CodeSnippet string          `json:"code_snippet"`
	Metadata    *model.Metadata `json:"metadata"`
}

// ResultView is the serializable view of one check result. Message is null
// for passing checks. Details are stripped on the response boundary, so the
// field always serializes as an empty object.
type ResultView struct {
	VerifierID string         `json:"verifier_id"`
	Refs       []string       `json:"refs"`
	Valid      bool           `json:"valid"`
	Message    *string        `json:"message"`
	Details    map[string]any `json:"details"`
}

// ScoringView is the serializable view of one scorer outcome.
type ScoringView struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	Score       float64        `json:"score"`
	Message     string         `json:"message"`
	Details     map[string]any `json:"details,omitempty"`
}

// Response is the verification report returned to clients.
type Response struct {
	Verifier         string        `json:"verifier"`
	IsValid          bool          `json:"is_valid"`
	VerificationData []ItemSummary `json:"verification_data"`
	Results          []ResultView  `json:"results"`
	Scorings         []ScoringView `json:"scorings"`
	ExecutedHandlers []string      `json:"executed_handlers"`
	ProcessingTimeMS float64       `json:"processing_time_ms"`
}

// VerifierListing is the payload of the verifier listing endpoint: the
// grouped names plus the full descriptions.
type VerifierListing struct {
	Groups    map[string][]string  `json:"groups"`
	Verifiers []model.VerifierInfo `json:"verifiers"`
}

// buildResponse shapes the finished pipeline state into the wire form.
// Result details never cross this boundary.
func buildResponse(verifier string, req *model.Request, elapsed time.Duration) *Response {
	resp := &Response{
		Verifier:         verifier,
		IsValid:          req.IsValid(),
		VerificationData: make([]ItemSummary, 0, len(req.Items)),
		Results:          make([]ResultView, 0, len(req.Results)),
		Scorings:         make([]ScoringView, 0, len(req.Scorings)),
		ExecutedHandlers: append([]string(nil), req.Executed...),
		ProcessingTimeMS: float64(elapsed.Microseconds()) / 1000.0,
	}
	for _, item := range req.Items {
		meta := item.Metadata
		if meta == nil {
			meta = model.NewMetadata()
		}
		resp.VerificationData = append(resp.VerificationData, ItemSummary{
			ID:          item.ID,
			DType:       item.DType,
			CodeSnippet: item.CodeSnippet,
			Metadata:    meta,
		})
	}
	for _, res := range req.Results {
		view := ResultView{
			VerifierID: res.VerifierID,
			Refs:       append([]string(nil), res.Refs...),
			Valid:      res.Valid,
			Details:    map[string]any{},
		}
		if !res.Valid {
			msg := res.Message
			view.Message = &msg
		}
		resp.Results = append(resp.Results, view)
	}
	for _, sc := range req.Scorings {
		resp.Scorings = append(resp.Scorings, ScoringView{
			ID:          sc.ID,
			Description: sc.Description,
			Score:       sc.Score,
			Message:     sc.Message,
			Details:     sc.Details,
		})
	}
	return resp
}
