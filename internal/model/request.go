package model

// Request is the single mutable state object threaded through a verifier
// pipeline. Handlers read the extracted items, append results, and may stop
// the chain by cancelling processing; nothing else is shared between
// handlers.
type Request struct {
	// Inputs is the raw input blob the artifacts are extracted from.
	Inputs string
	// Source is the optional original text an annotation refers to.
	Source string
	// Items holds the extracted artifacts in extraction order.
	Items []*PrimaryData
	// Results accumulates one entry per executed check.
	Results []Result
	// Scorings accumulates virtue scores, computed only on valid requests.
	Scorings []ScoringResult
	// Artifacts is a scratch space shared across handlers in one pipeline.
	Artifacts map[string]any
	// Config carries the per-request options resolved at dispatch time.
	Config Config
	// ContinueProcessing is flipped to false to stop the chain on fatal
	// issues. It starts true.
	ContinueProcessing bool
	// Executed logs handler names in execution order, each at most once.
	Executed []string

	executedSet map[string]struct{}
}

// NewRequest builds a Request ready for pipeline execution.
func NewRequest(inputs, source string, cfg Config) *Request {
	return &Request{
		Inputs:             inputs,
		Source:             source,
		Artifacts:          make(map[string]any),
		Config:             cfg,
		ContinueProcessing: true,
	}
}

// IsValid reports whether every recorded result is valid.
func (r *Request) IsValid() bool {
	for _, res := range r.Results {
		if !res.Valid {
			return false
		}
	}
	return true
}

// MarkExecuted appends name to the executed-handler log. Repeated calls with
// the same name are ignored so each handler appears at most once.
func (r *Request) MarkExecuted(name string) {
	if r.executedSet == nil {
		r.executedSet = make(map[string]struct{})
	}
	if _, seen := r.executedSet[name]; seen {
		return
	}
	r.executedSet[name] = struct{}{}
	r.Executed = append(r.Executed, name)
}

// AddResult appends a check result.
func (r *Request) AddResult(res Result) {
	r.Results = append(r.Results, res)
}

// AddScoring appends a scorer outcome.
func (r *Request) AddScoring(s ScoringResult) {
	r.Scorings = append(r.Scorings, s)
}

// Halt stops the pipeline after the current handler returns.
func (r *Request) Halt() {
	r.ContinueProcessing = false
}

// ItemsOf returns the items of the given type in extraction order.
func (r *Request) ItemsOf(dtype DType) []*PrimaryData {
	var out []*PrimaryData
	for _, item := range r.Items {
		if item.DType == dtype {
			out = append(out, item)
		}
	}
	return out
}

// FindResult returns the first result recorded under verifierID.
func (r *Request) FindResult(verifierID string) (Result, bool) {
	for _, res := range r.Results {
		if res.VerifierID == verifierID {
			return res, true
		}
	}
	return Result{}, false
}
