package model

// Result records the outcome of a single executed check.
type Result struct {
	// VerifierID is the name of the handler that produced the result.
	VerifierID string
	// Refs lists the ids of the PrimaryData items the check involved.
	Refs []string
	// Valid reports whether the check passed.
	Valid bool
	// Message explains the failure. Empty when Valid is true.
	Message string
	// Details carries opaque diagnostic data for downstream handlers. It is
	// stripped on the response boundary to guarantee serializability.
	Details map[string]any
}

// ValidResult builds a passing Result for the given handler and item ids.
func ValidResult(verifierID string, refs ...string) Result {
	return Result{VerifierID: verifierID, Refs: refs, Valid: true}
}

// InvalidResult builds a failing Result with a diagnostic message.
func InvalidResult(verifierID, message string, refs ...string) Result {
	return Result{VerifierID: verifierID, Refs: refs, Valid: false, Message: message}
}

// ScoringResult is the outcome of one virtue scorer. Scores fall in [0,1] by
// convention.
type ScoringResult struct {
	ID          string
	Description string
	Score       float64
	Message     string
	Details     map[string]any
}
