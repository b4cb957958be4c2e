package domain

import "fmt"

// FailureKind classifies the recoverable failures of a run. Every kind
// except FailurePublish is degraded at per-ticker scope to an empty or
// sentinel value; publish failures are handled only by the orchestrator.
type FailureKind string

const (
	// FailureUnavailable is a transport failure reaching a provider.
	FailureUnavailable FailureKind = "source_unavailable"
	// FailureMalformed is a response that could not be decoded.
	FailureMalformed FailureKind = "malformed_response"
	// FailureMissingField is an expected optional field absent in an
	// otherwise valid response.
	FailureMissingField FailureKind = "missing_field"
	// FailureUnresolved means every share-count candidate was exhausted.
	FailureUnresolved FailureKind = "share_count_unresolved"
	// FailurePublish is a rejected or unreachable spreadsheet write.
	FailurePublish FailureKind = "publish_failed"
)

// SourceError is a classified failure from an external collaborator,
// scoped to a single ticker where one applies.
type SourceError struct {
	Kind   FailureKind
	Ticker string
	Err    error
}

func (e *SourceError) Error() string {
	if e.Ticker == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Kind, e.Ticker, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError wraps err with its failure classification.
func NewSourceError(kind FailureKind, ticker string, err error) *SourceError {
	return &SourceError{Kind: kind, Ticker: ticker, Err: err}
}
