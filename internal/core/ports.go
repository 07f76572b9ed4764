package core

import (
	"context"
)

// Classifier is the boundary to the external semantic classifier. It is
// treated as an unreliable remote dependency: every error it returns is
// resolved inside the decision engine, never surfaced to callers.
type Classifier interface {
	// Classify asks the classifier for a fraud verdict over normalized
	// content. Returns ErrMalformedVerdict (wrapped) when the response
	// content does not match the four-key contract.
	Classify(ctx context.Context, content string) (Verdict, error)

	// DescribeImage returns a plain-text description of visible text,
	// identifiers, links, contact info and scam intent in an image.
	DescribeImage(ctx context.Context, image []byte) (string, error)
}

// DecisionRepository stores and retrieves persisted decision records.
type DecisionRepository interface {
	Insert(ctx context.Context, rec DecisionRecord) error
	List(ctx context.Context, filter DecisionFilter) (*PaginatedDecisions, error)
}

// EventPublisher broadcasts fraud verdicts to interested consumers.
type EventPublisher interface {
	PublishDecision(rec DecisionRecord) error
	Close()
}
