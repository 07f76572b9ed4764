package core

import (
	"errors"
	"time"
)

// Confidence buckets. High is reserved for deterministic heuristic and
// hard-block outcomes, low for fail-closed / fallback outcomes.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// ValidConfidence reports whether s is one of the three allowed buckets.
func ValidConfidence(s string) bool {
	return s == ConfidenceLow || s == ConfidenceMedium || s == ConfidenceHigh
}

// Decision is the sole output of the content pipeline. Every check
// produces exactly one, fully populated.
type Decision struct {
	Fraud      bool     `bson:"fraud" json:"fraud"`
	Category   *string  `bson:"category" json:"category"`
	Reason     *string  `bson:"reason" json:"reason"`
	Confidence string   `bson:"confidence" json:"confidence"`
	Signals    []string `bson:"signals" json:"signals"`
}

// NewDecision builds a Decision, mapping empty category/reason to null
// and guaranteeing a non-nil signal slice.
func NewDecision(fraud bool, category, reason, confidence string, signals []string) Decision {
	d := Decision{Fraud: fraud, Confidence: confidence, Signals: signals}
	if d.Signals == nil {
		d.Signals = []string{}
	}
	if category != "" {
		d.Category = &category
	}
	if reason != "" {
		d.Reason = &reason
	}
	return d
}

// Verdict is the validated four-key payload returned by the semantic
// classifier. Confidence is coerced by the decision engine when the
// classifier returns something outside the allowed buckets.
type Verdict struct {
	Fraud      bool
	Category   string
	Reason     string
	Confidence string
}

// ErrMalformedVerdict marks a classifier response whose content could not
// be decoded per the four-key contract. The decision engine resolves it
// into a fail-closed or fail-open fallback Decision.
var ErrMalformedVerdict = errors.New("malformed classifier verdict")

// Content type labels used on persisted decision records.
const (
	ContentText  = "text"
	ContentImage = "image"
	ContentFile  = "file"
)

// --- Audit Models ---

// DecisionRecord is one persisted check: the request metadata plus the
// Decision that was returned.
type DecisionRecord struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	Timestamp      time.Time `bson:"timestamp" json:"timestamp"`
	ContentType    string    `bson:"content_type" json:"content_type"`
	UserID         string    `bson:"user_id,omitempty" json:"user_id,omitempty"`
	ConversationID string    `bson:"conversation_id,omitempty" json:"conversation_id,omitempty"`
	Filename       string    `bson:"filename,omitempty" json:"filename,omitempty"`
	ClientIP       string    `bson:"client_ip" json:"client_ip"`
	Decision       Decision  `bson:"decision" json:"decision"`
	ElapsedMS      int64     `bson:"elapsed_ms" json:"elapsed_ms"`
}

type DecisionFilter struct {
	FraudOnly bool
	Page      int64
	Limit     int64
}

type PaginatedDecisions struct {
	Records []DecisionRecord `json:"records"`
	Total   int64            `json:"total"`
	Page    int64            `json:"page"`
	Limit   int64            `json:"limit"`
}
