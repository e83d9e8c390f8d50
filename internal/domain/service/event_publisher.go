package service

import (
	"context"
)

// SubmissionEvent notifies the review pipeline that a user filed a new-market
// or delete request. Publishing is best-effort: a failed publish never fails
// the submission itself.
type SubmissionEvent struct {
	RequestID    string `json:"request_id,omitempty"` // For distributed tracing
	SubmissionID string `json:"submission_id"`
	MarketID     string `json:"market_id"`
	MarketName   string `json:"market_name"`
	Kind         string `json:"kind"` // New or Delete
	SubmittedBy  string `json:"submitted_by"`
}

// EventPublisher defines the interface for publishing submission events to a
// message queue.
type EventPublisher interface {
	// PublishSubmissionEvent publishes a submission event for async processing.
	PublishSubmissionEvent(ctx context.Context, event *SubmissionEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}
