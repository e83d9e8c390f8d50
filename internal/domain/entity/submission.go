package entity

import (
	"time"
)

// SubmissionKind distinguishes a new-market request from a delete/report request.
type SubmissionKind string

const (
	SubmissionKindNew    SubmissionKind = "New"
	SubmissionKindDelete SubmissionKind = "Delete"
)

// DeleteSubmissionIDPrefix is prepended to the market ID to form the local ID
// of a delete-request submission, so a market carries at most one outstanding
// delete request per regeneration cycle.
const DeleteSubmissionIDPrefix = "DEL_"

// DeleteSubmissionID returns the stable local ID for a delete request on the
// given market.
func DeleteSubmissionID(marketID string) string {
	return DeleteSubmissionIDPrefix + marketID
}

// Submission is a per-user record of either a new-market request or a
// delete/report request. New-kind submissions are derived state: they are
// regenerated from the remote market snapshot on every sync and share the
// market's ID, so their status can never drift from the market they mirror.
type Submission struct {
	ID              string         `json:"id"`              // Market ID for New; DEL_-prefixed market ID for Delete.
	MarketID        string         `json:"marketId"`        // ID of the market this submission refers to.
	MarketName      string         `json:"marketName"`      // Market name at submission time (Delete rows carry a "Delete: " prefix locally).
	SubmittedBy     string         `json:"submittedBy"`     // User ID of the submitter.
	SubmittedByName string         `json:"submittedByName"` // Display name of the submitter.
	Status          MarketStatus   `json:"status"`          // Pending/Approved/Rejected, mirroring the remote decision.
	Kind            SubmissionKind `json:"requestType"`     // New or Delete.
	ChangeDetails   string         `json:"changeDetails"`   // Evidence text for delete requests, optional photo reference appended.
	SubmittedAt     time.Time      `json:"submittedAt"`     // Timestamp of the submission.
	ReviewedAt      *time.Time     `json:"reviewedAt,omitempty"`
	ReviewedBy      *string        `json:"reviewedBy,omitempty"`
	RejectionReason *string        `json:"rejectionReason,omitempty"`
}
