package domain

import "strings"

const (
	RoleClient = "CLIENT"
	RoleAgent  = "AGENT"
	RoleAdmin  = "ADMIN"
)

// TransactionStatus is the off-chain projection of an escrow bid's lifecycle.
type TransactionStatus string

const (
	StatusPending         TransactionStatus = "pending"
	StatusAccepted        TransactionStatus = "accepted"
	StatusRejected        TransactionStatus = "rejected"
	StatusCancelled       TransactionStatus = "cancelled"
	StatusDocsReleased    TransactionStatus = "docs_released"
	StatusDocsConfirmed   TransactionStatus = "docs_confirmed"
	StatusPaymentReleased TransactionStatus = "payment_released"
	StatusCompleted       TransactionStatus = "completed"
	StatusDisputed        TransactionStatus = "disputed"
)

// TransactionEvent is a lifecycle event emitted by the blockchain indexer.
type TransactionEvent string

const (
	EventBidAccepted     TransactionEvent = "bid_accepted"
	EventBidRejected     TransactionEvent = "bid_rejected"
	EventDocsReleased    TransactionEvent = "docs_released"
	EventDocsConfirmed   TransactionEvent = "docs_confirmed"
	EventPaymentReleased TransactionEvent = "payment_released"
)

const (
	ActionPurchase = "purchase"
	ActionLease    = "lease"
)

// eventStatus maps each inbound event to its target status. The table is
// total and context-free: re-delivering an event re-sets the same status
// instead of erroring, which keeps reconciliation replay-tolerant.
var eventStatus = map[TransactionEvent]TransactionStatus{
	EventBidAccepted:     StatusAccepted,
	EventBidRejected:     StatusRejected,
	EventDocsReleased:    StatusDocsReleased,
	EventDocsConfirmed:   StatusDocsConfirmed,
	EventPaymentReleased: StatusPaymentReleased,
}

// StatusForEvent resolves the target status for an event. ok is false for
// event values outside the indexer contract.
func StatusForEvent(event TransactionEvent) (TransactionStatus, bool) {
	s, ok := eventStatus[event]
	return s, ok
}

// Coarse listing buckets exposed on the transactions endpoint.
var statusBuckets = map[string][]TransactionStatus{
	"ongoing": {
		StatusPending,
		StatusAccepted,
		StatusDocsReleased,
		StatusDocsConfirmed,
		StatusPaymentReleased,
		StatusDisputed,
	},
	"completed": {StatusCompleted},
	"cancelled": {StatusRejected, StatusCancelled},
}

// StatusesForBucket maps a filter bucket to its concrete statuses. An empty
// or unrecognized bucket returns nil, meaning unfiltered.
func StatusesForBucket(bucket string) []TransactionStatus {
	return statusBuckets[strings.ToLower(strings.TrimSpace(bucket))]
}

// ParseAction normalizes an action string from event metadata. Unknown values
// are dropped rather than rejected so a malformed hint never blocks an event.
func ParseAction(v string) string {
	switch v {
	case ActionPurchase, ActionLease:
		return v
	}
	return ""
}
