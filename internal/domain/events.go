package domain

import "time"

// Event types
const (
	EventTypeTransferCompleted = "transfer.completed"
	EventTypeAccountCreated    = "account.created"
)

// Aggregate types
const (
	AggregateTypeTransfer = "transfer"
	AggregateTypeAccount  = "account"
)

// Event is a notification emitted after a state change has been committed.
type Event struct {
	ID            string
	AggregateID   int64
	AggregateType string
	EventType     string
	Payload       any
	CreatedAt     time.Time
}

// TransferCompletedEvent payload
type TransferCompletedEvent struct {
	TransferID           int64  `json:"transfer_id"`
	SourceAccountID      int64  `json:"source_account_id"`
	DestinationAccountID int64  `json:"destination_account_id"`
	Amount               string `json:"amount"`
	Timestamp            string `json:"timestamp"`
}

// AccountCreatedEvent payload
type AccountCreatedEvent struct {
	AccountID      int64  `json:"account_id"`
	InitialBalance string `json:"initial_balance"`
}
