package store

import (
	"context"

	"payu-relay/internal/models"
)

// Filter narrows FindAll. The zero value matches every record.
type Filter struct {
	TxnID  string
	Status models.TransactionStatus
}

// TransactionStore is an append-only ledger over transaction records. There
// are deliberately no update or delete operations; concurrent writers are
// safe because nothing is ever mutated in place.
type TransactionStore interface {
	// Append persists a new record and returns its storage id.
	Append(ctx context.Context, rec *models.TransactionRecord) (string, error)
	// FindAll returns matching records in insertion order.
	FindAll(ctx context.Context, f Filter) ([]models.TransactionRecord, error)
}
