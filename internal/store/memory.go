package store

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"payu-relay/internal/models"
)

// MemoryStore is an in-process TransactionStore used by tests.
type MemoryStore struct {
	mu   sync.Mutex
	recs []models.TransactionRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, rec *models.TransactionRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = primitive.NewObjectID()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	s.recs = append(s.recs, *rec)
	return rec.ID.Hex(), nil
}

func (s *MemoryStore) FindAll(_ context.Context, f Filter) ([]models.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.TransactionRecord
	for _, r := range s.recs {
		if f.TxnID != "" && r.TxnID != f.TxnID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
