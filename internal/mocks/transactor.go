package mocks

import (
	"context"
	"sync/atomic"

	"github.com/phrazzld/shoplist-api/internal/store"
)

// MockTransactor implements store.Transactor without a database.
// The callback receives a nil *sql.Tx; mock stores ignore it in WithTx.
type MockTransactor struct {
	// RunInTransactionFn overrides the default pass-through behavior.
	RunInTransactionFn func(ctx context.Context, fn store.TxFn) error

	calls atomic.Int64
}

var _ store.Transactor = (*MockTransactor)(nil)

// RunInTransaction implements store.Transactor
func (m *MockTransactor) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	m.calls.Add(1)
	if m.RunInTransactionFn != nil {
		return m.RunInTransactionFn(ctx, fn)
	}
	return fn(ctx, nil)
}

// Calls returns how many transactions were started.
func (m *MockTransactor) Calls() int {
	return int(m.calls.Load())
}
