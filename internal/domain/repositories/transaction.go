package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions.
//
// The claim ledger relies on ExecTx for its atomic-pair guarantee: the
// stock decrement and the audit-record insert either both commit or both
// roll back.
type TransactionManager interface {
	// ExecTx executes a function within a transaction
	ExecTx(ctx context.Context, fn TxFn) error
}
