// Package repokit holds the SQL seams repos are written against
package repokit

import (
	"context"

	"matchlog/internal/platform/store"
)

type (
	// Queryer is the statement surface a bound repo uses
	Queryer = store.RowQuerier

	// TxRunner runs a function in a transaction
	TxRunner = store.TxRunner

	// Rows is an open result set
	Rows = store.Rows

	// Row is one result row
	Row = store.Row

	// CommandTag reports what a write did
	CommandTag = store.CommandTag
)

// WithTx runs fn inside a transaction on tx
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}
