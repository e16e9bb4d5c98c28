package usecase

import "time"

const (
	// PointsPerCashUnit is the fixed conversion ratio: one unit of cash
	// buys this many points. Fractional remainders are truncated.
	PointsPerCashUnit = 100

	// DefaultTransactionTimeout is the maximum duration for a database
	// transaction. Per-operation row counts are small, so a generous
	// bound is enough.
	DefaultTransactionTimeout = 10 * time.Second

	// WalletCacheTTL is how long cached wallet balances stay valid.
	// Mutations invalidate the entry eagerly; the TTL is a backstop.
	WalletCacheTTL = 30 * time.Second
)
