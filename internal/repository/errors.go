package repository

import "errors"

var (
	// ErrUpstreamFetch marks a market data source failure that survived the
	// bounded retry budget.
	ErrUpstreamFetch = errors.New("market data source failure")

	// ErrPersistence marks a failed strategy store write.
	ErrPersistence = errors.New("strategy store failure")
)
