package domain

import "errors"

var (
	ErrLocalPersistence = errors.New("failed to persist sale locally")
	ErrInvalidSale      = errors.New("invalid sale")
	ErrSaleNotSynced    = errors.New("sale is not synced")
	ErrRemoteRejected   = errors.New("sale rejected by sales service")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPromoterMismatch = errors.New("sale belongs to another promoter")
	ErrNotFound         = errors.New("not found")
	ErrIdentityUnknown  = errors.New("promoter identity is not established yet")
)
