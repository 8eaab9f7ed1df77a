package domain

import "errors"

// Business-rule errors raised by the transaction engine. Storage-level errors
// (not found, already exists) live in the store package next to the
// repository that produces them.
var (
	// ErrInvalidAccountType is returned when a caller-supplied account type is
	// missing or not part of the closed enumeration.
	ErrInvalidAccountType = errors.New("invalid account type")

	// ErrInvalidAmount is returned when an operation amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidInterestRate is returned when an interest rate is absent or zero.
	ErrInvalidInterestRate = errors.New("interest rate is required and must be non-zero")

	// ErrInitialBalanceRequired is returned when a Default or Saving account is
	// created without a funded opening balance.
	ErrInitialBalanceRequired = errors.New("initial balance is required for this account type")

	// ErrInsufficientBalance is returned when a Saving account would go negative.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrOverdraftExceeded is returned when a Default or Bonus account would
	// breach the configured overdraft floor.
	ErrOverdraftExceeded = errors.New("overdraft limit exceeded")

	// ErrSameAccountTransfer is returned when a transfer names the same account
	// on both sides.
	ErrSameAccountTransfer = errors.New("cannot transfer to the same account")
)
