/**
 * @description
 * This file defines the core domain model for the ledger-service: the Account
 * entity, the closed set of account types, and the pure policy helpers that
 * govern bonus accrual and overdraft checks. All business-rule decisions that
 * do not require storage access live here so they can be tested in isolation.
 *
 * @notes
 * - Balances are stored as `int64` in the smallest currency unit, which avoids
 *   floating-point inaccuracies with financial data.
 * - `BonusScore` is a pointer: it is set if and only if the account type is
 *   Bonus. Other types serialize without the field.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccountType is the closed enumeration of supported account types.
type AccountType string

const (
	AccountTypeDefault AccountType = "Default"
	AccountTypeBonus   AccountType = "Bonus"
	AccountTypeSaving  AccountType = "Saving"
)

// Policy defaults. The running values are injected into the engine from
// configuration; these are the canonical fallbacks.
const (
	// DefaultOverdraftFloor is the most negative balance permitted for
	// Default and Bonus accounts (MAXIMUM_NEGATIVE_BALANCE_ALLOWED).
	DefaultOverdraftFloor int64 = -1000

	// DefaultCreditBonusDivisor yields one bonus point per full divisor
	// credited to a Bonus account.
	DefaultCreditBonusDivisor int64 = 100

	// DefaultTransferBonusDivisor yields one bonus point per full divisor
	// transferred into a Bonus account.
	DefaultTransferBonusDivisor int64 = 150

	// InitialBonusScore is assigned to every Bonus account at creation.
	InitialBonusScore int64 = 10
)

// ParseAccountType validates a caller-supplied type string against the closed
// enumeration.
func ParseAccountType(raw string) (AccountType, error) {
	switch AccountType(raw) {
	case AccountTypeDefault, AccountTypeBonus, AccountTypeSaving:
		return AccountType(raw), nil
	}
	return "", ErrInvalidAccountType
}

// IsChecking reports whether the type is subject to the overdraft floor
// rather than the strict zero floor of Saving accounts.
func (t AccountType) IsChecking() bool {
	return t == AccountTypeDefault || t == AccountTypeBonus
}

// Account is the sole persisted entity of the ledger. `Number` is the
// caller-assigned unique identifier; `ID` is assigned by the store and is
// never written back by the engine.
type Account struct {
	ID         uuid.UUID   `json:"id"`
	Number     int64       `json:"number"`
	Type       AccountType `json:"type"`
	Balance    int64       `json:"balance"` // smallest currency unit
	BonusScore *int64      `json:"bonusScore,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// AccountPatch is the projection of fields the engine is allowed to write.
// Nil fields are left untouched by the store.
type AccountPatch struct {
	Balance    *int64
	BonusScore *int64
}

// BreachesOverdraftFloor reports whether debiting `amount` from a checking
// account would take its balance below `floor`. Saving accounts are never
// governed by the floor and always return false here; their zero floor is
// enforced separately.
func (a *Account) BreachesOverdraftFloor(amount, floor int64) bool {
	if !a.Type.IsChecking() {
		return false
	}
	return a.Balance-amount < floor
}

// BonusPointsFor computes the points earned by moving `amount` into a Bonus
// account. Integer division gives the floor semantics of the accrual rule.
func BonusPointsFor(amount, divisor int64) int64 {
	if divisor <= 0 {
		return 0
	}
	return amount / divisor
}

// Int64Ptr is a small helper for building patches and bonus scores.
func Int64Ptr(v int64) *int64 {
	return &v
}
