/**
 * @description
 * This file defines the storage contract consumed by the transaction engine,
 * along with the storage-level sentinel errors shared by all implementations.
 * The engine depends only on this interface; Postgres and in-memory
 * implementations live beside it.
 *
 * @notes
 * - UpdateAccount takes a minimal field patch rather than a full record so the
 *   engine can never overwrite storage-owned fields such as `id`.
 */

package store

import (
	"context"
	"errors"

	"github.com/transfa/ledger-service/internal/domain"
)

var (
	// ErrAccountNotFound is returned when no account matches the given number.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountExists is returned when creating an account whose number is
	// already taken.
	ErrAccountExists = errors.New("account number already exists")
)

// Repository is the account store consumed by the transaction engine.
type Repository interface {
	// FindByNumber returns the unique account with the given number, or
	// ErrAccountNotFound.
	FindByNumber(ctx context.Context, number int64) (*domain.Account, error)

	// CreateAccount persists a new account, assigning the storage identifier
	// and timestamps. Returns ErrAccountExists if the number is taken; the
	// store enforces uniqueness as a safety net below the engine's check.
	CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)

	// UpdateAccount applies the non-nil fields of the patch to the account
	// with the given number and returns the updated record.
	UpdateAccount(ctx context.Context, number int64, patch domain.AccountPatch) (*domain.Account, error)

	// FindAllByType returns every account of the given type, in creation order.
	FindAllByType(ctx context.Context, accountType domain.AccountType) ([]*domain.Account, error)
}
