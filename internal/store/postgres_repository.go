/**
 * @description
 * This file provides the PostgreSQL implementation of the `Repository`
 * interface. It contains the SQL needed to interact with the `accounts` table.
 *
 * Expected schema:
 *
 *   CREATE TABLE accounts (
 *       id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
 *       number       BIGINT NOT NULL UNIQUE,
 *       account_type TEXT NOT NULL,
 *       balance      BIGINT NOT NULL DEFAULT 0,
 *       bonus_score  BIGINT,
 *       created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
 *       updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
 *   );
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/transfa/ledger-service/internal/domain"
)

const accountColumns = "id, number, account_type, balance, bonus_score, created_at, updated_at"

// PostgresRepository is the PostgreSQL implementation of the Repository interface.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.ID,
		&account.Number,
		&account.Type,
		&account.Balance,
		&account.BonusScore,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByNumber retrieves the unique account with the given number.
func (r *PostgresRepository) FindByNumber(ctx context.Context, number int64) (*domain.Account, error) {
	query := fmt.Sprintf("SELECT %s FROM accounts WHERE number = $1", accountColumns)
	account, err := scanAccount(r.db.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// CreateAccount inserts a new account record. The database assigns the id and
// timestamps and enforces number uniqueness as a safety net.
func (r *PostgresRepository) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	query := fmt.Sprintf(`
        INSERT INTO accounts (number, account_type, balance, bonus_score)
        VALUES ($1, $2, $3, $4)
        RETURNING %s
    `, accountColumns)

	created, err := scanAccount(r.db.QueryRow(ctx, query,
		account.Number,
		account.Type,
		account.Balance,
		account.BonusScore,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return nil, ErrAccountExists
		}
		log.Printf("level=error component=store msg=\"account insert failed\" number=%d err=%v", account.Number, err)
		return nil, err
	}
	return created, nil
}

// UpdateAccount applies the non-nil patch fields to the matching record and
// returns the updated row. The patch never carries storage-owned fields.
func (r *PostgresRepository) UpdateAccount(ctx context.Context, number int64, patch domain.AccountPatch) (*domain.Account, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if patch.Balance != nil {
		args = append(args, *patch.Balance)
		sets = append(sets, fmt.Sprintf("balance = $%d", len(args)))
	}
	if patch.BonusScore != nil {
		args = append(args, *patch.BonusScore)
		sets = append(sets, fmt.Sprintf("bonus_score = $%d", len(args)))
	}
	if len(sets) == 0 {
		return r.FindByNumber(ctx, number)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, number)
	query := fmt.Sprintf(
		"UPDATE accounts SET %s WHERE number = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), accountColumns,
	)

	account, err := scanAccount(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		log.Printf("level=error component=store msg=\"account update failed\" number=%d err=%v", number, err)
		return nil, err
	}
	return account, nil
}

// FindAllByType returns every account of the given type in creation order.
func (r *PostgresRepository) FindAllByType(ctx context.Context, accountType domain.AccountType) ([]*domain.Account, error) {
	query := fmt.Sprintf("SELECT %s FROM accounts WHERE account_type = $1 ORDER BY created_at", accountColumns)
	rows, err := r.db.Query(ctx, query, accountType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

var _ Repository = (*PostgresRepository)(nil)
