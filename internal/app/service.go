/**
 * @description
 * This file contains the core business logic for the ledger-service: the
 * account transaction engine. The `Service` struct implements every money
 * movement operation (create, debit, credit, transfer, interest accrual)
 * under the account-type-specific rules, coordinating between the account
 * store and the event producer.
 *
 * Key invariants enforced here:
 * - Saving balances never go below zero through debits or transfers out.
 * - Default/Bonus balances never breach the configured overdraft floor.
 * - A bonus score exists exactly on Bonus accounts and only grows through
 *   credits and transfers in.
 * - No operation persists a partial result: validation and policy checks run
 *   before any write, and a failed transfer leg is compensated.
 *
 * Concurrency: every read-modify-write sequence runs under the per-account
 * lock registry, so concurrent operations on the same account cannot lose
 * updates regardless of the store implementation behind the Repository
 * interface.
 *
 * @dependencies
 * - internal/domain, internal/store: Domain models, policy helpers, data access.
 * - pkg/rabbitmq: Best-effort event publishing for committed operations.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/transfa/ledger-service/internal/domain"
	"github.com/transfa/ledger-service/internal/store"
	"github.com/transfa/ledger-service/pkg/rabbitmq"
)

// Config carries the named policy constants of the engine. Zero values fall
// back to the domain defaults.
type Config struct {
	OverdraftFloor       int64 // most negative balance allowed on Default/Bonus accounts
	CreditBonusDivisor   int64 // bonus points per full divisor credited
	TransferBonusDivisor int64 // bonus points per full divisor transferred in
}

// Service is the account transaction engine.
type Service struct {
	repo     store.Repository
	producer rabbitmq.Publisher // may be nil; publishing is best-effort
	cfg      Config
	locks    *accountLocks
}

// NewService creates a new transaction engine over the given store.
func NewService(repo store.Repository, producer rabbitmq.Publisher, cfg Config) *Service {
	if cfg.OverdraftFloor == 0 {
		cfg.OverdraftFloor = domain.DefaultOverdraftFloor
	}
	if cfg.CreditBonusDivisor == 0 {
		cfg.CreditBonusDivisor = domain.DefaultCreditBonusDivisor
	}
	if cfg.TransferBonusDivisor == 0 {
		cfg.TransferBonusDivisor = domain.DefaultTransferBonusDivisor
	}
	return &Service{
		repo:     repo,
		producer: producer,
		cfg:      cfg,
		locks:    newAccountLocks(),
	}
}

// CreateAccount opens a new account with the caller-assigned number.
// Default accounts require a non-zero opening balance, Saving accounts a
// strictly positive one; Bonus accounts start with the initial bonus score
// and any balance (including zero).
func (s *Service) CreateAccount(ctx context.Context, number int64, rawType string, balance int64) (*domain.Account, error) {
	accountType, err := domain.ParseAccountType(rawType)
	if err != nil {
		return nil, err
	}

	release := s.locks.acquire(number)
	defer release()

	if _, err := s.repo.FindByNumber(ctx, number); err == nil {
		return nil, store.ErrAccountExists
	} else if !errorsIsNotFound(err) {
		return nil, err
	}

	account := &domain.Account{
		Number:  number,
		Type:    accountType,
		Balance: balance,
	}

	switch accountType {
	case domain.AccountTypeDefault:
		if balance == 0 {
			return nil, domain.ErrInitialBalanceRequired
		}
	case domain.AccountTypeSaving:
		if balance <= 0 {
			return nil, domain.ErrInitialBalanceRequired
		}
	case domain.AccountTypeBonus:
		account.BonusScore = domain.Int64Ptr(domain.InitialBonusScore)
	}

	created, err := s.repo.CreateAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, rabbitmq.LedgerEvent{
		Operation:     "created",
		AccountNumber: created.Number,
		Amount:        created.Balance,
		BalanceAfter:  created.Balance,
	})
	return created, nil
}

// GetAccountByNumber fetches the unique account with that number. It is the
// single read path every other operation depends on.
func (s *Service) GetAccountByNumber(ctx context.Context, number int64) (*domain.Account, error) {
	return s.repo.FindByNumber(ctx, number)
}

// Debit removes amount from the account, subject to the type-specific floor.
// The bonus score is never changed by a debit.
func (s *Service) Debit(ctx context.Context, number, amount int64) (*domain.Account, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	release := s.locks.acquire(number)
	defer release()

	account, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if err := s.checkDebitPolicy(account, amount); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateAccount(ctx, number, domain.AccountPatch{
		Balance: domain.Int64Ptr(account.Balance - amount),
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, rabbitmq.LedgerEvent{
		Operation:     "debited",
		AccountNumber: number,
		Amount:        amount,
		BalanceAfter:  updated.Balance,
	})
	return updated, nil
}

// Credit adds amount to the account. Bonus accounts additionally earn
// floor(amount / CreditBonusDivisor) bonus points.
func (s *Service) Credit(ctx context.Context, number, amount int64) (*domain.Account, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	release := s.locks.acquire(number)
	defer release()

	account, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	patch := domain.AccountPatch{Balance: domain.Int64Ptr(account.Balance + amount)}
	if account.Type == domain.AccountTypeBonus {
		earned := domain.BonusPointsFor(amount, s.cfg.CreditBonusDivisor)
		patch.BonusScore = domain.Int64Ptr(bonusScoreOf(account) + earned)
	}

	updated, err := s.repo.UpdateAccount(ctx, number, patch)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, rabbitmq.LedgerEvent{
		Operation:     "credited",
		AccountNumber: number,
		Amount:        amount,
		BalanceAfter:  updated.Balance,
	})
	return updated, nil
}

// Transfer moves amount between two accounts as a single logical unit. The
// source is subject to the same floor policy as a debit; a Bonus destination
// earns floor(amount / TransferBonusDivisor) points. If the destination write
// fails after the source debit committed, the source debit is reversed before
// the error is returned.
func (s *Service) Transfer(ctx context.Context, fromNumber, toNumber, amount int64) (*domain.TransferResult, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if fromNumber == toNumber {
		return nil, domain.ErrSameAccountTransfer
	}

	release := s.locks.acquire(fromNumber, toNumber)
	defer release()

	fromAccount, err := s.repo.FindByNumber(ctx, fromNumber)
	if err != nil {
		if errorsIsNotFound(err) {
			return nil, fmt.Errorf("%w: from account %d", store.ErrAccountNotFound, fromNumber)
		}
		return nil, err
	}
	toAccount, err := s.repo.FindByNumber(ctx, toNumber)
	if err != nil {
		if errorsIsNotFound(err) {
			return nil, fmt.Errorf("%w: to account %d", store.ErrAccountNotFound, toNumber)
		}
		return nil, err
	}

	if err := s.checkDebitPolicy(fromAccount, amount); err != nil {
		return nil, err
	}

	toPatch := domain.AccountPatch{Balance: domain.Int64Ptr(toAccount.Balance + amount)}
	if toAccount.Type == domain.AccountTypeBonus {
		earned := domain.BonusPointsFor(amount, s.cfg.TransferBonusDivisor)
		toPatch.BonusScore = domain.Int64Ptr(bonusScoreOf(toAccount) + earned)
	}

	updatedFrom, err := s.repo.UpdateAccount(ctx, fromNumber, domain.AccountPatch{
		Balance: domain.Int64Ptr(fromAccount.Balance - amount),
	})
	if err != nil {
		return nil, err
	}

	updatedTo, err := s.repo.UpdateAccount(ctx, toNumber, toPatch)
	if err != nil {
		// Compensate the committed source debit so no observer sees a
		// half-applied transfer.
		if _, compErr := s.repo.UpdateAccount(ctx, fromNumber, domain.AccountPatch{
			Balance: domain.Int64Ptr(fromAccount.Balance),
		}); compErr != nil {
			log.Printf("level=error component=engine msg=\"transfer compensation failed\" from=%d to=%d amount=%d err=%v", fromNumber, toNumber, amount, compErr)
		}
		return nil, err
	}

	s.publishEvent(ctx, rabbitmq.LedgerEvent{
		Operation:          "transferred",
		AccountNumber:      fromNumber,
		CounterpartyNumber: domain.Int64Ptr(toNumber),
		Amount:             amount,
		BalanceAfter:       updatedFrom.Balance,
	})
	return &domain.TransferResult{FromAccount: updatedFrom, ToAccount: updatedTo}, nil
}

// YieldInterestForAccount applies balance * (ratePercent / 100) to any
// account type. A negative rate shrinks the balance; no floor applies.
func (s *Service) YieldInterestForAccount(ctx context.Context, number int64, ratePercent float64) (*domain.Account, error) {
	if ratePercent == 0 {
		return nil, domain.ErrInvalidInterestRate
	}

	release := s.locks.acquire(number)
	defer release()
	return s.yieldInterestLocked(ctx, number, ratePercent)
}

// YieldInterestForAllSavings applies the interest formula to every Saving
// account. Each account update is independent: a failed update is logged and
// skipped, prior updates stay committed (best-effort per-account semantics).
func (s *Service) YieldInterestForAllSavings(ctx context.Context, ratePercent float64) ([]*domain.Account, error) {
	if ratePercent == 0 {
		return nil, domain.ErrInvalidInterestRate
	}

	savings, err := s.repo.FindAllByType(ctx, domain.AccountTypeSaving)
	if err != nil {
		return nil, err
	}

	updated := make([]*domain.Account, 0, len(savings))
	for _, account := range savings {
		release := s.locks.acquire(account.Number)
		result, err := s.yieldInterestLocked(ctx, account.Number, ratePercent)
		release()
		if err != nil {
			log.Printf("level=warn component=engine msg=\"interest accrual skipped\" number=%d rate=%v err=%v", account.Number, ratePercent, err)
			continue
		}
		updated = append(updated, result)
	}
	return updated, nil
}

// yieldInterestLocked re-reads the account under its lock and applies the
// interest formula. Callers must hold the account's lock.
func (s *Service) yieldInterestLocked(ctx context.Context, number int64, ratePercent float64) (*domain.Account, error) {
	account, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	interest := interestFor(account.Balance, ratePercent)
	updated, err := s.repo.UpdateAccount(ctx, number, domain.AccountPatch{
		Balance: domain.Int64Ptr(account.Balance + interest),
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, rabbitmq.LedgerEvent{
		Operation:     "interest_accrued",
		AccountNumber: number,
		Amount:        interest,
		BalanceAfter:  updated.Balance,
	})
	return updated, nil
}

// checkDebitPolicy enforces the type-specific floor before any funds leave an
// account. The switch is exhaustive over the closed type enumeration so a new
// type forces a decision here.
func (s *Service) checkDebitPolicy(account *domain.Account, amount int64) error {
	switch account.Type {
	case domain.AccountTypeSaving:
		if account.Balance-amount < 0 {
			return domain.ErrInsufficientBalance
		}
	case domain.AccountTypeDefault, domain.AccountTypeBonus:
		if account.Balance-amount < s.cfg.OverdraftFloor {
			return fmt.Errorf("%w: amount exceeds maximum allowed negative balance (%d)", domain.ErrOverdraftExceeded, s.cfg.OverdraftFloor)
		}
	default:
		return domain.ErrInvalidAccountType
	}
	return nil
}

// interestFor computes balance * (ratePercent / 100), rounded to the nearest
// currency unit.
func interestFor(balance int64, ratePercent float64) int64 {
	return int64(math.Round(float64(balance) * ratePercent / 100))
}

func bonusScoreOf(account *domain.Account) int64 {
	if account.BonusScore == nil {
		return 0
	}
	return *account.BonusScore
}

// publishEvent emits a committed-operation event. Publishing is best-effort
// and never fails the triggering operation.
func (s *Service) publishEvent(ctx context.Context, event rabbitmq.LedgerEvent) {
	if s.producer == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	if err := s.producer.PublishLedgerEvent(ctx, event); err != nil {
		log.Printf("level=warn component=engine msg=\"ledger event publish failed\" operation=%s account=%d err=%v", event.Operation, event.AccountNumber, err)
	}
}

func errorsIsNotFound(err error) bool {
	return errors.Is(err, store.ErrAccountNotFound)
}
