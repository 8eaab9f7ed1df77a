package app

import (
	"context"
	"sync"
	"testing"
)

func TestConcurrentCreditsAndDebits(t *testing.T) {
	s, _ := newTestService(t)
	mustCreate(t, s, 1, "Default", 10000)

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(2 * workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := s.Credit(context.Background(), 1, 10); err != nil {
				t.Errorf("concurrent credit failed: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := s.Debit(context.Background(), 1, 10); err != nil {
				t.Errorf("concurrent debit failed: %v", err)
			}
		}()
	}
	wg.Wait()

	account, err := s.GetAccountByNumber(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetAccountByNumber failed: %v", err)
	}
	if account.Balance != 10000 {
		t.Errorf("equal credits and debits must cancel out, got balance %d", account.Balance)
	}
}

func TestConcurrentOpposingTransfers(t *testing.T) {
	s, _ := newTestService(t)
	mustCreate(t, s, 1, "Default", 5000)
	mustCreate(t, s, 2, "Default", 5000)

	// Transfers in both directions at once: the ordered lock acquisition must
	// neither deadlock nor lose an update.
	const rounds = 25
	var wg sync.WaitGroup
	wg.Add(2 * rounds)
	for i := 0; i < rounds; i++ {
		go func() {
			defer wg.Done()
			if _, err := s.Transfer(context.Background(), 1, 2, 10); err != nil {
				t.Errorf("transfer 1->2 failed: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := s.Transfer(context.Background(), 2, 1, 10); err != nil {
				t.Errorf("transfer 2->1 failed: %v", err)
			}
		}()
	}
	wg.Wait()

	first, _ := s.GetAccountByNumber(context.Background(), 1)
	second, _ := s.GetAccountByNumber(context.Background(), 2)
	if total := first.Balance + second.Balance; total != 10000 {
		t.Errorf("total balance must be conserved, got %d", total)
	}
	if first.Balance != 5000 || second.Balance != 5000 {
		t.Errorf("opposing transfers must cancel out, got %d and %d", first.Balance, second.Balance)
	}
}
