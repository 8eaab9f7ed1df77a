package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/transfa/ledger-service/internal/app"
	"github.com/transfa/ledger-service/internal/domain"
	"github.com/transfa/ledger-service/internal/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	service := app.NewService(store.NewMemoryRepository(), nil, app.Config{})
	server := httptest.NewServer(AccountRoutes(NewAccountHandlers(service), 0))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func decodeAccount(t *testing.T, resp *http.Response) domain.Account {
	t.Helper()
	defer resp.Body.Close()
	var account domain.Account
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		t.Fatalf("decode account failed: %v", err)
	}
	return account
}

func createAccount(t *testing.T, server *httptest.Server, number int64, accountType string, balance int64) {
	t.Helper()
	resp := postJSON(t, server.URL+"/", domain.CreateAccountRequest{Number: number, Type: accountType, Balance: balance})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create account %d: expected 201, got %d", number, resp.StatusCode)
	}
}

func TestCreateAccountEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/", domain.CreateAccountRequest{Number: 1, Type: "Bonus", Balance: 0})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	account := decodeAccount(t, resp)
	if account.Number != 1 || account.Type != domain.AccountTypeBonus {
		t.Errorf("unexpected account: %+v", account)
	}
	if account.BonusScore == nil || *account.BonusScore != domain.InitialBonusScore {
		t.Errorf("expected initial bonus score, got %v", account.BonusScore)
	}

	// Duplicate number conflicts.
	resp = postJSON(t, server.URL+"/", domain.CreateAccountRequest{Number: 1, Type: "Default", Balance: 100})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate number, got %d", resp.StatusCode)
	}
}

func TestCreateAccountEndpoint_BadRequests(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name string
		body domain.CreateAccountRequest
	}{
		{name: "missing number", body: domain.CreateAccountRequest{Type: "Default", Balance: 100}},
		{name: "unknown type", body: domain.CreateAccountRequest{Number: 2, Type: "Gold", Balance: 100}},
		{name: "default zero balance", body: domain.CreateAccountRequest{Number: 3, Type: "Default"}},
		{name: "saving zero balance", body: domain.CreateAccountRequest{Number: 4, Type: "Saving"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, server.URL+"/", tt.body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestGetAccountEndpoint(t *testing.T) {
	server := newTestServer(t)
	createAccount(t, server, 10, "Default", 750)

	resp, err := http.Get(server.URL + "/10")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	account := decodeAccount(t, resp)
	if account.Number != 10 || account.Balance != 750 {
		t.Errorf("unexpected account: %+v", account)
	}

	resp, err = http.Get(server.URL + "/99")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown account, got %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/not-a-number")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed number, got %d", resp.StatusCode)
	}
}

func TestGetBalanceEndpoint(t *testing.T) {
	server := newTestServer(t)
	createAccount(t, server, 10, "Saving", 300)

	resp, err := http.Get(server.URL + "/10/balance")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.Number != 10 || body.Balance != 300 {
		t.Errorf("unexpected balance body: %+v", body)
	}
}

func TestDebitEndpoint(t *testing.T) {
	server := newTestServer(t)
	createAccount(t, server, 1, "Default", 1000)

	resp := postJSON(t, server.URL+"/1/debit", domain.AmountRequest{Amount: 2000})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	account := decodeAccount(t, resp)
	if account.Balance != -1000 {
		t.Errorf("expected balance -1000, got %d", account.Balance)
	}

	// One unit past the floor is a policy violation.
	resp = postJSON(t, server.URL+"/1/debit", domain.AmountRequest{Amount: 1})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 past the overdraft floor, got %d", resp.StatusCode)
	}

	resp = postJSON(t, server.URL+"/1/debit", domain.AmountRequest{Amount: -5})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for negative amount, got %d", resp.StatusCode)
	}
}

func TestCreditEndpoint(t *testing.T) {
	server := newTestServer(t)
	createAccount(t, server, 3, "Bonus", 0)

	resp := postJSON(t, server.URL+"/3/credit", domain.AmountRequest{Amount: 250})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	account := decodeAccount(t, resp)
	if account.Balance != 250 {
		t.Errorf("expected balance 250, got %d", account.Balance)
	}
	if account.BonusScore == nil || *account.BonusScore != 12 {
		t.Errorf("expected bonus score 12, got %v", account.BonusScore)
	}
}

func TestTransferEndpoint(t *testing.T) {
	server := newTestServer(t)
	createAccount(t, server, 1, "Default", 1000)
	createAccount(t, server, 2, "Saving", 100)

	resp := postJSON(t, server.URL+"/transfer", domain.TransferRequest{From: 1, To: 2, Amount: 400})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result domain.TransferResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	resp.Body.Close()
	if result.FromAccount.Balance != 600 {
		t.Errorf("expected source balance 600, got %d", result.FromAccount.Balance)
	}
	if result.ToAccount.Balance != 500 {
		t.Errorf("expected destination balance 500, got %d", result.ToAccount.Balance)
	}
}

func TestTransferEndpoint_Errors(t *testing.T) {
	server := newTestServer(t)
	createAccount(t, server, 1, "Default", 1000)
	createAccount(t, server, 2, "Default", 100)

	tests := []struct {
		name       string
		body       domain.TransferRequest
		wantStatus int
	}{
		{name: "missing destination", body: domain.TransferRequest{From: 1, Amount: 100}, wantStatus: http.StatusBadRequest},
		{name: "non-positive amount", body: domain.TransferRequest{From: 1, To: 2, Amount: 0}, wantStatus: http.StatusBadRequest},
		{name: "same account", body: domain.TransferRequest{From: 1, To: 1, Amount: 100}, wantStatus: http.StatusBadRequest},
		{name: "unknown source", body: domain.TransferRequest{From: 99, To: 2, Amount: 100}, wantStatus: http.StatusNotFound},
		{name: "unknown destination", body: domain.TransferRequest{From: 1, To: 99, Amount: 100}, wantStatus: http.StatusNotFound},
		{name: "overdraft breach", body: domain.TransferRequest{From: 1, To: 2, Amount: 2001}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, server.URL+"/transfer", tt.body)
			resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, resp.StatusCode)
			}
		})
	}
}

func TestYieldInterestEndpoint(t *testing.T) {
	server := newTestServer(t)
	createAccount(t, server, 5, "Saving", 1000)

	resp := postJSON(t, server.URL+"/5/yield-interest", domain.InterestRequest{Rate: 10})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	account := decodeAccount(t, resp)
	if account.Balance != 1100 {
		t.Errorf("expected balance 1100, got %d", account.Balance)
	}

	resp = postJSON(t, server.URL+"/5/yield-interest", domain.InterestRequest{Rate: 0})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for zero rate, got %d", resp.StatusCode)
	}
}

func TestYieldSavingsInterestEndpoint(t *testing.T) {
	server := newTestServer(t)
	createAccount(t, server, 1, "Saving", 1000)
	createAccount(t, server, 2, "Saving", 500)
	createAccount(t, server, 3, "Default", 1000)

	resp := postJSON(t, server.URL+"/savings/yield-interest", domain.InterestRequest{Rate: 10})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var accounts []domain.Account
	if err := json.NewDecoder(resp.Body).Decode(&accounts); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	resp.Body.Close()
	if len(accounts) != 2 {
		t.Fatalf("expected 2 updated accounts, got %d", len(accounts))
	}

	// The default account is untouched.
	getResp, err := http.Get(fmt.Sprintf("%s/3", server.URL))
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	account := decodeAccount(t, getResp)
	if account.Balance != 1000 {
		t.Errorf("default account must be untouched, got %d", account.Balance)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}
