/**
 * @description
 * Data transfer objects for the ledger-service HTTP API. Using distinct types
 * for API requests and persisted entities keeps the web layer's shapes out of
 * the engine and the store.
 */

package domain

// CreateAccountRequest is the payload for opening a new account.
type CreateAccountRequest struct {
	Number  int64  `json:"number"`
	Type    string `json:"type"`
	Balance int64  `json:"balance"`
}

// AmountRequest is the payload for debit and credit operations.
type AmountRequest struct {
	Amount int64 `json:"amount"`
}

// TransferRequest is the payload for moving funds between two accounts.
type TransferRequest struct {
	From   int64 `json:"from"`
	To     int64 `json:"to"`
	Amount int64 `json:"amount"`
}

// InterestRequest is the payload for interest accrual operations.
type InterestRequest struct {
	Rate float64 `json:"rate"`
}

// TransferResult carries both updated sides of a committed transfer.
type TransferResult struct {
	FromAccount *Account `json:"from_account"`
	ToAccount   *Account `json:"to_account"`
}
