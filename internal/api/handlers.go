/**
 * @description
 * This file contains the HTTP handlers for the ledger-service's API
 * endpoints. Handlers parse incoming requests, call the transaction engine,
 * and write the HTTP response, mapping engine error kinds to status codes.
 * They are the bridge between the web layer and the business logic layer.
 *
 * @dependencies
 * - encoding/json, log, net/http: Standard Go libraries.
 * - github.com/go-chi/chi/v5: For URL parameter extraction.
 * - internal/app, internal/domain, internal/store: For engine logic, models, and custom errors.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/transfa/ledger-service/internal/app"
	"github.com/transfa/ledger-service/internal/domain"
	"github.com/transfa/ledger-service/internal/store"
)

// AccountHandlers holds the transaction engine that handlers will use.
type AccountHandlers struct {
	service *app.Service
}

// NewAccountHandlers creates a new instance of AccountHandlers.
func NewAccountHandlers(service *app.Service) *AccountHandlers {
	return &AccountHandlers{service: service}
}

type errorResponse struct {
	Error string `json:"error"`
}

type balanceResponse struct {
	Number  int64 `json:"number"`
	Balance int64 `json:"balance"`
}

func (h *AccountHandlers) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("level=error component=api msg=\"response encode failed\" err=%v", err)
	}
}

func (h *AccountHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps engine error kinds to transport status codes:
// invalid input and policy violations → 400, missing accounts → 404,
// duplicate numbers → 409, everything else → 500.
func (h *AccountHandlers) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrAccountNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrAccountExists):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidAccountType),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidInterestRate),
		errors.Is(err, domain.ErrInitialBalanceRequired),
		errors.Is(err, domain.ErrSameAccountTransfer),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrOverdraftExceeded):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("level=error component=api msg=\"unhandled service error\" err=%v", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func accountNumberParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "number"), 10, 64)
}

// CreateAccountHandler handles requests to open a new account.
func (h *AccountHandlers) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Number == 0 {
		h.writeError(w, http.StatusBadRequest, "account number is required")
		return
	}

	account, err := h.service.CreateAccount(r.Context(), req.Number, req.Type, req.Balance)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	log.Printf("level=info component=api endpoint=create_account outcome=created number=%d type=%s", account.Number, account.Type)
	h.writeJSON(w, http.StatusCreated, account)
}

// GetAccountHandler returns the full account record for a number.
func (h *AccountHandlers) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	number, err := accountNumberParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid account number")
		return
	}

	account, err := h.service.GetAccountByNumber(r.Context(), number)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, account)
}

// GetBalanceHandler returns only the balance for a number.
func (h *AccountHandlers) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	number, err := accountNumberParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid account number")
		return
	}

	account, err := h.service.GetAccountByNumber(r.Context(), number)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, balanceResponse{Number: account.Number, Balance: account.Balance})
}

// DebitHandler handles requests to debit an account.
func (h *AccountHandlers) DebitHandler(w http.ResponseWriter, r *http.Request) {
	number, err := accountNumberParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid account number")
		return
	}

	var req domain.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount <= 0 {
		h.writeError(w, http.StatusBadRequest, "amount must be a positive number")
		return
	}

	account, err := h.service.Debit(r.Context(), number, req.Amount)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	log.Printf("level=info component=api endpoint=debit outcome=ok number=%d amount=%d balance=%d", number, req.Amount, account.Balance)
	h.writeJSON(w, http.StatusOK, account)
}

// CreditHandler handles requests to credit an account.
func (h *AccountHandlers) CreditHandler(w http.ResponseWriter, r *http.Request) {
	number, err := accountNumberParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid account number")
		return
	}

	var req domain.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount <= 0 {
		h.writeError(w, http.StatusBadRequest, "amount must be a positive number")
		return
	}

	account, err := h.service.Credit(r.Context(), number, req.Amount)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	log.Printf("level=info component=api endpoint=credit outcome=ok number=%d amount=%d balance=%d", number, req.Amount, account.Balance)
	h.writeJSON(w, http.StatusOK, account)
}

// TransferHandler handles requests to move funds between two accounts.
func (h *AccountHandlers) TransferHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.To == 0 {
		h.writeError(w, http.StatusBadRequest, "destination account number is required")
		return
	}
	if req.Amount <= 0 {
		h.writeError(w, http.StatusBadRequest, "amount must be a positive number")
		return
	}

	result, err := h.service.Transfer(r.Context(), req.From, req.To, req.Amount)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	log.Printf("level=info component=api endpoint=transfer outcome=ok from=%d to=%d amount=%d", req.From, req.To, req.Amount)
	h.writeJSON(w, http.StatusOK, result)
}

// YieldInterestHandler applies an interest rate to a single account.
func (h *AccountHandlers) YieldInterestHandler(w http.ResponseWriter, r *http.Request) {
	number, err := accountNumberParam(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid account number")
		return
	}

	var req domain.InterestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := h.service.YieldInterestForAccount(r.Context(), number, req.Rate)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	log.Printf("level=info component=api endpoint=yield_interest outcome=ok number=%d rate=%v balance=%d", number, req.Rate, account.Balance)
	h.writeJSON(w, http.StatusOK, account)
}

// YieldSavingsInterestHandler applies an interest rate to every Saving account.
func (h *AccountHandlers) YieldSavingsInterestHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.InterestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accounts, err := h.service.YieldInterestForAllSavings(r.Context(), req.Rate)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	log.Printf("level=info component=api endpoint=yield_savings_interest outcome=ok rate=%v updated=%d", req.Rate, len(accounts))
	h.writeJSON(w, http.StatusOK, accounts)
}
