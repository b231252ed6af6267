package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"kopilka/internal/core"
)

// Payloads are typed and validated at the boundary; a free-form body is
// rejected, not echoed back.
type expenseRequest struct {
	UserID   int64  `json:"user_id"`
	Amount   int64  `json:"amount"`
	Category string `json:"category"`
}

func (r expenseRequest) validate() error {
	if r.UserID <= 0 {
		return errors.New("user_id must be a positive integer")
	}
	if r.Amount <= 0 {
		return core.ErrInvalidAmount
	}
	if !core.ValidCategory(r.Category) {
		return core.ErrUnknownCategory
	}
	return nil
}

type incomeRequest struct {
	UserID int64 `json:"user_id"`
	Amount int64 `json:"amount"`
}

func (r incomeRequest) validate() error {
	if r.UserID <= 0 {
		return errors.New("user_id must be a positive integer")
	}
	if r.Amount <= 0 {
		return core.ErrInvalidAmount
	}
	return nil
}

type messageRequest struct {
	UserID int64  `json:"user_id"`
	Text   string `json:"text"`
}

type actionRequest struct {
	UserID int64  `json:"user_id"`
	Action string `json:"action"`
}

type startRequest struct {
	UserID int64 `json:"user_id"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "API is running"})
}

func (s *Server) handleExpense(w http.ResponseWriter, r *http.Request) {
	if !requirePOST(w, r) {
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		return
	}

	if err := s.ledger.RegisterUser(r.Context(), req.UserID); err != nil {
		s.storageFailure(w, r, "register user", err)
		return
	}
	if _, err := s.ledger.AddExpense(r.Context(), req.UserID, req.Amount, req.Category); err != nil {
		s.storageFailure(w, r, "add expense", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"amount":   req.Amount,
		"category": req.Category,
	})
}

func (s *Server) handleIncome(w http.ResponseWriter, r *http.Request) {
	if !requirePOST(w, r) {
		return
	}

	var req incomeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	if err := req.validate(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		return
	}

	if err := s.ledger.RegisterUser(r.Context(), req.UserID); err != nil {
		s.storageFailure(w, r, "register user", err)
		return
	}
	if _, err := s.ledger.AddIncome(r.Context(), req.UserID, req.Amount); err != nil {
		s.storageFailure(w, r, "add income", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"amount": req.Amount,
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if !requirePOST(w, r) {
		return
	}

	var req startRequest
	if err := decodeJSON(r, &req); err != nil || req.UserID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}

	resp, err := s.conversation.Greet(r.Context(), req.UserID)
	if err != nil {
		s.storageFailure(w, r, "greet", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleMessage runs one free-text conversation turn for a transport
// adapter.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	if !requirePOST(w, r) {
		return
	}

	var req messageRequest
	if err := decodeJSON(r, &req); err != nil || req.UserID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}

	if err := s.ledger.RegisterUser(r.Context(), req.UserID); err != nil {
		s.storageFailure(w, r, "register user", err)
		return
	}

	resp, err := s.conversation.HandleText(r.Context(), req.UserID, req.Text)
	if err != nil {
		s.storageFailure(w, r, "handle text", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAction runs one menu-action turn.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if !requirePOST(w, r) {
		return
	}

	var req actionRequest
	if err := decodeJSON(r, &req); err != nil || req.UserID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}

	if err := s.ledger.RegisterUser(r.Context(), req.UserID); err != nil {
		s.storageFailure(w, r, "register user", err)
		return
	}

	resp, err := s.conversation.HandleAction(r.Context(), req.UserID, req.Action)
	if err != nil {
		s.storageFailure(w, r, "handle action", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// storageFailure logs the real error and reports a generic one; the process
// keeps serving.
func (s *Server) storageFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	slog.ErrorContext(r.Context(), "Storage operation failed",
		"operation", op, "url", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
}

func requirePOST(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
		return false
	}
	return true
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorBody(msg string) map[string]any {
	return map[string]any{"ok": false, "error": msg}
}
