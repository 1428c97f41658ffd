package http

import (
	"net/http"
	"strings"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/store"
	"fintrack/internal/views"
)

// handleListTransactions lists transactions most recent first. The optional
// accountId and type query parameters filter the rows.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	accountID := sanitizeInput(r.URL.Query().Get("accountId"))
	txType := core.TransactionType(strings.ToLower(sanitizeInput(r.URL.Query().Get("type"))))
	if txType != "" && !txType.IsValid() {
		respondError(w, r, "list_transactions", core.ErrInvalidType)
		return
	}

	rows := views.TransactionRows(s.store.State())
	filtered := rows[:0]
	for _, row := range rows {
		if accountID != "" && row.AccountID != accountID {
			continue
		}
		if txType != "" && row.Type != txType {
			continue
		}
		filtered = append(filtered, row)
	}
	writeJSON(w, http.StatusOK, filtered)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, store.CmdAddTransaction, err)
		return
	}
	tx, err := req.toTransaction(s.ids.NewID(), core.DateOf(s.now()))
	if err != nil {
		respondError(w, r, store.CmdAddTransaction, err)
		return
	}
	s.saveTransaction(w, r, store.AddTransaction{Transaction: tx}, tx, http.StatusCreated)
}

// handleUpdateTransaction replaces the transaction named in the path. An
// omitted date keeps the stored one.
func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, store.CmdUpdateTransaction, err)
		return
	}
	id := r.PathValue("id")
	date := core.DateOf(s.now())
	if stored, ok := s.store.State().FindTransaction(id); ok {
		date = stored.Date
	}
	tx, err := req.toTransaction(id, date)
	if err != nil {
		respondError(w, r, store.CmdUpdateTransaction, err)
		return
	}
	s.saveTransaction(w, r, store.UpdateTransaction{Transaction: tx}, tx, http.StatusOK)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	res, ok := s.submit(w, r, store.DeleteTransaction{ID: id})
	if !ok {
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Transaction deleted",
		applog.FieldEntityID, id)
	writeJSON(w, http.StatusOK, commandResponse{
		Revision:  res.revision,
		Persisted: res.persisted,
		DeletedID: id,
	})
}

func (s *Server) saveTransaction(w http.ResponseWriter, r *http.Request, cmd store.Command, tx core.Transaction, status int) {
	res, ok := s.submit(w, r, cmd)
	if !ok {
		return
	}
	sl := applog.NewStructuredLogger(applog.FromContext(r.Context()))
	sl.LogTransactionSaved(r.Context(), cmd.Name(), tx.ID, string(tx.Type),
		core.FormatAmount(tx.Amount), tx.Category, tx.AccountID)

	writeJSON(w, status, commandResponse{
		Revision:  res.revision,
		Persisted: res.persisted,
		Data:      tx,
	})
}
