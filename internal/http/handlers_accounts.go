package http

import (
	"net/http"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/store"
	"fintrack/internal/views"
)

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	state := s.store.State()
	writeJSON(w, http.StatusOK, views.AccountSummaries(state))
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, store.CmdAddAccount, err)
		return
	}
	account, err := req.toAccount(s.ids.NewID())
	if err != nil {
		respondError(w, r, store.CmdAddAccount, err)
		return
	}
	s.saveAccount(w, r, store.AddAccount{Account: account}, account, http.StatusCreated)
}

// handleUpdateAccount replaces the account named in the path. Transactions
// referencing it keep their reference.
func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, store.CmdUpdateAccount, err)
		return
	}
	account, err := req.toAccount(r.PathValue("id"))
	if err != nil {
		respondError(w, r, store.CmdUpdateAccount, err)
		return
	}
	s.saveAccount(w, r, store.UpdateAccount{Account: account}, account, http.StatusOK)
}

// handleDeleteAccount removes the account and every transaction that
// references it.
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	res, ok := s.submit(w, r, store.DeleteAccount{ID: id})
	if !ok {
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Account deleted",
		applog.FieldAccountID, id)
	writeJSON(w, http.StatusOK, commandResponse{
		Revision:  res.revision,
		Persisted: res.persisted,
		DeletedID: id,
	})
}

func (s *Server) saveAccount(w http.ResponseWriter, r *http.Request, cmd store.Command, account core.Account, status int) {
	res, ok := s.submit(w, r, cmd)
	if !ok {
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Account saved",
		applog.FieldOperation, cmd.Name(),
		applog.FieldAccountID, account.ID,
		"currency", account.Currency)
	writeJSON(w, status, commandResponse{
		Revision:  res.revision,
		Persisted: res.persisted,
		Data: views.AccountSummary{
			Account: account,
			Balance: views.AccountBalance(res.state, account.ID),
		},
	})
}
