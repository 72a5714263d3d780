package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/acmeadmin/internal/common"
	"github.com/dmitrijs2005/acmeadmin/internal/server/actions"
	"github.com/dmitrijs2005/acmeadmin/internal/server/auth"
)

const defaultListLimit = 20

// --- invoice mutations ---

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed form data"})
		return
	}
	res := s.invoiceActions.CreateInvoice(r.Context(), actions.FormState{}, r.PostForm)
	s.writeResult(w, r, res)
}

func (s *Server) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(":id")
	if err := r.ParseForm(); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed form data"})
		return
	}
	res := s.invoiceActions.UpdateInvoice(r.Context(), id, actions.FormState{}, r.PostForm)
	s.writeResult(w, r, res)
}

func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(":id")
	if err := s.invoiceActions.DeleteInvoice(r.Context(), id); err != nil {
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
		return
	}
	s.logger.Info(r.Context(), "invoice deleted", "id", id, "operator", UserID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// --- invoice and customer reads ---

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	invoices, err := s.invoices.ListLatest(r.Context(), limit)
	if err != nil {
		s.logger.Error(r.Context(), "failed to list invoices", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
		return
	}

	views := make([]invoiceView, 0, len(invoices))
	for _, inv := range invoices {
		views = append(views, toInvoiceView(inv))
	}
	s.writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(":id")

	inv, err := s.invoices.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.writeJSON(w, http.StatusNotFound, map[string]string{"message": "invoice not found"})
			return
		}
		s.logger.Error(r.Context(), "failed to get invoice", "id", id, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
		return
	}
	s.writeJSON(w, http.StatusOK, toInvoiceView(inv))
}

func (s *Server) handleListCustomerInvoices(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get(":id")

	invoices, err := s.invoices.ListByCustomer(r.Context(), customerID)
	if err != nil {
		s.logger.Error(r.Context(), "failed to list customer invoices", "customer", customerID, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
		return
	}

	views := make([]invoiceView, 0, len(invoices))
	for _, inv := range invoices {
		views = append(views, toInvoiceView(inv))
	}
	s.writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.invoices.ListCustomers(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "failed to list customers", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
		return
	}
	views := make([]customerView, 0, len(customers))
	for _, c := range customers {
		views = append(views, toCustomerView(c))
	}
	s.writeJSON(w, http.StatusOK, views)
}

// --- receipts ---

func (s *Server) handleReceiptUpload(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(":id")

	key, url, err := s.invoices.GetReceiptUploadURL(r.Context(), id)
	if err != nil {
		s.logger.Error(r.Context(), "failed to presign receipt upload", "id", id, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"key": key, "url": url})
}

func (s *Server) handleReceiptDownload(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(":id")

	url, err := s.invoices.GetReceiptDownloadURL(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.writeJSON(w, http.StatusNotFound, map[string]string{"message": "no receipt attached"})
			return
		}
		s.logger.Error(r.Context(), "failed to presign receipt download", "id", id, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// --- session ---

func (s *Server) hasValidSession(r *http.Request) bool {
	token := sessionToken(r)
	if token == "" {
		return false
	}
	_, err := auth.GetUserIDFromToken(token, []byte(s.cfg.SecretKey))
	return err == nil
}

// handleLoginPage applies the dashboard's authorization rule to the login
// page itself: an operator with a live session is sent straight to the
// dashboard, everyone else may submit credentials.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s.hasValidSession(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	// An operator who already holds a valid session has no business on the
	// login page.
	if s.hasValidSession(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"message": "malformed form data"})
		return
	}

	pair, msg, err := s.authActions.Authenticate(r.Context(), actions.FormState{}, r.PostForm)
	if err != nil {
		s.logger.Error(r.Context(), "authentication failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
		return
	}
	if msg != "" {
		s.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": msg})
		return
	}

	s.setSessionCookies(w, pair)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookies(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleRefreshSession(w http.ResponseWriter, r *http.Request) {
	var refresh string
	if c, err := r.Cookie(refreshCookie); err == nil {
		refresh = c.Value
	}
	if refresh == "" {
		s.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "missing refresh token"})
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), refresh)
	if err != nil {
		if errors.Is(err, common.ErrRefreshTokenExpired) {
			s.clearSessionCookies(w)
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "session expired"})
			return
		}
		s.logger.Error(r.Context(), "failed to refresh session", "error", err)
		s.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid refresh token"})
		return
	}

	s.setSessionCookies(w, pair)
	s.writeJSON(w, http.StatusOK, map[string]string{"accessToken": pair.AccessToken})
}
