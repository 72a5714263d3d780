// Package httpapi exposes the dashboard actions over HTTP. Forms are
// submitted as application/x-www-form-urlencoded; successful mutations
// answer with a 303 redirect, failures re-render by returning the form
// state as JSON.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrijs2005/acmeadmin/internal/logging"
	"github.com/dmitrijs2005/acmeadmin/internal/server/actions"
	"github.com/dmitrijs2005/acmeadmin/internal/server/config"
	"github.com/dmitrijs2005/acmeadmin/internal/server/models"
	"github.com/dmitrijs2005/acmeadmin/internal/server/services"
)

// Cookie names for the browser session.
const (
	sessionCookie = "session"
	refreshCookie = "refresh_token"
)

type Server struct {
	cfg            *config.Config
	logger         logging.Logger
	invoiceActions *actions.InvoiceActions
	authActions    *actions.AuthActions
	invoices       *services.InvoiceService
	users          *services.UserService
}

func NewServer(cfg *config.Config, logger logging.Logger, invoiceActions *actions.InvoiceActions,
	authActions *actions.AuthActions, invoices *services.InvoiceService, users *services.UserService) *Server {
	return &Server{
		cfg:            cfg,
		logger:         logger,
		invoiceActions: invoiceActions,
		authActions:    authActions,
		invoices:       invoices,
		users:          users,
	}
}

// invoiceView is the JSON shape of an invoice; amounts go back out in
// dollars, dates as YYYY-MM-DD.
type invoiceView struct {
	ID         string  `json:"id"`
	CustomerID string  `json:"customerId"`
	Amount     float64 `json:"amount"`
	Status     string  `json:"status"`
	Date       string  `json:"date"`
	ReceiptKey string  `json:"receiptKey,omitempty"`
}

func toInvoiceView(inv *models.Invoice) invoiceView {
	return invoiceView{
		ID:         inv.ID,
		CustomerID: inv.CustomerID,
		Amount:     float64(inv.AmountCents) / 100,
		Status:     inv.Status,
		Date:       inv.Date.Format("2006-01-02"),
		ReceiptKey: inv.ReceiptKey,
	}
}

type customerView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"imageUrl,omitempty"`
}

func toCustomerView(c *models.Customer) customerView {
	return customerView{ID: c.ID, Name: c.Name, Email: c.Email, ImageURL: c.ImageURL}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(context.Background(), "failed to encode response", "error", err)
	}
}

// writeResult maps an action outcome onto the wire: a redirect becomes
// 303 See Other, a form with field errors comes back as 422 with the
// state to re-render. A form carrying only a message means the input
// was fine and persistence failed, which is a 500.
func (s *Server) writeResult(w http.ResponseWriter, r *http.Request, res actions.Result) {
	if res.IsRedirect() {
		http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
		return
	}
	status := http.StatusUnprocessableEntity
	if len(res.Form.Errors) == 0 && res.Form.Message != "" {
		status = http.StatusInternalServerError
	}
	s.writeJSON(w, status, res.Form)
}

func (s *Server) setSessionCookies(w http.ResponseWriter, pair *services.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(s.cfg.AccessTokenValidityDuration),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    pair.RefreshToken,
		Path:     "/api/session",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(s.cfg.RefreshTokenValidityDuration),
	})
}

func (s *Server) clearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", HttpOnly: true, MaxAge: -1})
	http.SetCookie(w, &http.Cookie{Name: refreshCookie, Value: "", Path: "/api/session", HttpOnly: true, MaxAge: -1})
}
