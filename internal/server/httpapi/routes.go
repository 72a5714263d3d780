package httpapi

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
	"github.com/rs/cors"
)

// Routes assembles the router with its middleware chains. Dashboard routes
// demand a session; the session endpoints do not.
func (s *Server) Routes() http.Handler {
	standard := alice.New(s.recoverPanic, s.logRequest, secureHeaders)
	session := standard.Append(s.requireSession)

	mux := pat.New()

	mux.Get("/login", standard.ThenFunc(s.handleLoginPage))
	mux.Post("/login", standard.ThenFunc(s.handleLogin))
	mux.Post("/logout", standard.ThenFunc(s.handleLogout))
	mux.Post("/api/session/refresh", standard.ThenFunc(s.handleRefreshSession))

	mux.Post("/dashboard/invoices/:id/receipt", session.ThenFunc(s.handleReceiptUpload))
	mux.Get("/dashboard/invoices/:id/receipt", session.ThenFunc(s.handleReceiptDownload))
	mux.Post("/dashboard/invoices/:id/delete", session.ThenFunc(s.handleDeleteInvoice))
	mux.Post("/dashboard/invoices/:id", session.ThenFunc(s.handleUpdateInvoice))
	mux.Get("/dashboard/invoices/:id", session.ThenFunc(s.handleGetInvoice))
	mux.Post("/dashboard/invoices", session.ThenFunc(s.handleCreateInvoice))
	mux.Get("/dashboard/invoices", session.ThenFunc(s.handleListInvoices))
	mux.Get("/dashboard/customers/:id/invoices", session.ThenFunc(s.handleListCustomerInvoices))
	mux.Get("/dashboard/customers", session.ThenFunc(s.handleListCustomers))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{s.cfg.AllowedOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(mux)
}
