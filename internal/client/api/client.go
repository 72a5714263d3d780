// Package api is the HTTP client for the dashboard API used by the admin
// CLI. Mutations are submitted the same way the browser submits them, as
// form posts; a 303 answer means success, a 422 answer carries the form
// state to show the operator.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrUnauthorized is returned when the server rejects the session. The CLI
// prompts for a new login.
var ErrUnauthorized = errors.New("unauthorized")

type Invoice struct {
	ID         string  `json:"id"`
	CustomerID string  `json:"customerId"`
	Amount     float64 `json:"amount"`
	Status     string  `json:"status"`
	Date       string  `json:"date"`
	ReceiptKey string  `json:"receiptKey,omitempty"`
}

type Customer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// FormError is a rejected mutation: field messages and/or a top-level one.
type FormError struct {
	Errors  map[string][]string `json:"errors,omitempty"`
	Message string              `json:"message,omitempty"`
}

func (e *FormError) Error() string {
	var b strings.Builder
	if e.Message != "" {
		b.WriteString(e.Message)
	}
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		for _, msg := range e.Errors[f] {
			fmt.Fprintf(&b, "\n  %s: %s", f, msg)
		}
	}
	return b.String()
}

type Client struct {
	http  *resty.Client
	token string
}

func New(baseURL string, timeout time.Duration) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(req *http.Request, via []*http.Request) error {
			// Redirects are outcomes, not destinations to follow.
			return http.ErrUseLastResponse
		}))
	return &Client{http: rc}
}

// IsLoggedIn reports whether a session token is held.
func (c *Client) IsLoggedIn() bool { return c.token != "" }

func (c *Client) request(ctx context.Context) *resty.Request {
	r := c.http.R().SetContext(ctx)
	if c.token != "" {
		r.SetHeader("Authorization", "Bearer "+c.token)
	}
	return r
}

func decodeMessage(resp *resty.Response) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil || body.Message == "" {
		return fmt.Sprintf("unexpected response: %s", resp.Status())
	}
	return body.Message
}

// Login authenticates against the server and keeps the session token for
// subsequent requests.
func (c *Client) Login(ctx context.Context, email, password string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{"email": email, "password": password}).
		Post("/login")
	if err != nil {
		return err
	}

	if resp.StatusCode() != http.StatusSeeOther {
		return errors.New(decodeMessage(resp))
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "session" && cookie.Value != "" {
			c.token = cookie.Value
			return nil
		}
	}
	return errors.New("server did not issue a session")
}

// Logout drops the session.
func (c *Client) Logout(ctx context.Context) {
	if c.token == "" {
		return
	}
	_, _ = c.request(ctx).Post("/logout")
	c.token = ""
}

// mutate posts form data and classifies the outcome.
func (c *Client) mutate(ctx context.Context, path string, form map[string]string, successCode int) error {
	req := c.request(ctx)
	if form != nil {
		req.SetFormData(form)
	}
	resp, err := req.Post(path)
	if err != nil {
		return err
	}

	switch resp.StatusCode() {
	case successCode:
		return nil
	case http.StatusUnprocessableEntity:
		formErr := &FormError{}
		if err := json.Unmarshal(resp.Body(), formErr); err != nil {
			return fmt.Errorf("unexpected response: %s", resp.Status())
		}
		return formErr
	case http.StatusUnauthorized, http.StatusSeeOther:
		// dashboard routes answer an expired session with a redirect to /login
		return ErrUnauthorized
	default:
		return errors.New(decodeMessage(resp))
	}
}

func (c *Client) CreateInvoice(ctx context.Context, customerID, amount, status string) error {
	return c.mutate(ctx, "/dashboard/invoices",
		map[string]string{"customerId": customerID, "amount": amount, "status": status},
		http.StatusSeeOther)
}

func (c *Client) UpdateInvoice(ctx context.Context, id, customerID, amount, status string) error {
	return c.mutate(ctx, "/dashboard/invoices/"+id,
		map[string]string{"customerId": customerID, "amount": amount, "status": status},
		http.StatusSeeOther)
}

func (c *Client) DeleteInvoice(ctx context.Context, id string) error {
	return c.mutate(ctx, "/dashboard/invoices/"+id+"/delete", nil, http.StatusNoContent)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.request(ctx).Get(path)
	if err != nil {
		return err
	}
	switch resp.StatusCode() {
	case http.StatusOK:
		return json.Unmarshal(resp.Body(), out)
	case http.StatusUnauthorized, http.StatusSeeOther:
		return ErrUnauthorized
	default:
		return errors.New(decodeMessage(resp))
	}
}

func (c *Client) ListInvoices(ctx context.Context, limit int) ([]Invoice, error) {
	var out []Invoice
	path := fmt.Sprintf("/dashboard/invoices?limit=%d", limit)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	var out []Customer
	if err := c.getJSON(ctx, "/dashboard/customers", &out); err != nil {
		return nil, err
	}
	return out, nil
}
