package actions

import (
	"context"
	"errors"
	"net/url"

	"github.com/dmitrijs2005/acmeadmin/internal/server/cache"
	"github.com/dmitrijs2005/acmeadmin/internal/server/models"
	"github.com/dmitrijs2005/acmeadmin/internal/server/services"
)

// invoicesPath is both the view invalidated after a mutation and the
// redirect target.
const invoicesPath = "/dashboard/invoices"

// Top-level messages shown when validation rejects a submission.
const (
	MsgMissingCreate = "Missing Fields. Failed to Create Invoice."
	MsgMissingUpdate = "Missing Fields. Failed to Update Invoice."
)

// MutationExecutor is the persistence side of the pipeline, implemented by
// services.InvoiceService.
type MutationExecutor interface {
	Create(ctx context.Context, customerID string, amount float64, status string) (*models.Invoice, error)
	Update(ctx context.Context, id string, customerID string, amount float64, status string) error
	Delete(ctx context.Context, id string) error
}

// InvoiceActions orchestrates the invoice mutations:
// validate → persist → invalidate → redirect.
type InvoiceActions struct {
	exec        MutationExecutor
	revalidator cache.Revalidator
}

func NewInvoiceActions(exec MutationExecutor, revalidator cache.Revalidator) *InvoiceActions {
	return &InvoiceActions{exec: exec, revalidator: revalidator}
}

// CreateInvoice runs the full pipeline for a new invoice. Validation or
// persistence failure yields a FormState to re-render; success invalidates
// the invoice list and redirects to it. prev is the state the form was
// rendered with; the pipeline never reads it.
func (a *InvoiceActions) CreateInvoice(ctx context.Context, prev FormState, form url.Values) Result {
	parsed, fieldErrs := ParseInvoiceForm(form)
	if len(fieldErrs) > 0 {
		return failed(FormState{Errors: fieldErrs, Message: MsgMissingCreate})
	}

	if _, err := a.exec.Create(ctx, parsed.CustomerID, parsed.Amount, parsed.Status); err != nil {
		return failed(FormState{Message: dbMessage(err, services.MsgCreateFailed)})
	}

	a.revalidator.Revalidate(ctx, invoicesPath)
	return redirect(invoicesPath)
}

// UpdateInvoice runs the same pipeline against an existing invoice.
func (a *InvoiceActions) UpdateInvoice(ctx context.Context, id string, prev FormState, form url.Values) Result {
	parsed, fieldErrs := ParseInvoiceForm(form)
	if len(fieldErrs) > 0 {
		return failed(FormState{Errors: fieldErrs, Message: MsgMissingUpdate})
	}

	if err := a.exec.Update(ctx, id, parsed.CustomerID, parsed.Amount, parsed.Status); err != nil {
		return failed(FormState{Message: dbMessage(err, services.MsgUpdateFailed)})
	}

	a.revalidator.Revalidate(ctx, invoicesPath)
	return redirect(invoicesPath)
}

// DeleteInvoice has no submitted fields, so there is nothing to validate
// and no form to re-render: the error itself is the outcome.
func (a *InvoiceActions) DeleteInvoice(ctx context.Context, id string) error {
	if err := a.exec.Delete(ctx, id); err != nil {
		return err
	}
	a.revalidator.Revalidate(ctx, invoicesPath)
	return nil
}

// dbMessage extracts the user-safe message from a persistence failure. The
// fallback guards against an executor returning something other than a
// DBError; the raw error text must never reach the form.
func dbMessage(err error, fallback string) string {
	var dbErr *services.DBError
	if errors.As(err, &dbErr) {
		return dbErr.Message
	}
	return fallback
}
