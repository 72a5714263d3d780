package actions

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/acmeadmin/internal/server/models"
	"github.com/dmitrijs2005/acmeadmin/internal/server/services"
)

// fakeExec and fakeRevalidator share a call log so tests can assert the
// persist → invalidate ordering.
type fakeExec struct {
	log *[]string

	createErr error
	updateErr error
	deleteErr error

	gotCustomerID string
	gotAmount     float64
	gotStatus     string
	gotID         string
}

func (f *fakeExec) Create(ctx context.Context, customerID string, amount float64, status string) (*models.Invoice, error) {
	*f.log = append(*f.log, "persist")
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.gotCustomerID, f.gotAmount, f.gotStatus = customerID, amount, status
	return &models.Invoice{ID: "new-id"}, nil
}

func (f *fakeExec) Update(ctx context.Context, id string, customerID string, amount float64, status string) error {
	*f.log = append(*f.log, "persist")
	if f.updateErr != nil {
		return f.updateErr
	}
	f.gotID, f.gotCustomerID, f.gotAmount, f.gotStatus = id, customerID, amount, status
	return nil
}

func (f *fakeExec) Delete(ctx context.Context, id string) error {
	*f.log = append(*f.log, "persist")
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.gotID = id
	return nil
}

type fakeRevalidator struct {
	log      *[]string
	gotPaths []string
}

func (f *fakeRevalidator) Revalidate(ctx context.Context, viewPath string) {
	*f.log = append(*f.log, "invalidate")
	f.gotPaths = append(f.gotPaths, viewPath)
}

func newActions() (*InvoiceActions, *fakeExec, *fakeRevalidator, *[]string) {
	log := &[]string{}
	exec := &fakeExec{log: log}
	rev := &fakeRevalidator{log: log}
	return NewInvoiceActions(exec, rev), exec, rev, log
}

func TestCreateInvoice_Success(t *testing.T) {
	a, exec, rev, log := newActions()

	res := a.CreateInvoice(context.Background(), FormState{}, invoiceFormValues("cust-1", "50.5", "pending"))

	require.True(t, res.IsRedirect())
	assert.Equal(t, "/dashboard/invoices", res.Redirect)
	assert.True(t, res.Form.OK())

	assert.Equal(t, "cust-1", exec.gotCustomerID)
	assert.Equal(t, 50.5, exec.gotAmount)
	assert.Equal(t, "pending", exec.gotStatus)

	assert.Equal(t, []string{"persist", "invalidate"}, *log)
	assert.Equal(t, []string{"/dashboard/invoices"}, rev.gotPaths)
}

func TestCreateInvoice_ValidationFailure_NoSideEffects(t *testing.T) {
	a, _, _, log := newActions()

	res := a.CreateInvoice(context.Background(), FormState{}, invoiceFormValues("", "0", "bogus"))

	require.False(t, res.IsRedirect())
	assert.Equal(t, MsgMissingCreate, res.Form.Message)
	assert.Len(t, res.Form.Errors, 3)
	assert.Empty(t, *log, "neither persistence nor invalidation may run")
}

func TestCreateInvoice_PersistenceFailure(t *testing.T) {
	a, exec, _, log := newActions()
	exec.createErr = &services.DBError{Message: services.MsgCreateFailed, Err: errors.New("connection refused")}

	res := a.CreateInvoice(context.Background(), FormState{}, invoiceFormValues("cust-1", "10", "paid"))

	require.False(t, res.IsRedirect())
	assert.Equal(t, "Database Error: Failed to Create Invoice.", res.Form.Message)
	assert.True(t, strings.Contains(res.Form.Message, "Database Error"))
	assert.NotContains(t, res.Form.Message, "connection refused")
	assert.Empty(t, res.Form.Errors)
	assert.Equal(t, []string{"persist"}, *log, "no invalidation after a failed persist")
}

func TestCreateInvoice_UnclassifiedExecutorError(t *testing.T) {
	a, exec, _, _ := newActions()
	exec.createErr = errors.New("raw driver error")

	res := a.CreateInvoice(context.Background(), FormState{}, invoiceFormValues("cust-1", "10", "paid"))

	assert.Equal(t, services.MsgCreateFailed, res.Form.Message)
}

func TestUpdateInvoice_Success(t *testing.T) {
	a, exec, _, log := newActions()

	res := a.UpdateInvoice(context.Background(), "inv-7", FormState{}, invoiceFormValues("cust-2", "333.33", "paid"))

	require.True(t, res.IsRedirect())
	assert.Equal(t, "/dashboard/invoices", res.Redirect)
	assert.Equal(t, "inv-7", exec.gotID)
	assert.Equal(t, 333.33, exec.gotAmount)
	assert.Equal(t, []string{"persist", "invalidate"}, *log)
}

func TestUpdateInvoice_ValidationFailure(t *testing.T) {
	a, _, _, log := newActions()

	res := a.UpdateInvoice(context.Background(), "inv-7", FormState{}, invoiceFormValues("cust-2", "-1", "paid"))

	require.False(t, res.IsRedirect())
	assert.Equal(t, MsgMissingUpdate, res.Form.Message)
	assert.Equal(t, []string{"Amount must be greater than $0"}, res.Form.Errors["amount"])
	assert.Empty(t, *log)
}

func TestUpdateInvoice_PersistenceFailure(t *testing.T) {
	a, exec, _, log := newActions()
	exec.updateErr = &services.DBError{Message: services.MsgUpdateFailed, Err: errors.New("boom")}

	res := a.UpdateInvoice(context.Background(), "inv-7", FormState{}, invoiceFormValues("cust-2", "10", "paid"))

	require.False(t, res.IsRedirect())
	assert.Equal(t, "Database Error: Failed to Update Invoice.", res.Form.Message)
	assert.Equal(t, []string{"persist"}, *log)
}

func TestDeleteInvoice_Success(t *testing.T) {
	a, exec, rev, log := newActions()

	err := a.DeleteInvoice(context.Background(), "inv-3")

	require.NoError(t, err)
	assert.Equal(t, "inv-3", exec.gotID)
	assert.Equal(t, []string{"persist", "invalidate"}, *log)
	assert.Equal(t, []string{"/dashboard/invoices"}, rev.gotPaths)
}

func TestDeleteInvoice_Failure(t *testing.T) {
	a, exec, _, log := newActions()
	exec.deleteErr = &services.DBError{Message: services.MsgDeleteFailed, Err: errors.New("boom")}

	err := a.DeleteInvoice(context.Background(), "inv-3")

	require.Error(t, err)
	assert.Equal(t, "Database Error: Failed to Delete Invoice.", err.Error())
	assert.Equal(t, []string{"persist"}, *log)
}
