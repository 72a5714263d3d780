// Package invoices declares the repository contract for invoice records.
package invoices

import (
	"context"

	"github.com/dmitrijs2005/acmeadmin/internal/server/models"
)

// Repository defines the persistence operations on invoices. Every
// operation issues exactly one statement; mutations touch one row by
// primary key.
type Repository interface {
	// Create inserts a new invoice and returns it with the store-generated id.
	Create(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error)

	// Update overwrites customer id, amount and status of the invoice with
	// the given id. Returns common.ErrorNotFound when no row matched.
	Update(ctx context.Context, invoice *models.Invoice) error

	// Delete removes the invoice with the given id. Returns
	// common.ErrorNotFound when no row matched.
	Delete(ctx context.Context, id string) error

	// GetByID fetches a single invoice.
	GetByID(ctx context.Context, id string) (*models.Invoice, error)

	// SelectLatest returns up to limit invoices, newest date first.
	SelectLatest(ctx context.Context, limit int) ([]*models.Invoice, error)

	// SelectByCustomer returns all invoices of one customer, newest date first.
	SelectByCustomer(ctx context.Context, customerID string) ([]*models.Invoice, error)

	// SetReceiptKey records the object-storage key of an uploaded receipt.
	SetReceiptKey(ctx context.Context, id string, key string) error
}
