// Package customers declares the read-only repository contract for
// customer records. Customers are created elsewhere; the dashboard only
// needs to list them for the invoice form and resolve them by id.
package customers

import (
	"context"

	"github.com/dmitrijs2005/acmeadmin/internal/server/models"
)

type Repository interface {
	// List returns all customers ordered by name.
	List(ctx context.Context) ([]*models.Customer, error)

	// GetByID fetches a single customer.
	GetByID(ctx context.Context, id string) (*models.Customer, error)
}
