// Package users declares the repository contract for operator accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/acmeadmin/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
