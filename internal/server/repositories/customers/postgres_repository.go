package customers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/acmeadmin/internal/common"
	"github.com/dmitrijs2005/acmeadmin/internal/dbx"
	"github.com/dmitrijs2005/acmeadmin/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Customer, error) {

	query :=
		`SELECT id, name, email, image_url FROM customers
		 ORDER BY name
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Customer
	for rows.Next() {
		customer := &models.Customer{}
		err := rows.Scan(&customer.ID, &customer.Name, &customer.Email, &customer.ImageURL)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {

	query :=
		`SELECT id, name, email, image_url FROM customers
		 WHERE id = $1
		 `

	customer := &models.Customer{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&customer.ID, &customer.Name, &customer.Email, &customer.ImageURL)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return customer, nil
}
