package invoices

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

func (r *PostgresRepository) Create(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {

	query :=
		`INSERT INTO invoices (customer_id, amount, status, date)
         VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		invoice.CustomerID, invoice.AmountCents, invoice.Status, invoice.Date).Scan(&invoice.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return invoice, nil
}

func (r *PostgresRepository) Update(ctx context.Context, invoice *models.Invoice) error {

	query :=
		`UPDATE invoices
		 SET customer_id = $1, amount = $2, status = $3
		 WHERE id = $4
		 `

	res, err := r.db.ExecContext(ctx, query,
		invoice.CustomerID, invoice.AmountCents, invoice.Status, invoice.ID)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return rowMatched(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {

	query := `DELETE FROM invoices WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return rowMatched(res)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Invoice, error) {

	query :=
		`SELECT id, customer_id, amount, status, date, receipt_key FROM invoices
		 WHERE id = $1
		 `

	invoice := &models.Invoice{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&invoice.ID, &invoice.CustomerID, &invoice.AmountCents,
		&invoice.Status, &invoice.Date, &invoice.ReceiptKey)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return invoice, nil
}

func (r *PostgresRepository) SelectLatest(ctx context.Context, limit int) ([]*models.Invoice, error) {

	query :=
		`SELECT id, customer_id, amount, status, date, receipt_key FROM invoices
		 ORDER BY date DESC
		 LIMIT $1
		 `

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Invoice
	for rows.Next() {
		invoice := &models.Invoice{}
		err := rows.Scan(&invoice.ID, &invoice.CustomerID, &invoice.AmountCents,
			&invoice.Status, &invoice.Date, &invoice.ReceiptKey)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) SelectByCustomer(ctx context.Context, customerID string) ([]*models.Invoice, error) {

	query :=
		`SELECT id, customer_id, amount, status, date, receipt_key FROM invoices
		 WHERE customer_id = $1
		 ORDER BY date DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Invoice
	for rows.Next() {
		invoice := &models.Invoice{}
		err := rows.Scan(&invoice.ID, &invoice.CustomerID, &invoice.AmountCents,
			&invoice.Status, &invoice.Date, &invoice.ReceiptKey)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) SetReceiptKey(ctx context.Context, id string, key string) error {

	query := `UPDATE invoices SET receipt_key = $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, key, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return rowMatched(res)
}

// rowMatched translates a zero-row mutation into common.ErrorNotFound.
func rowMatched(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
