package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/acmeadmin/internal/common"
	"github.com/dmitrijs2005/acmeadmin/internal/logging"
	sc "github.com/dmitrijs2005/acmeadmin/internal/server/config"
	"github.com/dmitrijs2005/acmeadmin/internal/server/models"
	"github.com/dmitrijs2005/acmeadmin/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	timeNow = time.Now

	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// User-facing persistence failure messages. The real cause is logged
// server-side only.
const (
	MsgCreateFailed = "Database Error: Failed to Create Invoice."
	MsgUpdateFailed = "Database Error: Failed to Update Invoice."
	MsgDeleteFailed = "Database Error: Failed to Delete Invoice."
)

// DBError is returned when a mutation fails at the persistence layer. Its
// Error string is safe to show to the user; the underlying cause stays
// reachable through Unwrap for callers that need to classify it.
type DBError struct {
	Message string
	Err     error
}

func (e *DBError) Error() string { return e.Message }
func (e *DBError) Unwrap() error { return e.Err }

// InvoiceService executes invoice mutations and reads. Each mutation issues
// exactly one statement; there is nothing to roll back, so no transaction is
// opened.
type InvoiceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
}

func NewInvoiceService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config, logger logging.Logger) *InvoiceService {
	return &InvoiceService{
		db:          db,
		repomanager: repomanager,
		config:      config,
		logger:      logger,
	}
}

// ToCents converts a dollar amount to integer cents, rounding half away
// from zero so 50.559 becomes 5056, not 5055.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Create inserts a new invoice stamped with today's UTC date. The amount
// arrives in dollars and is stored as cents.
func (s *InvoiceService) Create(ctx context.Context, customerID string, amount float64, status string) (*models.Invoice, error) {
	now := timeNow().UTC()
	invoice := &models.Invoice{
		CustomerID:  customerID,
		AmountCents: ToCents(amount),
		Status:      status,
		Date:        time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}

	repo := s.repomanager.Invoices(s.db)
	created, err := repo.Create(ctx, invoice)
	if err != nil {
		s.logger.Error(ctx, "invoice insert failed", "error", err)
		return nil, &DBError{Message: MsgCreateFailed, Err: err}
	}
	return created, nil
}

// Update overwrites customer, amount and status of an existing invoice.
// The stored date is never touched.
func (s *InvoiceService) Update(ctx context.Context, id string, customerID string, amount float64, status string) error {
	invoice := &models.Invoice{
		ID:          id,
		CustomerID:  customerID,
		AmountCents: ToCents(amount),
		Status:      status,
	}

	repo := s.repomanager.Invoices(s.db)
	if err := repo.Update(ctx, invoice); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "invoice update matched no row", "id", id)
		} else {
			s.logger.Error(ctx, "invoice update failed", "id", id, "error", err)
		}
		return &DBError{Message: MsgUpdateFailed, Err: err}
	}
	return nil
}

// Delete removes an invoice by id.
func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	repo := s.repomanager.Invoices(s.db)
	if err := repo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "invoice delete matched no row", "id", id)
		} else {
			s.logger.Error(ctx, "invoice delete failed", "id", id, "error", err)
		}
		return &DBError{Message: MsgDeleteFailed, Err: err}
	}
	return nil
}

// GetByID fetches a single invoice for the edit form.
func (s *InvoiceService) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	repo := s.repomanager.Invoices(s.db)
	return repo.GetByID(ctx, id)
}

// ListLatest returns up to limit invoices, newest first.
func (s *InvoiceService) ListLatest(ctx context.Context, limit int) ([]*models.Invoice, error) {
	repo := s.repomanager.Invoices(s.db)
	return repo.SelectLatest(ctx, limit)
}

// ListByCustomer returns every invoice of a single customer, newest first.
func (s *InvoiceService) ListByCustomer(ctx context.Context, customerID string) ([]*models.Invoice, error) {
	repo := s.repomanager.Invoices(s.db)
	return repo.SelectByCustomer(ctx, customerID)
}

// ListCustomers returns all customers for the invoice form's select box.
func (s *InvoiceService) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	repo := s.repomanager.Customers(s.db)
	return repo.List(ctx)
}

// --- receipt attachments ---

func GetRandomStorageKey() string {
	d := timeNow()
	return fmt.Sprintf("receipts/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *InvoiceService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// GetReceiptUploadURL allocates a storage key for the invoice's receipt,
// records it on the row and returns a presigned PUT URL for the upload.
func (s *InvoiceService) GetReceiptUploadURL(ctx context.Context, invoiceID string) (string, string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := GetRandomStorageKey()

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", err
	}

	repo := s.repomanager.Invoices(s.db)
	if err := repo.SetReceiptKey(ctx, invoiceID, key); err != nil {
		return "", "", fmt.Errorf("error saving receipt key: %v", err)
	}

	return key, req.URL, nil
}

// GetReceiptDownloadURL returns a presigned GET URL for the invoice's
// stored receipt. Invoices without a receipt yield ErrorNotFound.
func (s *InvoiceService) GetReceiptDownloadURL(ctx context.Context, invoiceID string) (string, error) {
	repo := s.repomanager.Invoices(s.db)
	invoice, err := repo.GetByID(ctx, invoiceID)
	if err != nil {
		return "", fmt.Errorf("error getting invoice: %v", err)
	}
	if invoice.ReceiptKey == "" {
		return "", common.ErrorNotFound
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &invoice.ReceiptKey,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
