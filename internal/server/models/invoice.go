// Package models defines server-side data models persisted in the database.
package models

import "time"

// Invoice statuses. The form only ever submits one of these two values.
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
)

// Invoice is a billing record tied to a customer. AmountCents stores the
// dollar amount submitted by the user multiplied by 100, so reads divide by
// 100 to reproduce the original amount to cent precision.
type Invoice struct {
	ID         string
	CustomerID string
	AmountCents int64
	Status     string
	// Date is the day the invoice was created, stored as a DATE column
	// (UTC, YYYY-MM-DD). Updates never touch it.
	Date time.Time
	// ReceiptKey is the object-storage key of an attached receipt,
	// empty when no receipt has been uploaded.
	ReceiptKey string
}
