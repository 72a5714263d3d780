package models

// Customer is the party an invoice bills. Customers are managed elsewhere;
// this service only reads them (form dropdown, list views).
type Customer struct {
	ID       string
	Name     string
	Email    string
	ImageURL string
}
