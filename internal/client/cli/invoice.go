package cli

import (
	"context"
	"fmt"
	"log"
	"strconv"
)

const listLimit = 20

func (a *App) List(ctx context.Context) error {
	invoices, err := a.api.ListInvoices(ctx, listLimit)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	for _, inv := range invoices {
		receipt := ""
		if inv.ReceiptKey != "" {
			receipt = " [receipt]"
		}
		printlnFn(fmt.Sprintf("%s  %s  $%s  %s  %s%s",
			inv.ID, inv.Date, strconv.FormatFloat(inv.Amount, 'f', 2, 64), inv.Status, inv.CustomerID, receipt))
	}
	return nil
}

func (a *App) Customers(ctx context.Context) error {
	customers, err := a.api.ListCustomers(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	for _, c := range customers {
		printlnFn(fmt.Sprintf("%s  %s  <%s>", c.ID, c.Name, c.Email))
	}
	return nil
}

// readInvoiceForm prompts for the three invoice fields. Values go to the
// server as typed; validation happens there.
func (a *App) readInvoiceForm() (customerID, amount, status string, err error) {
	if customerID, err = GetSimpleText(a.reader, "Enter customer id", a.out); err != nil {
		return
	}
	if amount, err = GetSimpleText(a.reader, "Enter amount in dollars", a.out); err != nil {
		return
	}
	status, err = GetSimpleText(a.reader, "Enter status (pending/paid)", a.out)
	return
}

func (a *App) Create(ctx context.Context) error {
	customerID, amount, status, err := a.readInvoiceForm()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.api.CreateInvoice(ctx, customerID, amount, status); err != nil {
		log.Println(err.Error())
		return err
	}

	log.Printf("Invoice created")
	return nil
}

func (a *App) Update(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter invoice id", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	customerID, amount, status, err := a.readInvoiceForm()
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.api.UpdateInvoice(ctx, id, customerID, amount, status); err != nil {
		log.Println(err.Error())
		return err
	}

	log.Printf("Invoice updated")
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter invoice id", a.out)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if err := a.api.DeleteInvoice(ctx, id); err != nil {
		log.Println(err.Error())
		return err
	}

	log.Printf("Invoice deleted")
	return nil
}
