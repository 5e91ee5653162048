package sync

import (
	"time"

	"github.com/shopspring/decimal"
)

// CanonicalCustomer is the normalized form of an upstream customer.
// It carries no aggregates; ordersCount/totalSpent are derived from
// orders by the store, never copied from the payload.
type CanonicalCustomer struct {
	ExternalID string
	Email      string
	FirstName  string
	LastName   string
	Phone      string
	City       string
	Country    string
}

// CanonicalProduct is the normalized form of an upstream product
type CanonicalProduct struct {
	ExternalID        string
	Title             string
	Vendor            string
	ProductType       string
	Status            string
	SKU               string
	Taxable           bool
	Price             decimal.Decimal
	InventoryQuantity int64
}

// CanonicalOrder is the normalized form of an upstream order.
// CustomerExternalID may reference a customer not yet synced.
type CanonicalOrder struct {
	ExternalID         string
	CustomerExternalID string
	Number             int64
	Name               string
	Email              string
	FinancialStatus    string
	FulfillmentStatus  string
	Currency           string
	TotalPrice         decimal.Decimal
	SubtotalPrice      decimal.Decimal
	TotalTax           decimal.Decimal
	ProcessedAt        time.Time
	Lines              []CanonicalOrderLine
}

// CanonicalOrderLine snapshots the line item at order time
type CanonicalOrderLine struct {
	ExternalID        string
	ProductExternalID string
	Title             string
	SKU               string
	Quantity          int64
	UnitPrice         decimal.Decimal
}

// LineTotal returns the extended price of the line
func (l CanonicalOrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}
