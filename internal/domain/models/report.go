package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummary aggregates a filtered list of sales.
type SalesSummary struct {
	Count   int             `bson:"count" json:"totalSalesCount"`
	Revenue decimal.Decimal `bson:"revenue" json:"totalRevenue"`
	Average decimal.Decimal `bson:"average" json:"averageSale"`
}

// LedgerSummary aggregates the cash movements.
type LedgerSummary struct {
	TotalIncome   decimal.Decimal `bson:"totalIncome" json:"totalIncome"`
	TotalExpenses decimal.Decimal `bson:"totalExpenses" json:"totalExpenses"`
	FinalBalance  decimal.Decimal `bson:"finalBalance" json:"finalBalance"`
	TotalBills    decimal.Decimal `bson:"totalBills" json:"totalBills"`
	TotalCoins    decimal.Decimal `bson:"totalCoins" json:"totalCoins"`
}

// CatalogSummary counts listings by availability.
type CatalogSummary struct {
	Available int `bson:"available" json:"available"`
	Sold      int `bson:"sold" json:"sold"`
}

// ReconciliationSnapshot is the periodic report persisted to MongoDB and sent to the owner.
type ReconciliationSnapshot struct {
	ID        string         `bson:"_id,omitempty" json:"id,omitempty"`
	Window    string         `bson:"window" json:"window"`
	From      *time.Time     `bson:"from,omitempty" json:"from,omitempty"`
	To        time.Time      `bson:"to" json:"to"`
	Catalog   CatalogSummary `bson:"catalog" json:"catalog"`
	Sales     SalesSummary   `bson:"sales" json:"sales"`
	Ledger    LedgerSummary  `bson:"ledger" json:"ledger"`
	CreatedAt time.Time      `bson:"createdAt" json:"createdAt"`
}
