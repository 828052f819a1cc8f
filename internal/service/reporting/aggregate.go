package reporting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mamadbah2/ganado/internal/domain/models"
)

// Window names a date lower bound relative to now.
type Window string

const (
	WindowToday Window = "today"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowYear  Window = "year"
	WindowAll   Window = "all"
)

// ParseDateWindow reads a window name. An empty value means all.
func ParseDateWindow(value string) (Window, error) {
	w := Window(strings.ToLower(strings.TrimSpace(value)))
	switch w {
	case "":
		return WindowAll, nil
	case WindowToday, WindowWeek, WindowMonth, WindowYear, WindowAll:
		return w, nil
	}
	return "", models.NewValidationError("range", fmt.Sprintf("unknown date window %q", value))
}

// WindowStart returns the inclusive lower bound of w. The boolean is false when
// the window has no bound.
func WindowStart(w Window, now time.Time) (time.Time, bool) {
	switch w {
	case WindowToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case WindowWeek:
		return now.AddDate(0, 0, -7), true
	case WindowMonth:
		return now.AddDate(0, -1, 0), true
	case WindowYear:
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

// SalesQuery is the filter applied to the sales view.
type SalesQuery struct {
	Search string
	Window Window
	Sort   SortOrder
}

// FilterSales keeps the sales matching the search term on product name, buyer
// name or buyer phone, and dated on or after the window start.
func FilterSales(sales []models.Sale, q SalesQuery, now time.Time) []models.Sale {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	start, bounded := WindowStart(q.Window, now)

	out := make([]models.Sale, 0, len(sales))
	for _, sale := range sales {
		if term != "" && !matchesTerm(sale, term) {
			continue
		}
		if bounded && sale.SaleDate.Before(start) {
			continue
		}
		out = append(out, sale)
	}
	return out
}

func matchesTerm(sale models.Sale, term string) bool {
	return strings.Contains(strings.ToLower(sale.ProductName), term) ||
		strings.Contains(strings.ToLower(sale.BuyerName), term) ||
		strings.Contains(strings.ToLower(sale.BuyerPhone), term)
}

// SortKey is the field the sales view is ordered by.
type SortKey string

const (
	SortByDate  SortKey = "date"
	SortByPrice SortKey = "price"
	SortByName  SortKey = "name"
)

// SortOrder pairs a key with a direction.
type SortOrder struct {
	Key  SortKey
	Desc bool
}

// String renders the order as key-direction, e.g. date-desc.
func (o SortOrder) String() string {
	dir := "asc"
	if o.Desc {
		dir = "desc"
	}
	return string(o.Key) + "-" + dir
}

// DefaultSort is the newest sale first.
var DefaultSort = SortOrder{Key: SortByDate, Desc: true}

// ParseSort reads values like "price-asc". An empty value yields DefaultSort.
func ParseSort(value string) (SortOrder, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return DefaultSort, nil
	}

	key, dir, ok := strings.Cut(value, "-")
	if !ok {
		return SortOrder{}, models.NewValidationError("sort", fmt.Sprintf("unknown sort %q", value))
	}

	order := SortOrder{Key: SortKey(key)}
	switch order.Key {
	case SortByDate, SortByPrice, SortByName:
	default:
		return SortOrder{}, models.NewValidationError("sort", fmt.Sprintf("unknown sort key %q", key))
	}

	switch dir {
	case "asc":
	case "desc":
		order.Desc = true
	default:
		return SortOrder{}, models.NewValidationError("sort", fmt.Sprintf("unknown sort direction %q", dir))
	}
	return order, nil
}

// SortSales returns a sorted copy of sales. Ties keep their input order.
// Product names are compared with Spanish collation.
func SortSales(sales []models.Sale, order SortOrder) []models.Sale {
	out := append([]models.Sale(nil), sales...)

	var compare func(a, b models.Sale) int
	switch order.Key {
	case SortByPrice:
		compare = func(a, b models.Sale) int { return compareFloat(a.SalePrice, b.SalePrice) }
	case SortByName:
		col := collate.New(language.Spanish, collate.IgnoreCase)
		compare = func(a, b models.Sale) int { return col.CompareString(a.ProductName, b.ProductName) }
	default:
		compare = func(a, b models.Sale) int { return a.SaleDate.Compare(b.SaleDate) }
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i], out[j])
		if order.Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// SummarizeSales computes count, revenue and average. The average of an empty
// list is zero.
func SummarizeSales(sales []models.Sale) models.SalesSummary {
	revenue := decimal.Zero
	for _, sale := range sales {
		revenue = revenue.Add(decimal.NewFromFloat(sale.SalePrice))
	}

	summary := models.SalesSummary{
		Count:   len(sales),
		Revenue: revenue,
		Average: decimal.Zero,
	}
	if len(sales) > 0 {
		summary.Average = revenue.Div(decimal.NewFromInt(int64(len(sales))))
	}
	return summary
}

// SummarizeLedger totals the register. Denomination counts only add to bills
// and coins since their amount is zero; monetary movements only add to income
// or expenses since their counters are zero.
func SummarizeLedger(movements []models.CashMovement) models.LedgerSummary {
	s := models.LedgerSummary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		TotalBills:    decimal.Zero,
		TotalCoins:    decimal.Zero,
	}

	for _, m := range movements {
		amount := decimal.NewFromFloat(m.Amount)
		switch m.Category {
		case models.CashInflow:
			s.TotalIncome = s.TotalIncome.Add(amount)
		case models.CashOutflow:
			s.TotalExpenses = s.TotalExpenses.Add(amount)
		}
		s.TotalBills = s.TotalBills.Add(decimal.NewFromFloat(m.TotalBills))
		s.TotalCoins = s.TotalCoins.Add(decimal.NewFromFloat(m.TotalCoins))
	}

	s.FinalBalance = s.TotalIncome.Sub(s.TotalExpenses)
	return s
}

// SummarizeCatalog counts available and sold listings.
func SummarizeCatalog(listings []models.Listing) models.CatalogSummary {
	var s models.CatalogSummary
	for _, l := range listings {
		if l.Available {
			s.Available++
		} else {
			s.Sold++
		}
	}
	return s
}
