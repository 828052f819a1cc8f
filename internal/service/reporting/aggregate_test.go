package reporting

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/ganado/internal/domain/models"
)

var fixedNow = time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

func sale(id, product, buyer, phone string, price float64, date time.Time) models.Sale {
	return models.Sale{
		ID:          id,
		ProductName: product,
		BuyerName:   buyer,
		BuyerPhone:  phone,
		SalePrice:   price,
		SaleDate:    date,
	}
}

func sampleSales() []models.Sale {
	return []models.Sale{
		sale("1", "Novillo Brahman", "Carlos Pérez", "3001112233", 4500000, fixedNow.AddDate(0, 0, -3)),
		sale("2", "Vaca Gyr", "María López", "3104445566", 3200000, fixedNow.AddDate(0, 0, -10)),
		sale("3", "Lote Cebú", "Andrés Gómez", "3157778899", 12000000, fixedNow.AddDate(0, -2, 0)),
		sale("4", "Toro Angus", "Carla Ruiz", "3001119999", 6000000, fixedNow.Add(-2*time.Hour)),
	}
}

func ids(sales []models.Sale) []string {
	out := make([]string, 0, len(sales))
	for _, s := range sales {
		out = append(out, s.ID)
	}
	return out
}

func TestSummarizeSales(t *testing.T) {
	t.Run("average is revenue over count", func(t *testing.T) {
		summary := SummarizeSales([]models.Sale{
			{SalePrice: 100},
			{SalePrice: 200},
			{SalePrice: 300},
		})

		assert.Equal(t, 3, summary.Count)
		assert.True(t, summary.Revenue.Equal(decimal.NewFromInt(600)))
		assert.True(t, summary.Average.Equal(decimal.NewFromInt(200)))
		assert.True(t, summary.Average.Equal(summary.Revenue.Div(decimal.NewFromInt(3))))
	})

	t.Run("empty list averages to zero", func(t *testing.T) {
		summary := SummarizeSales(nil)

		assert.Equal(t, 0, summary.Count)
		assert.True(t, summary.Revenue.IsZero())
		assert.True(t, summary.Average.IsZero())
	})
}

func TestSummarizeLedger(t *testing.T) {
	tests := []struct {
		name      string
		movements []models.CashMovement
		income    int64
		expenses  int64
		balance   int64
		bills     int64
		coins     int64
	}{
		{
			name: "inflow and outflow",
			movements: []models.CashMovement{
				{Category: models.CashInflow, Concept: "Base", Amount: 1000000},
				{Category: models.CashOutflow, Concept: "Vacunas", Amount: 200000},
			},
			income:   1000000,
			expenses: 200000,
			balance:  800000,
		},
		{
			name: "denomination count only adds to bills",
			movements: []models.CashMovement{
				{Category: models.CashInflow, Concept: "Conteo billetes", TotalBills: 500000},
			},
			bills: 500000,
		},
		{
			name: "mixed register",
			movements: []models.CashMovement{
				{Category: models.CashInflow, Concept: "Base", Amount: 300000},
				{Category: models.CashInflow, Concept: "Base", Amount: 200000},
				{Category: models.CashOutflow, Concept: "Sal mineral", Amount: 650000},
				{Category: models.CashInflow, Concept: "Conteo monedas", TotalCoins: 45000},
				{Category: models.CashOutflow, Concept: "Conteo billetes", TotalBills: 120000},
			},
			income:   500000,
			expenses: 650000,
			balance:  -150000,
			bills:    120000,
			coins:    45000,
		},
		{
			name: "empty ledger",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SummarizeLedger(tt.movements)

			assert.Equal(t, decimal.NewFromInt(tt.income).String(), s.TotalIncome.String())
			assert.Equal(t, decimal.NewFromInt(tt.expenses).String(), s.TotalExpenses.String())
			assert.Equal(t, decimal.NewFromInt(tt.balance).String(), s.FinalBalance.String())
			assert.Equal(t, decimal.NewFromInt(tt.bills).String(), s.TotalBills.String())
			assert.Equal(t, decimal.NewFromInt(tt.coins).String(), s.TotalCoins.String())
			assert.True(t, s.FinalBalance.Equal(s.TotalIncome.Sub(s.TotalExpenses)))
		})
	}
}

func TestSummarizeLedger_ExactCents(t *testing.T) {
	s := SummarizeLedger([]models.CashMovement{
		{Category: models.CashInflow, Concept: "a", Amount: 0.1},
		{Category: models.CashInflow, Concept: "b", Amount: 0.2},
	})

	assert.Equal(t, "0.3", s.TotalIncome.String())
}

func TestWindowStart(t *testing.T) {
	start, ok := WindowStart(WindowToday, fixedNow)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), start)

	start, ok = WindowStart(WindowWeek, fixedNow)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 8, 14, 30, 0, 0, time.UTC), start)

	start, ok = WindowStart(WindowMonth, fixedNow)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 15, 14, 30, 0, 0, time.UTC), start)

	start, ok = WindowStart(WindowYear, fixedNow)
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 6, 15, 14, 30, 0, 0, time.UTC), start)

	_, ok = WindowStart(WindowAll, fixedNow)
	assert.False(t, ok)
}

func TestParseDateWindow(t *testing.T) {
	w, err := ParseDateWindow("")
	require.NoError(t, err)
	assert.Equal(t, WindowAll, w)

	w, err = ParseDateWindow(" Week ")
	require.NoError(t, err)
	assert.Equal(t, WindowWeek, w)

	_, err = ParseDateWindow("fortnight")
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
}

func TestFilterSales(t *testing.T) {
	sales := sampleSales()

	tests := []struct {
		name  string
		query SalesQuery
		want  []string
	}{
		{name: "no filter", query: SalesQuery{Window: WindowAll}, want: []string{"1", "2", "3", "4"}},
		{name: "week excludes ten days ago", query: SalesQuery{Window: WindowWeek}, want: []string{"1", "4"}},
		{name: "today", query: SalesQuery{Window: WindowToday}, want: []string{"4"}},
		{name: "month", query: SalesQuery{Window: WindowMonth}, want: []string{"1", "2", "4"}},
		{name: "search is case insensitive on product", query: SalesQuery{Search: "BRAHMAN"}, want: []string{"1"}},
		{name: "search matches buyer name", query: SalesQuery{Search: "car"}, want: []string{"1", "4"}},
		{name: "search matches phone", query: SalesQuery{Search: "300111"}, want: []string{"1", "4"}},
		{name: "search and window are combined", query: SalesQuery{Search: "car", Window: WindowToday}, want: []string{"4"}},
		{name: "no match", query: SalesQuery{Search: "búfalo"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterSales(sales, tt.query, fixedNow)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterSales_WeekScenario(t *testing.T) {
	tenDays := sale("old", "Vaca", "Ana", "1", 1, fixedNow.AddDate(0, 0, -10))
	threeDays := sale("new", "Vaca", "Ana", "1", 1, fixedNow.AddDate(0, 0, -3))

	assert.Empty(t, FilterSales([]models.Sale{tenDays}, SalesQuery{Window: WindowWeek}, fixedNow))
	assert.Len(t, FilterSales([]models.Sale{threeDays}, SalesQuery{Window: WindowWeek}, fixedNow), 1)
}

func TestFilterSales_Idempotent(t *testing.T) {
	q := SalesQuery{Search: "car", Window: WindowMonth}

	once := FilterSales(sampleSales(), q, fixedNow)
	twice := FilterSales(once, q, fixedNow)

	assert.Equal(t, once, twice)
}

func TestParseSort(t *testing.T) {
	order, err := ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSort, order)

	order, err = ParseSort("price-asc")
	require.NoError(t, err)
	assert.Equal(t, SortOrder{Key: SortByPrice}, order)
	assert.Equal(t, "price-asc", order.String())

	order, err = ParseSort("NAME-DESC")
	require.NoError(t, err)
	assert.Equal(t, SortOrder{Key: SortByName, Desc: true}, order)

	for _, bad := range []string{"price", "weight-asc", "date-up"} {
		_, err := ParseSort(bad)
		assert.Error(t, err, bad)
	}
}

func TestSortSales(t *testing.T) {
	sales := sampleSales()

	tests := []struct {
		order SortOrder
		want  []string
	}{
		{order: SortOrder{Key: SortByDate, Desc: true}, want: []string{"4", "1", "2", "3"}},
		{order: SortOrder{Key: SortByDate}, want: []string{"3", "2", "1", "4"}},
		{order: SortOrder{Key: SortByPrice, Desc: true}, want: []string{"3", "4", "1", "2"}},
		{order: SortOrder{Key: SortByPrice}, want: []string{"2", "1", "4", "3"}},
		{order: SortOrder{Key: SortByName}, want: []string{"3", "1", "4", "2"}},
		{order: SortOrder{Key: SortByName, Desc: true}, want: []string{"2", "4", "1", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.order.String(), func(t *testing.T) {
			once := SortSales(sales, tt.order)
			assert.Equal(t, tt.want, ids(once))
			assert.Equal(t, once, SortSales(once, tt.order))
		})
	}

	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(sales), "input must not be reordered")
}

func TestSortSales_SpanishCollation(t *testing.T) {
	names := []string{"Oveja", "Ñoño", "Novillo", "Álamo", "Buey"}
	sales := make([]models.Sale, 0, len(names))
	for i, n := range names {
		sales = append(sales, sale(string(rune('a'+i)), n, "", "", 0, fixedNow))
	}

	sorted := SortSales(sales, SortOrder{Key: SortByName})

	got := make([]string, 0, len(sorted))
	for _, s := range sorted {
		got = append(got, s.ProductName)
	}
	assert.Equal(t, []string{"Álamo", "Buey", "Novillo", "Ñoño", "Oveja"}, got)
}

func TestSortSales_StableOnTies(t *testing.T) {
	sales := []models.Sale{
		sale("a", "X", "", "", 100, fixedNow),
		sale("b", "Y", "", "", 100, fixedNow),
		sale("c", "Z", "", "", 50, fixedNow),
	}

	assert.Equal(t, []string{"a", "b", "c"}, ids(SortSales(sales, SortOrder{Key: SortByPrice, Desc: true})))
}

func TestSummarizeCatalog(t *testing.T) {
	s := SummarizeCatalog([]models.Listing{{Available: true}, {Available: false}, {Available: true}})

	assert.Equal(t, models.CatalogSummary{Available: 2, Sold: 1}, s)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$1,000.00", FormatMoney(decimal.NewFromInt(1000), "USD"))
	assert.Equal(t, "12.50 XXX-UNKNOWN", FormatMoney(decimal.RequireFromString("12.5"), "XXX-UNKNOWN"))
}

func TestFilterSales_TodayInStoreTimezone(t *testing.T) {
	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	price := 1000.0
	input := models.SaleInput{ProductID: "l1", SaleDate: "2026-10-18", SalePrice: &price}
	now := time.Date(2026, 10, 18, 15, 0, 0, 0, bogota)
	todays := input.ToSale(models.Listing{ID: "l1", Name: "Novillo"}, "GANADERIA AP", "", now)

	yesterday := todays
	yesterday.SaleDate = todays.SaleDate.Add(-time.Minute)

	kept := FilterSales([]models.Sale{todays, yesterday}, SalesQuery{Window: WindowToday}, now)

	require.Len(t, kept, 1)
	assert.True(t, kept[0].SaleDate.Equal(time.Date(2026, 10, 18, 0, 0, 0, 0, bogota)))
}

func TestParseDay_ReadsCalendarDayInLocation(t *testing.T) {
	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	day, err := models.ParseDay("2026-10-18", bogota)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 18, 5, 0, 0, 0, time.UTC), day.UTC())

	stamped, err := models.ParseDay("2026-10-18T10:00:00Z", bogota)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC), stamped.UTC())
}
