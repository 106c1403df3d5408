package store

type Setting struct {
	Key   string
	Value string
}

// Settings keys.
const (
	KeyDailyBudgetHours = "daily_budget_hours"
	KeyInvoiceNo        = "invoice_no"
	KeyLocale           = "locale"
	KeyForecastPolicy   = "forecast_policy"
	KeyCompanyName      = "company_name"
)
