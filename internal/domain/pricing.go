package domain

// ComputePrice is a priced compute instance or machine type.
type ComputePrice struct {
	Provider     string  `json:"provider"`
	InstanceType string  `json:"instance_type"`
	Region       string  `json:"region"`
	HourlyUSD    float64 `json:"hourly_usd"`
	MonthlyUSD   float64 `json:"monthly_usd"`
	Currency     string  `json:"currency"`
	// Estimated marks prices taken from the static fallback tables rather
	// than a live provider API.
	Estimated bool `json:"estimated"`
}

// StoragePrice is a priced storage class.
type StoragePrice struct {
	Provider      string  `json:"provider"`
	StorageType   string  `json:"storage_type"`
	Region        string  `json:"region"`
	PerGBMonthUSD float64 `json:"per_gb_month_usd"`
	Currency      string  `json:"currency"`
	Estimated     bool    `json:"estimated"`
}

// CostRecord is one period of historical billed cost for a service.
type CostRecord struct {
	PeriodStart   string  `json:"period_start"`
	PeriodEnd     string  `json:"period_end"`
	Service       string  `json:"service"`
	AmountUSD     float64 `json:"amount_usd"`
	UsageQuantity float64 `json:"usage_quantity"`
}

// SustainedUseEstimate is the automatic usage discount GCP applies to
// instances running a large share of the month.
type SustainedUseEstimate struct {
	MachineType         string  `json:"machine_type"`
	Region              string  `json:"region"`
	HoursPerMonth       float64 `json:"hours_per_month"`
	UsageFraction       float64 `json:"usage_fraction"`
	DiscountPercent     float64 `json:"discount_percent"`
	BaseMonthlyUSD      float64 `json:"base_monthly_usd"`
	EffectiveMonthlyUSD float64 `json:"effective_monthly_usd"`
}
