package usecase

import (
	"context"
	"log"
	"time"

	authdomain "rec-webapp-backend/internal/auth/domain"
	"rec-webapp-backend/pkg/digitaltwin"
)

const trendDays = 7

// KPI is one set of energy figures. nil means "not yet resolved upstream",
// which is distinct from a true zero.
type KPI struct {
	ProductionKWh       *float64 `json:"production_kwh"`
	ConsumptionKWh      *float64 `json:"consumption_kwh"`
	SelfConsumptionKWh  *float64 `json:"self_consumption_kwh"`
	SelfConsumptionRate *float64 `json:"self_consumption_rate"`
}

// TrendEntry is one day of the trailing trend. Days without upstream records
// keep null fields so "no data" never reads as "zero energy".
type TrendEntry struct {
	Date               string   `json:"date"`
	ProductionKWh      *float64 `json:"production_kwh"`
	ConsumptionKWh     *float64 `json:"consumption_kwh"`
	SelfConsumptionKWh *float64 `json:"self_consumption_kwh"`
}

// Overview is the dashboard payload: per-user KPIs, community KPIs and a
// trailing 7-day trend ending today (UTC).
type Overview struct {
	Period string       `json:"period"`
	User   KPI          `json:"user"`
	REC    KPI          `json:"rec"`
	Trend  []TrendEntry `json:"trend"`
}

// EnergySource is the slice of the digital-twin client the aggregator uses.
type EnergySource interface {
	Membership(ctx context.Context, token, sub string) (*digitaltwin.Membership, error)
	MemberBalance(ctx context.Context, token, sub string) (*digitaltwin.Balance, error)
	CommunityBalance(ctx context.Context, token, communityID string) (*digitaltwin.Balance, error)
	CommunityTimeseries(ctx context.Context, token, communityID string, from, to time.Time) ([]digitaltwin.TimeseriesRecord, error)
}

type OverviewUsecase interface {
	Build(ctx context.Context, identity *authdomain.Identity) (*Overview, error)
}

type overviewUsecase struct {
	source EnergySource
}

// NewOverviewUsecase builds the aggregator. A nil source means no digital
// twin is configured; the illustrative stub payload is served instead.
func NewOverviewUsecase(source EnergySource) OverviewUsecase {
	return &overviewUsecase{source: source}
}

func (u *overviewUsecase) Build(ctx context.Context, identity *authdomain.Identity) (*Overview, error) {
	return u.buildAt(ctx, identity, time.Now().UTC())
}

func (u *overviewUsecase) buildAt(ctx context.Context, identity *authdomain.Identity, today time.Time) (*Overview, error) {
	if u.source == nil {
		return stubOverview(today), nil
	}
	return u.fromDigitalTwin(ctx, identity, today), nil
}

// fromDigitalTwin aggregates upstream telemetry. Enrichment is best effort:
// every upstream gap degrades its slice of the payload to null instead of
// failing the request.
func (u *overviewUsecase) fromDigitalTwin(ctx context.Context, identity *authdomain.Identity, today time.Time) *Overview {
	overview := emptyOverview(today)

	membership, err := u.source.Membership(ctx, identity.Token, identity.Sub)
	if err != nil {
		log.Printf("[WARN] failed to resolve community membership for %s: %v", identity.Sub, err)
		return overview
	}
	if membership == nil {
		return overview
	}

	if balance, err := u.source.MemberBalance(ctx, identity.Token, identity.Sub); err != nil {
		log.Printf("[WARN] failed to fetch member balance for %s: %v", identity.Sub, err)
	} else {
		overview.User = kpiFromBalance(balance)
	}

	if balance, err := u.source.CommunityBalance(ctx, identity.Token, membership.CommunityID); err != nil {
		log.Printf("[WARN] failed to fetch community balance for %s: %v", membership.CommunityID, err)
	} else {
		overview.REC = kpiFromBalance(balance)
	}

	from := startOfDay(today.AddDate(0, 0, -(trendDays - 1)))
	to := startOfDay(today).AddDate(0, 0, 1)
	if records, err := u.source.CommunityTimeseries(ctx, identity.Token, membership.CommunityID, from, to); err != nil {
		log.Printf("[WARN] failed to fetch community timeseries for %s: %v", membership.CommunityID, err)
	} else {
		overview.Trend = buildTrend(today, records)
	}

	return overview
}

// rateOf implements the self-consumption rate rule: undefined inputs make
// the rate undefined; zero consumption with defined inputs makes it 0.0.
func rateOf(selfConsumption, consumption *float64) *float64 {
	if selfConsumption == nil || consumption == nil {
		return nil
	}
	rate := 0.0
	if *consumption > 0 {
		rate = *selfConsumption / *consumption
	}
	return &rate
}

func kpiFromBalance(b *digitaltwin.Balance) KPI {
	if b == nil {
		return KPI{}
	}
	return KPI{
		ProductionKWh:       b.ProductionKWh,
		ConsumptionKWh:      b.ConsumptionKWh,
		SelfConsumptionKWh:  b.SelfConsumptionKWh,
		SelfConsumptionRate: rateOf(b.SelfConsumptionKWh, b.ConsumptionKWh),
	}
}

// trendDates returns the trailing 7 UTC calendar dates ending today.
func trendDates(today time.Time) []string {
	dates := make([]string, 0, trendDays)
	for d := 0; d < trendDays; d++ {
		dates = append(dates, today.AddDate(0, 0, -(trendDays-1-d)).Format("2006-01-02"))
	}
	return dates
}

// buildTrend groups records by UTC calendar date and sums each field per
// day. A field stays null on days where no record carried it.
func buildTrend(today time.Time, records []digitaltwin.TimeseriesRecord) []TrendEntry {
	type accumulator struct {
		production      *float64
		consumption     *float64
		selfConsumption *float64
	}
	byDate := make(map[string]*accumulator)
	for _, record := range records {
		date := record.Timestamp.UTC().Format("2006-01-02")
		acc, ok := byDate[date]
		if !ok {
			acc = &accumulator{}
			byDate[date] = acc
		}
		acc.production = addField(acc.production, record.ProductionKWh)
		acc.consumption = addField(acc.consumption, record.ConsumptionKWh)
		acc.selfConsumption = addField(acc.selfConsumption, record.SelfConsumptionKWh)
	}

	trend := make([]TrendEntry, 0, trendDays)
	for _, date := range trendDates(today) {
		entry := TrendEntry{Date: date}
		if acc, ok := byDate[date]; ok {
			entry.ProductionKWh = acc.production
			entry.ConsumptionKWh = acc.consumption
			entry.SelfConsumptionKWh = acc.selfConsumption
		}
		trend = append(trend, entry)
	}
	return trend
}

func addField(total, value *float64) *float64 {
	if value == nil {
		return total
	}
	sum := *value
	if total != nil {
		sum += *total
	}
	return &sum
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func emptyOverview(today time.Time) *Overview {
	trend := make([]TrendEntry, 0, trendDays)
	for _, date := range trendDates(today) {
		trend = append(trend, TrendEntry{Date: date})
	}
	return &Overview{
		Period: "Last 7 days",
		Trend:  trend,
	}
}

// stubOverview is the illustrative payload served while no digital twin is
// configured. The user has no production hardware, so production and
// self-consumption stay unknown and the rate with them.
func stubOverview(today time.Time) *Overview {
	userConsumption := 42.3
	recProduction := 1200.0
	recConsumption := 1650.0
	recSelfConsumption := 980.0

	trend := make([]TrendEntry, 0, trendDays)
	for d, date := range trendDates(today) {
		production := 160.0 + float64(d)*5.0
		consumption := 220.0 + float64(d)*3.0
		selfConsumption := 130.0 + float64(d)*4.0
		trend = append(trend, TrendEntry{
			Date:               date,
			ProductionKWh:      &production,
			ConsumptionKWh:     &consumption,
			SelfConsumptionKWh: &selfConsumption,
		})
	}

	return &Overview{
		Period: "Last 7 days",
		User: KPI{
			ConsumptionKWh: &userConsumption,
		},
		REC: KPI{
			ProductionKWh:       &recProduction,
			ConsumptionKWh:      &recConsumption,
			SelfConsumptionKWh:  &recSelfConsumption,
			SelfConsumptionRate: rateOf(&recSelfConsumption, &recConsumption),
		},
		Trend: trend,
	}
}
