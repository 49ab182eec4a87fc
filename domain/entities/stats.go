package entities

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrUnknownPeriod = errors.New("unknown stats period")

// StatsPeriod selects a stats bucket granularity
type StatsPeriod string

const (
	StatsPeriodDaily   StatsPeriod = "daily"
	StatsPeriodWeekly  StatsPeriod = "weekly"
	StatsPeriodMonthly StatsPeriod = "monthly"
)

// ParseStatsPeriod validates a period name from user input
func ParseStatsPeriod(s string) (StatsPeriod, error) {
	switch p := StatsPeriod(s); p {
	case StatsPeriodDaily, StatsPeriodWeekly, StatsPeriodMonthly:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
}

// Key returns the bucket key containing t: YYYY-MM-DD, ISO YYYY-Www, or YYYY-MM
func (p StatsPeriod) Key(t time.Time) string {
	t = t.UTC()
	switch p {
	case StatsPeriodWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case StatsPeriodMonthly:
		return t.Format("2006-01")
	default:
		return t.Format(DateLayout)
	}
}

// PeriodStats aggregates bets within one bucket
type PeriodStats struct {
	TotalBets         int             `json:"totalBets"`
	TotalWageredUSD   decimal.Decimal `json:"totalWageredUSD"`
	TotalPayoutUSD    decimal.Decimal `json:"totalPayoutUSD"`
	TotalProfitUSD    decimal.Decimal `json:"totalProfitUSD"`
	Wins              int             `json:"wins"`
	Losses            int             `json:"losses"`
	WinRate           float64         `json:"winRate"`
	AverageBetUSD     decimal.Decimal `json:"averageBetUSD"`
	AverageMultiplier float64         `json:"averageMultiplier"`
	BiggestWinUSD     decimal.Decimal `json:"biggestWinUSD"`
	BiggestLossUSD    decimal.Decimal `json:"biggestLossUSD"`
	Games             map[string]int  `json:"games"`
	Currencies        map[string]int  `json:"currencies"`

	multiplierSum   decimal.Decimal
	multiplierCount int
}

// NewPeriodStats creates an empty bucket
func NewPeriodStats() *PeriodStats {
	return &PeriodStats{
		Games:      make(map[string]int),
		Currencies: make(map[string]int),
	}
}

// Apply folds a bet into the bucket
func (s *PeriodStats) Apply(bet *Bet) {
	profit := bet.ProfitUSD()

	s.TotalBets++
	s.TotalWageredUSD = s.TotalWageredUSD.Add(bet.BetAmountUSD)
	s.TotalProfitUSD = s.TotalProfitUSD.Add(profit)

	if bet.Won() {
		s.Wins++
		s.TotalPayoutUSD = s.TotalPayoutUSD.Add(bet.PayoutUSD)
		if profit.GreaterThan(s.BiggestWinUSD) {
			s.BiggestWinUSD = profit
		}
	} else {
		s.Losses++
		if profit.LessThan(s.BiggestLossUSD) {
			s.BiggestLossUSD = profit
		}
	}

	s.WinRate = float64(s.Wins) / float64(s.TotalBets) * 100
	s.AverageBetUSD = s.TotalWageredUSD.Div(decimal.NewFromInt(int64(s.TotalBets))).Round(2)

	if bet.Multiplier.IsPositive() {
		s.multiplierSum = s.multiplierSum.Add(bet.Multiplier)
		s.multiplierCount++
		s.AverageMultiplier = s.multiplierSum.Div(decimal.NewFromInt(int64(s.multiplierCount))).InexactFloat64()
	}

	s.Games[bet.Game]++
	s.Currencies[bet.Currency]++
}

// Clone returns a copy safe to hand to readers
func (s *PeriodStats) Clone() *PeriodStats {
	clone := *s
	clone.Games = make(map[string]int, len(s.Games))
	for k, v := range s.Games {
		clone.Games[k] = v
	}
	clone.Currencies = make(map[string]int, len(s.Currencies))
	for k, v := range s.Currencies {
		clone.Currencies[k] = v
	}
	return &clone
}

// UserStats holds a user's lifetime totals and per-period buckets
type UserStats struct {
	Username        string
	TotalBets       int
	TotalWageredUSD decimal.Decimal
	TotalPayoutUSD  decimal.Decimal
	TotalProfitUSD  decimal.Decimal

	buckets map[StatsPeriod]map[string]*PeriodStats
}

// NewUserStats creates empty stats for username
func NewUserStats(username string) *UserStats {
	return &UserStats{
		Username: username,
		buckets: map[StatsPeriod]map[string]*PeriodStats{
			StatsPeriodDaily:   {},
			StatsPeriodWeekly:  {},
			StatsPeriodMonthly: {},
		},
	}
}

// Apply folds a bet into lifetime totals and its daily, weekly and monthly buckets
func (u *UserStats) Apply(bet *Bet) {
	u.TotalBets++
	u.TotalWageredUSD = u.TotalWageredUSD.Add(bet.BetAmountUSD)
	if bet.Won() {
		u.TotalPayoutUSD = u.TotalPayoutUSD.Add(bet.PayoutUSD)
	}
	u.TotalProfitUSD = u.TotalProfitUSD.Add(bet.ProfitUSD())

	at := bet.PlacedAt()
	for period, buckets := range u.buckets {
		key := period.Key(at)
		bucket, ok := buckets[key]
		if !ok {
			bucket = NewPeriodStats()
			buckets[key] = bucket
		}
		bucket.Apply(bet)
	}
}

// Period returns a copy of the bucket containing at, or an empty bucket
func (u *UserStats) Period(period StatsPeriod, at time.Time) *PeriodStats {
	if bucket, ok := u.buckets[period][period.Key(at)]; ok {
		return bucket.Clone()
	}
	return NewPeriodStats()
}

// View returns copies of the buckets containing at plus lifetime totals
func (u *UserStats) View(at time.Time) *StatsView {
	allTime := u.AllTime()
	return &StatsView{
		Daily:   u.Period(StatsPeriodDaily, at),
		Weekly:  u.Period(StatsPeriodWeekly, at),
		Monthly: u.Period(StatsPeriodMonthly, at),
		AllTime: &allTime,
	}
}

// AllTime returns the lifetime totals
func (u *UserStats) AllTime() AllTimeStats {
	return AllTimeStats{
		TotalBets:       u.TotalBets,
		TotalWageredUSD: u.TotalWageredUSD,
		TotalPayoutUSD:  u.TotalPayoutUSD,
		TotalProfitUSD:  u.TotalProfitUSD,
	}
}

// AllTimeStats is the serializable lifetime summary
type AllTimeStats struct {
	TotalBets       int             `json:"totalBets"`
	TotalWageredUSD decimal.Decimal `json:"totalWageredUSD"`
	TotalPayoutUSD  decimal.Decimal `json:"totalPayoutUSD"`
	TotalProfitUSD  decimal.Decimal `json:"totalProfitUSD"`
}

// StatsView is the per-user stats response for a point in time
type StatsView struct {
	Daily   *PeriodStats  `json:"daily"`
	Weekly  *PeriodStats  `json:"weekly"`
	Monthly *PeriodStats  `json:"monthly"`
	AllTime *AllTimeStats `json:"allTime,omitempty"`
}

// StatsReport is a single period summary sent to a notification sink
type StatsReport struct {
	Username string
	Period   StatsPeriod
	Key      string
	Stats    *PeriodStats
}

// UserSummary is one row of the bettor list
type UserSummary struct {
	Username        string          `json:"username"`
	TotalBets       int             `json:"totalBets"`
	TotalWageredUSD decimal.Decimal `json:"totalWageredUSD"`
	TotalProfitUSD  decimal.Decimal `json:"totalProfitUSD"`
}
