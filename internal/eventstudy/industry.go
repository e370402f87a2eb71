package eventstudy

import (
	"sort"
	"time"
)

// Industry labels produced by IndustryFromSIC. IndustryOther doubles as the
// bucket for entities with no assignment history at a date.
const (
	IndustryTechnology     = "Technology"
	IndustryCommunications = "Communications"
	IndustryFinancial      = "Financial"
	IndustryHealthcare     = "Healthcare"
	IndustryRetail         = "Retail"
	IndustryManufacturing  = "Manufacturing"
	IndustryOther          = "Other"
)

// MinIndustryMembers is the smallest bucket that yields a benchmark return.
// A bucket holding only the event firm itself would benchmark the firm
// against its own return, so singleton buckets report no benchmark.
const MinIndustryMembers = 2

// IndustryFromSIC maps a four-digit SIC code to its industry label. The
// specific ranges win over the broad manufacturing range, so the checks run
// narrowest first.
func IndustryFromSIC(code int) string {
	switch {
	case code >= 3570 && code <= 3579, code >= 3600 && code <= 3679, code >= 7370 && code <= 7379:
		return IndustryTechnology
	case code >= 4800 && code <= 4899:
		return IndustryCommunications
	case code >= 6000 && code <= 6999:
		return IndustryFinancial
	case code >= 2830 && code <= 2839, code >= 8000 && code <= 8099:
		return IndustryHealthcare
	case code >= 5200 && code <= 5999:
		return IndustryRetail
	case code >= 2000 && code <= 3999:
		return IndustryManufacturing
	default:
		return IndustryOther
	}
}

// IndustryAssignment records that an entity belongs to an industry from
// EffectiveDate onward, until a later assignment replaces it.
type IndustryAssignment struct {
	EntityID      string    `json:"entity_id"`
	EffectiveDate time.Time `json:"effective_date"`
	Label         string    `json:"label"`
}

// IsValid checks that the assignment carries an entity, date, and label.
func (a IndustryAssignment) IsValid() bool {
	return a.EntityID != "" && !a.EffectiveDate.IsZero() && a.Label != ""
}

type industryDay struct {
	label string
	date  time.Time
}

// IndustryBenchmark benchmarks each entity against the equal-weighted mean
// return of its industry peers. The per-day means are computed once from the
// full firm cross-section at construction; lookups afterwards are map reads,
// safe for concurrent use.
type IndustryBenchmark struct {
	assignments map[string][]IndustryAssignment
	returns     map[industryDay]float64
}

// NewIndustryBenchmark builds the benchmark from all firm return series and
// the time-varying industry assignments. Assignments forward-fill: an entity
// carries its most recent assignment at or before a date, and falls into the
// Other bucket before its first assignment. Buckets with fewer than
// MinIndustryMembers on a date yield no benchmark return for that date.
func NewIndustryBenchmark(firms map[string]*ReturnSeries, assignments []IndustryAssignment) *IndustryBenchmark {
	byEntity := make(map[string][]IndustryAssignment)
	for _, a := range assignments {
		if !a.IsValid() {
			continue
		}
		a.EffectiveDate = NormalizeDate(a.EffectiveDate)
		byEntity[a.EntityID] = append(byEntity[a.EntityID], a)
	}
	for id := range byEntity {
		sort.SliceStable(byEntity[id], func(i, j int) bool {
			return byEntity[id][i].EffectiveDate.Before(byEntity[id][j].EffectiveDate)
		})
	}

	b := &IndustryBenchmark{
		assignments: byEntity,
		returns:     make(map[industryDay]float64),
	}

	sums := make(map[industryDay]float64)
	counts := make(map[industryDay]int)
	for id, series := range firms {
		for i := 0; i < series.Len(); i++ {
			key := industryDay{label: b.labelFor(id, series.Date(i)), date: series.Date(i)}
			sums[key] += series.Return(i)
			counts[key]++
		}
	}
	for key, n := range counts {
		if n >= MinIndustryMembers {
			b.returns[key] = sums[key] / float64(n)
		}
	}

	return b
}

// labelFor resolves the forward-filled industry label of an entity on a date.
func (b *IndustryBenchmark) labelFor(entityID string, date time.Time) string {
	history := b.assignments[entityID]
	if len(history) == 0 {
		return IndustryOther
	}

	// Last assignment with EffectiveDate at or before the date.
	i := sort.Search(len(history), func(i int) bool {
		return history[i].EffectiveDate.After(date)
	})
	if i == 0 {
		return IndustryOther
	}
	return history[i-1].Label
}

// Return reports the equal-weighted mean return of the entity's industry on
// the date. Dates where the bucket has fewer than MinIndustryMembers report
// no return.
func (b *IndustryBenchmark) Return(entityID string, date time.Time) (float64, bool) {
	day := NormalizeDate(date)
	v, ok := b.returns[industryDay{label: b.labelFor(entityID, day), date: day}]
	return v, ok
}

// Label reports the entity's forward-filled industry label on the date.
func (b *IndustryBenchmark) Label(entityID string, date time.Time) string {
	return b.labelFor(entityID, NormalizeDate(date))
}
