package attendance

import (
	"sort"
	"time"
)

var NowFunc = time.Now // mockable

// Aggregator groups attendance records into period buckets.
//
// Months are the default bucket. When WeeklyCurrentMonth is set and the current date falls within
// the most recent month of the data, that month is split into week buckets instead, so the period
// axis of a report mixes month-level and week-level buckets and is not uniformly spaced.
type Aggregator struct {
	WeeklyCurrentMonth bool
	Location           *time.Location   // defaults to UTC
	Now                func() time.Time // defaults to NowFunc
}

func (agg Aggregator) location() *time.Location {
	if agg.Location != nil {
		return agg.Location
	}
	return time.UTC
}

func (agg Aggregator) now() time.Time {
	if agg.Now != nil {
		return agg.Now().In(agg.location())
	}
	return NowFunc().In(agg.location())
}

// Aggregate computes a PeriodAggregate per period key.
// Records without a timestamp are dropped and counted in Aggregation.Dropped.
func (agg Aggregator) Aggregate(records []Record) Aggregation {
	loc := agg.location()
	result := Aggregation{Periods: make(map[string]PeriodAggregate)}

	// find the most recent month represented in the data
	var latest PeriodKey
	var hasLatest bool
	for _, r := range records {
		if r.Timestamp.IsZero() {
			continue
		}
		k := MonthKey(r.Timestamp.In(loc))
		if !hasLatest || latest.Less(k) {
			latest = k
			hasLatest = true
		}
	}
	splitWeeks := agg.WeeklyCurrentMonth && hasLatest && MonthKey(agg.now()).SameMonth(latest)

	keys := make(map[string]PeriodKey)
	for _, r := range records {
		if r.Timestamp.IsZero() {
			result.Dropped++
			continue
		}
		t := r.Timestamp.In(loc)
		k := MonthKey(t)
		if splitWeeks && k.SameMonth(latest) {
			k = WeekKey(t)
		}

		ks := k.String()
		pa, ok := result.Periods[ks]
		if !ok {
			pa = PeriodAggregate{Period: ks, Key: k}
			keys[ks] = k
		}
		pa.Total++
		if r.Present {
			pa.Present++
		}
		result.Periods[ks] = pa
	}

	result.Keys = make([]string, 0, len(result.Periods))
	for ks, pa := range result.Periods {
		pa.Ratio = float64(pa.Present) / float64(pa.Total)
		result.Periods[ks] = pa
		result.Keys = append(result.Keys, ks)
	}
	sort.Slice(result.Keys, func(i, j int) bool {
		return keys[result.Keys[i]].Less(keys[result.Keys[j]])
	})
	return result
}

// AggregateRaw parses then aggregates source rows. Malformed rows are dropped and counted.
func (agg Aggregator) AggregateRaw(raws []RawRecord) Aggregation {
	records := make([]Record, 0, len(raws))
	var malformed int
	for _, raw := range raws {
		r, err := ParseRecord(raw)
		if err != nil {
			malformed++
			continue
		}
		records = append(records, r)
	}
	result := agg.Aggregate(records)
	result.Dropped += malformed
	return result
}
