// Package buckets shapes arbitrary time ranges into per-hour index lookups.
//
// The orders table exposes no native range scan across partition keys: it can
// only be queried one hour bucket at a time (equality on pickupHourTs), with
// an optional filter on pickupTimeTs inside the bucket. The planner turns a
// [start, end] range into the minimal ordered set of such lookups. The same
// hour truncation is used on the write path to derive pickupHourTs, so the
// bucket key can never drift between reads and writes.
package buckets

import "time"

// Query is a single bucket lookup. HourTs is the epoch-second bucket key.
// MinTs/MaxTs, when set, bound pickupTimeTs inclusively within the bucket.
type Query struct {
	HourTs int64
	MinTs  *int64
	MaxTs  *int64
}

// Hour truncates t down to the top of its containing hour.
func Hour(t time.Time) time.Time {
	return t.Truncate(time.Hour)
}

// Plan enumerates the hour buckets touched by [start, end] in ascending
// order. A single-bucket range carries a two-sided predicate, since the range
// is finer than the hour granularity. Across multiple buckets only the first
// and last need filtering: every hour strictly in between is fully contained
// in the range. Requires start <= end.
func Plan(start, end time.Time) []Query {
	startTs := start.Unix()
	endTs := end.Unix()

	hours := hoursBetween(Hour(start), Hour(end))
	if len(hours) == 1 {
		return []Query{{HourTs: hours[0].Unix(), MinTs: &startTs, MaxTs: &endTs}}
	}

	queries := make([]Query, 0, len(hours))
	for i, h := range hours {
		q := Query{HourTs: h.Unix()}
		if i == 0 {
			q.MinTs = &startTs
		}
		if i == len(hours)-1 {
			q.MaxTs = &endTs
		}
		queries = append(queries, q)
	}
	return queries
}

func hoursBetween(start, end time.Time) []time.Time {
	hours := []time.Time{start}
	for h := start; h.Before(end); {
		h = h.Add(time.Hour)
		hours = append(hours, h)
	}
	return hours
}
