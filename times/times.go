// Package times provides timestamp bucketing and freshness validation for
// polled readings.
package times

import "time"

// NormalizedTimestamp snaps timestamp down to the nearest pollingInterval
// boundary and returns the aligned value together with the interval.
// Timestamps younger than one interval land in the first bucket, never at
// zero: downstream aggregation treats a zero timestamp as missing data.
// A non-positive interval is returned untouched with the raw timestamp.
func NormalizedTimestamp(pollingInterval, timestamp int64) (int64, int64) {
	if pollingInterval <= 0 {
		return timestamp, pollingInterval
	}

	aligned := (timestamp / pollingInterval) * pollingInterval
	if aligned == 0 {
		aligned = pollingInterval
	}
	return aligned, pollingInterval
}

// ValidateTimestamp reports whether timestamp is no older than maxAge
// seconds, measured against the current clock. Both arguments must be
// integers; anything else fails validation rather than erroring, since
// inbound agent data arrives untyped.
func ValidateTimestamp(timestamp, maxAge interface{}) bool {
	return ValidateTimestampAt(timestamp, maxAge, time.Now().Unix())
}

// ValidateTimestampAt is ValidateTimestamp with an injected reference clock.
// True iff maxAge is positive and 0 <= reference - timestamp <= maxAge.
func ValidateTimestampAt(timestamp, maxAge interface{}, reference int64) bool {
	ts, ok := asInt64(timestamp)
	if !ok {
		return false
	}
	age, ok := asInt64(maxAge)
	if !ok {
		return false
	}

	if age <= 0 {
		return false
	}

	delta := reference - ts
	return delta >= 0 && delta <= age
}

// asInt64 accepts integer kinds only. Strings, floats, and booleans are
// validation failures.
func asInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > 1<<63-1 {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}
