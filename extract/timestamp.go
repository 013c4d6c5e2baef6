package extract

import (
	"time"
)

// Epoch values above this threshold are interpreted as milliseconds.
// Android call and message stores commonly record millisecond epochs;
// everything at or below is treated as whole seconds.
const millisThreshold = int64(1_000_000_000_000)

// Bounds on representable epoch seconds. Values outside collapse to
// absent rather than producing nonsense dates from corrupt cells.
const (
	minEpochSeconds = int64(-62135596800) // 0001-01-01T00:00:00Z
	maxEpochSeconds = int64(253402300799) // 9999-12-31T23:59:59Z
)

// NormalizeTimestamp converts a raw cell value into a canonical UTC
// point in time. It is total over its domain: absent, non-numeric, and
// out-of-range inputs yield nil, never a panic or error.
//
// Integers and floats above the millisecond threshold are divided by
// 1000; digit-only strings are parsed as integers and follow the same
// rule.
func NormalizeTimestamp(value any) *time.Time {
	switch v := value.(type) {
	case nil:
		return nil
	case int64:
		return fromEpoch(v, 0)
	case int:
		return fromEpoch(int64(v), 0)
	case int32:
		return fromEpoch(int64(v), 0)
	case uint64:
		if v > uint64(maxEpochSeconds)*1000 {
			return nil
		}
		return fromEpoch(int64(v), 0)
	case float64:
		return fromEpochFloat(v)
	case float32:
		return fromEpochFloat(float64(v))
	case string:
		return fromDigits(v)
	case []byte:
		return fromDigits(string(v))
	default:
		return nil
	}
}

func fromEpoch(v int64, nsec int64) *time.Time {
	sec := v
	if v > millisThreshold {
		sec = v / 1000
		nsec = (v % 1000) * int64(time.Millisecond)
	}
	if sec < minEpochSeconds || sec > maxEpochSeconds {
		return nil
	}
	t := time.Unix(sec, nsec).UTC()
	return &t
}

func fromEpochFloat(v float64) *time.Time {
	if v != v { // NaN
		return nil
	}
	if v > float64(millisThreshold) {
		v /= 1000
	}
	if v < float64(minEpochSeconds) || v > float64(maxEpochSeconds) {
		return nil
	}
	sec := int64(v)
	nsec := int64((v - float64(sec)) * float64(time.Second))
	t := time.Unix(sec, nsec).UTC()
	return &t
}

// fromDigits parses digit-only strings. Signed or otherwise
// non-numeric strings are absent, matching the source tools' habit of
// mixing free text into timestamp columns.
func fromDigits(s string) *time.Time {
	if s == "" {
		return nil
	}
	var v int64
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil
		}
		d := int64(r - '0')
		if v > (1<<63-1-d)/10 {
			return nil // overflow
		}
		v = v*10 + d
	}
	return fromEpoch(v, 0)
}
