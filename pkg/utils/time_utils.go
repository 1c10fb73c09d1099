package utils

import "time"

func NowUnixSeconds() int64 { return time.Now().Unix() }

// ExtendExpiry applies the stacking rule shared by payment approval, coupon
// redemption and admin grants: the new expiry is max(now, current) + days, so
// unexpired time is added to, never replaced.
func ExtendExpiry(current *int64, now int64, days int) int64 {
	base := now
	if current != nil && *current > now {
		base = *current
	}
	return base + int64(days)*24*3600
}

// FromUnixUTC converts an epoch value in seconds to UTC.
// Returns zero time if t<=0 to let callers decide how to render.
func FromUnixUTC(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0).UTC()
}

func FormatRFC3339UTC(t int64) string {
	if t <= 0 {
		return ""
	}
	return FromUnixUTC(t).Format(time.RFC3339)
}
