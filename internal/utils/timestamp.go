package utils

import "time"

// FormatUnixTimestamp renders unix seconds in ISO8601 (RFC3339, UTC).
func FormatUnixTimestamp(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}
