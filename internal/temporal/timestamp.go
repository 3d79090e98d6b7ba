package temporal

import (
	"fmt"
	"time"
)

// Timestamp is a microsecond-resolution instant, the time domain every
// temporal value is built over (spec.md §3).
type Timestamp int64

// FromTime converts a time.Time to a Timestamp, truncating to
// microsecond resolution the way the external timestamp-arithmetic
// collaborator (spec.md §6) is expected to.
func FromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixMicro())
}

// Time converts back to a time.Time in UTC.
func (ts Timestamp) Time() time.Time {
	return time.UnixMicro(int64(ts)).UTC()
}

func (ts Timestamp) String() string {
	return ts.Time().Format(time.RFC3339Nano)
}

// Add returns ts shifted by d, truncated to microsecond resolution.
func (ts Timestamp) Add(d time.Duration) Timestamp {
	return ts + Timestamp(d.Microseconds())
}

// Sub returns the duration between ts and other (ts - other).
func (ts Timestamp) Sub(other Timestamp) time.Duration {
	return time.Duration(int64(ts)-int64(other)) * time.Microsecond
}

func fmtTS(ts Timestamp) string {
	return fmt.Sprintf("%s (%d us)", ts, int64(ts))
}
