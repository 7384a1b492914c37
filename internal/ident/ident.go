// Package ident provides date/time formatting and timestamp-derived
// identifiers for devices and readings.
package ident

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04:05"
	stampLayout = "20060102150405"

	suffixSpace = 10000
)

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// Date formats t as YYYY-MM-DD.
func Date(t time.Time) string {
	return t.Format(dateLayout)
}

// Clock formats t as HH:MM:SS.
func Clock(t time.Time) string {
	return t.Format(clockLayout)
}

// Timestamp concatenates Date and Clock. The result sorts
// chronologically and is the form used by range queries.
func Timestamp(t time.Time) string {
	return Date(t) + " " + Clock(t)
}

// DeviceID derives a device identifier from t, with second precision.
func DeviceID(t time.Time) string {
	return "dev-" + t.Format(stampLayout)
}

// ReadingID derives a reading identifier from t plus a random suffix.
// Identifiers are lexicographically time-ordered by construction, but
// not globally monotonic across concurrent producers: two readings
// taken in the same microsecond order by their random suffix.
func ReadingID(t time.Time, r *rand.Rand) string {
	micros := t.Nanosecond() / int(time.Microsecond)
	return fmt.Sprintf("%s%06d%04d", t.Format(stampLayout), micros, r.Intn(suffixSpace))
}

// NewDeviceID returns a device identifier for the current time.
func NewDeviceID() string {
	return DeviceID(time.Now())
}

// NewReadingID returns a reading identifier for the current time.
func NewReadingID() string {
	rngMu.Lock()
	defer rngMu.Unlock()
	return ReadingID(time.Now(), rng)
}
