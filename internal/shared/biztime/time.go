// Package biztime keeps every stored timestamp in UTC and converts to the
// configured display timezone only at the output edge.
package biztime

import (
	"sync"
	"time"
)

const DefaultTimezone = "UTC"

var mu sync.RWMutex

var bizLocation = time.UTC

// Init sets the display timezone. An empty name keeps UTC.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return err
	}
	mu.Lock()
	bizLocation = loc
	mu.Unlock()
	return nil
}

func Location() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	return bizLocation
}

func NowUTC() time.Time {
	return time.Now().UTC()
}

// ToBizTimezone converts t for display.
func ToBizTimezone(t time.Time) time.Time {
	return t.In(Location())
}
