package plm

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// TimestampFields are the date-bearing fields the backend stores as epoch
// millisecond integers.
var TimestampFields = []string{
	"hireDate", "productionDate", "startTime", "endTime",
	"plannedStartTime", "plannedEndTime", "actualStartTime", "actualEndTime",
	"operateTime", "effectiveFrom", "effectiveTo",
}

// NormalizeTimestamps converts the known date-bearing fields of params to
// epoch milliseconds, in place. Integer values no longer match the type
// switch, so re-running on an already-converted payload is a no-op. An
// unparsable string is left untouched with a warning: the backend is the
// desired failure point for a truly malformed field.
func NormalizeTimestamps(params map[string]interface{}) {
	for _, name := range TimestampFields {
		value, present := params[name]
		if !present || value == nil {
			continue
		}
		switch v := value.(type) {
		case time.Time:
			params[name] = epochMillis(v)
		case string:
			millis, err := parseTimeString(v)
			if err != nil {
				logrus.Warnf("field %s holds unparsable time %q, left as-is: %v", name, v, err)
				continue
			}
			params[name] = millis
		}
	}
}

func epochMillis(t time.Time) int64 {
	return t.UTC().UnixNano() / int64(time.Millisecond)
}

// parseTimeString accepts an ISO-8601 local date time, a bare date (taken
// as midnight UTC), or a full RFC3339 instant.
func parseTimeString(s string) (int64, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.UTC); err == nil {
		return epochMillis(t), nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC); err == nil {
		return epochMillis(t), nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC); err == nil {
		return epochMillis(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return epochMillis(t), nil
	}
	return 0, fmt.Errorf("unsupported time format %q", s)
}
