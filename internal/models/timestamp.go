package models

import (
	"fmt"
	"strings"
	"time"
)

// KST is the fixed offset every persisted timestamp is rendered in.
var KST = time.FixedZone("KST", 9*60*60)

const timestampLayout = "2006-01-02 15:04:05"

// Timestamp is a time.Time that serializes as "2006-01-02 15:04:05" in KST,
// matching the on-disk transaction log format.
type Timestamp time.Time

// Now returns the current time as a Timestamp.
func Now() Timestamp {
	return Timestamp(time.Now().In(KST))
}

// Time returns the underlying time.Time.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

func (t Timestamp) String() string {
	return time.Time(t).In(KST).Format(timestampLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := time.ParseInLocation(timestampLayout, s, KST)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	*t = Timestamp(parsed)
	return nil
}
