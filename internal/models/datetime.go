package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateTime is a timestamp submitted by a client. Besides RFC 3339 it accepts
// a bare date, stored as the start of that day in UTC, and a local date-time
// without offset, read as UTC.
type DateTime struct{ time.Time }

var dateTimeLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s := strings.TrimSpace(raw)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid datetime %q: use a date (YYYY-MM-DD) or RFC 3339", raw)
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return d.Time.MarshalJSON()
}
