package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ReleaseDate is a calendar date stored in a SQL date column and exchanged
// as "YYYY-MM-DD".
type ReleaseDate time.Time

func NewReleaseDate(year int, month time.Month, day int) ReleaseDate {
	return ReleaseDate(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// ParseReleaseDate accepts "YYYY-MM-DD" and full RFC3339 timestamps, keeping
// only the date part.
func ParseReleaseDate(s string) (ReleaseDate, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return ReleaseDate(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return ReleaseDate{}, fmt.Errorf("invalid release date %q, expected YYYY-MM-DD", s)
	}
	return NewReleaseDate(t.Year(), t.Month(), t.Day()), nil
}

func (d ReleaseDate) Time() time.Time {
	return time.Time(d)
}

func (d ReleaseDate) IsZero() bool {
	return time.Time(d).IsZero()
}

func (d ReleaseDate) String() string {
	return time.Time(d).Format(DateLayout)
}

func (d ReleaseDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *ReleaseDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseReleaseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (ReleaseDate) GormDataType() string {
	return "date"
}

func (d ReleaseDate) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d *ReleaseDate) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		*d = NewReleaseDate(v.Year(), v.Month(), v.Day())
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	case nil:
		*d = ReleaseDate{}
		return nil
	default:
		return fmt.Errorf("unsupported release date value %T", value)
	}
}

func (d *ReleaseDate) scanString(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return err
	}
	*d = ReleaseDate(t)
	return nil
}
