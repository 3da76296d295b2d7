package model

import (
	"encoding/json"
	"time"

	"github.com/yungbote/relationgraph-backend/internal/utils"
)

// Timestamp is a UTC time that marshals in the store's second-precision
// naive layout. Unmarshal also accepts RFC3339 for upstream payloads.
type Timestamp struct{ time.Time }

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.UTC().Truncate(time.Second)}
}

func TimestampNow() Timestamp {
	return Timestamp{utils.Now()}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(utils.FormatTime(t.Time))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := utils.ParseTime(s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	t.Time = parsed.UTC()
	return nil
}
