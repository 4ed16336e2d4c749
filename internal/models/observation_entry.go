package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ObservationEntry is a single timestamped behavior record within an observation.
// Timestamp is the short clock token captured while recording, such as "1305".
type ObservationEntry struct {
	ID            string    `db:"id" json:"id"`
	ObservationID string    `db:"observation_id" json:"observationId"`
	Timestamp     string    `db:"timestamp" json:"timestamp"`
	TimeOfDay     string    `db:"time_of_day" json:"timeOfDay"`
	Behavior      string    `db:"behavior" json:"behavior"`
	Context       string    `db:"context" json:"context"`
	Antecedent    *string   `db:"antecedent" json:"antecedent,omitempty"`
	Consequence   *string   `db:"consequence" json:"consequence,omitempty"`
	Setting       *string   `db:"setting" json:"setting,omitempty"`
	Peers         *string   `db:"peers" json:"peers,omitempty"`
	Duration      *int      `db:"duration" json:"duration,omitempty"`
	Intensity     *string   `db:"intensity" json:"intensity,omitempty"`
	Frequency     *int      `db:"frequency" json:"frequency,omitempty"`
	Intervention  *string   `db:"intervention" json:"intervention,omitempty"`
	Notes         *string   `db:"notes" json:"notes,omitempty"`
	Tags          TagSet    `db:"tags" json:"tags"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// TagSet is stored as a JSON array in a text column.
type TagSet []string

// Value implements driver.Valuer.
func (t TagSet) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (t *TagSet) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = TagSet{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("scan tags: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*t = TagSet{}
		return nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return fmt.Errorf("scan tags: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}
	*t = tags
	return nil
}
