package model

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// JobListing is one record returned by a listing source.
type JobListing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Skills      SkillList `json:"skills,omitempty"`
	PostedAt    time.Time `json:"posted_at"`
}

// postedAtLayouts are tried in order; layouts without a zone are read as UTC.
var postedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// UnmarshalJSON implements json.Unmarshaler. posted_at accepts RFC 3339,
// zone-less ISO 8601 timestamps and plain dates.
func (l *JobListing) UnmarshalJSON(data []byte) error {
	type plain JobListing
	var raw struct {
		plain
		PostedAt string `json:"posted_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = JobListing(raw.plain)
	l.PostedAt = time.Time{}
	if raw.PostedAt == "" {
		return nil
	}
	for _, layout := range postedAtLayouts {
		if t, err := time.ParseInLocation(layout, raw.PostedAt, time.UTC); err == nil {
			l.PostedAt = t
			return nil
		}
	}
	return fmt.Errorf("posted_at: unrecognized timestamp %q", raw.PostedAt)
}

// HasSkills reports whether the listing carries an explicit skill list.
func (l JobListing) HasSkills() bool {
	return len(l.Skills) > 0
}

// SkillList is the explicit skills field of a listing. It decodes from a
// JSON array or from a single comma-delimited string. Array entries that
// are not strings are dropped.
type SkillList []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *SkillList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	switch data[0] {
	case '[':
		var raw []any
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("skills: %w", err)
		}
		items := make([]string, 0, len(raw))
		for _, v := range raw {
			if str, ok := v.(string); ok {
				items = append(items, str)
			}
		}
		*s = items
	case '"':
		var joined string
		if err := json.Unmarshal(data, &joined); err != nil {
			return fmt.Errorf("skills: %w", err)
		}
		*s = SplitSkills(joined)
	default:
		return fmt.Errorf("skills: expected array or string, got %q", data[:1])
	}
	return nil
}

// SplitSkills splits a comma-delimited skill string. Tokens are returned
// untrimmed; empty input yields nil.
func SplitSkills(joined string) SkillList {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	return strings.Split(joined, ",")
}
