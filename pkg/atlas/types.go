package atlas

import (
	"fmt"
	"time"
)

// TimeFormat is the textual timestamp format used by Bitbucket Cloud
// (microsecond precision, numeric zone offset).
const TimeFormat = "2006-01-02T15:04:05.000000-0700"

// ParseTime parses a Bitbucket Cloud timestamp. A malformed value is a
// propagated format error, never silently replaced by a default.
func ParseTime(value string) (time.Time, error) {
	parsed, err := time.Parse(TimeFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", value, err)
	}

	return parsed, nil
}

// Page is the Bitbucket Cloud paged envelope. Next holds the server-embedded
// continuation URL; its absence signals the end of the sequence.
type Page[T any] struct {
	Size     int    `json:"size,omitempty"     yaml:"size,omitempty"`
	Page     int    `json:"page,omitempty"     yaml:"page,omitempty"`
	PageLen  int    `json:"pagelen,omitempty"  yaml:"pagelen,omitempty"`
	Next     string `json:"next,omitempty"     yaml:"next,omitempty"`
	Previous string `json:"previous,omitempty" yaml:"previous,omitempty"`
	Values   []T    `json:"values"             yaml:"values"`
}

// PagedList is the Jira Service Desk paged envelope. Paging is caller-driven
// via start/limit; IsLastPage marks the final page.
type PagedList[T any] struct {
	Size       int  `json:"size"       yaml:"size"`
	Start      int  `json:"start"      yaml:"start"`
	Limit      int  `json:"limit"      yaml:"limit"`
	IsLastPage bool `json:"isLastPage" yaml:"isLastPage"`
	Values     []T  `json:"values"     yaml:"values"`
}

// Date is the Service Desk composite date representation.
type Date struct {
	ISO8601     string `json:"iso8601"     yaml:"iso8601"`
	Jira        string `json:"jira"        yaml:"jira"`
	Friendly    string `json:"friendly"    yaml:"friendly"`
	EpochMillis int64  `json:"epochMillis" yaml:"epochMillis"`
}

// Time converts the composite date to a time.Time using the millisecond
// epoch, which is always populated by the server.
func (d Date) Time() time.Time {
	return time.UnixMilli(d.EpochMillis)
}
