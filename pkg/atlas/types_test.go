package atlas

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	parsed, err := ParseTime("2024-03-01T10:30:15.123456+0200")
	require.NoError(t, err)

	assert.Equal(t, 2024, parsed.Year())
	assert.Equal(t, time.March, parsed.Month())
	assert.Equal(t, 123456000, parsed.Nanosecond())

	_, offset := parsed.Zone()
	assert.Equal(t, 2*3600, offset)
}

func TestParseTime_Malformed(t *testing.T) {
	_, err := ParseTime("2024-03-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2024-03-01")

	_, err = ParseTime("")
	require.Error(t, err)
}

func TestPage_Unmarshal(t *testing.T) {
	raw := `{
		"size": 3,
		"page": 1,
		"pagelen": 2,
		"next": "https://api.bitbucket.org/2.0/repositories/acme/widgets/pullrequests?page=2",
		"values": ["a", "b"]
	}`

	var page Page[string]
	require.NoError(t, json.Unmarshal([]byte(raw), &page))

	assert.Equal(t, 3, page.Size)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.PageLen)
	assert.NotEmpty(t, page.Next)
	assert.Empty(t, page.Previous)
	assert.Equal(t, []string{"a", "b"}, page.Values)
}

func TestPagedList_Unmarshal(t *testing.T) {
	raw := `{"size": 1, "start": 0, "limit": 50, "isLastPage": true, "values": ["x"]}`

	var list PagedList[string]
	require.NoError(t, json.Unmarshal([]byte(raw), &list))

	assert.True(t, list.IsLastPage)
	assert.Equal(t, []string{"x"}, list.Values)
}

func TestDate_Time(t *testing.T) {
	date := Date{
		ISO8601:     "2024-01-15T00:00:00+0000",
		EpochMillis: 1705276800000,
	}

	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), date.Time().UTC())
	assert.True(t, Date{}.Time().Before(time.Date(1971, 1, 1, 0, 0, 0, 0, time.UTC)))
}
