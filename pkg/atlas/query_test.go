package atlas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryParams_ToValues_Empty(t *testing.T) {
	values := NewQueryParams().ToValues()
	assert.Empty(t, values)
}

func TestQueryParams_ToValues(t *testing.T) {
	params := NewQueryParams().
		WithQuery(`state="OPEN" AND author.nickname="jdoe"`).
		WithSort("-created_on").
		WithPageLen(25)
	params.Page = 3

	values := params.ToValues()

	assert.Equal(t, `state="OPEN" AND author.nickname="jdoe"`, values.Get("q"))
	assert.Equal(t, "-created_on", values.Get("sort"))
	assert.Equal(t, "3", values.Get("page"))
	assert.Equal(t, "25", values.Get("pagelen"))
}

func TestQueryParams_ZeroValuesOmitted(t *testing.T) {
	params := &QueryParams{Query: "", Sort: "", Page: 0, PageLen: 0}

	values := params.ToValues()

	assert.NotContains(t, values, "q")
	assert.NotContains(t, values, "sort")
	assert.NotContains(t, values, "page")
	assert.NotContains(t, values, "pagelen")
}
