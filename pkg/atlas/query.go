package atlas

import (
	"net/url"
	"strconv"
)

// QueryParams represents query parameters for Bitbucket list requests. They
// are forwarded on the first page request only; subsequent pages follow the
// server's continuation URL, which already embeds them.
type QueryParams struct {
	// Query narrows down the response using the Bitbucket filtering
	// mini-language, e.g. `state="OPEN" AND author.nickname="jdoe"`.
	Query string

	// Sort names a response property to sort by, prefixed with "-" for
	// descending order.
	Sort string

	// Page requests a specific page number.
	Page int

	// PageLen requests a page size.
	PageLen int
}

// NewQueryParams creates empty query parameters.
func NewQueryParams() *QueryParams {
	return &QueryParams{}
}

// WithQuery sets the filter query.
func (p *QueryParams) WithQuery(query string) *QueryParams {
	p.Query = query

	return p
}

// WithSort sets the sort property.
func (p *QueryParams) WithSort(sort string) *QueryParams {
	p.Sort = sort

	return p
}

// WithPageLen sets the requested page size.
func (p *QueryParams) WithPageLen(pageLen int) *QueryParams {
	p.PageLen = pageLen

	return p
}

// ToValues converts the parameters to url.Values.
func (p *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if p.Query != "" {
		values.Set("q", p.Query)
	}

	if p.Sort != "" {
		values.Set("sort", p.Sort)
	}

	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}

	if p.PageLen > 0 {
		values.Set("pagelen", strconv.Itoa(p.PageLen))
	}

	return values
}
