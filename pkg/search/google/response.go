package google

import (
	"encoding/json"

	"github.com/pkg/errors"
	"google.golang.org/api/customsearch/v1"
)

type (
	Item              = customsearch.Result
	SearchInformation = customsearch.SearchSearchInformation
)

// Response is a decoded Custom Search API response.
type Response struct {
	*customsearch.Search
	raw []byte
}

// Raw returns the response body as received from the API, nil for responses
// that were not fetched.
func (r *Response) Raw() []byte {
	return r.raw
}

// DecodeResponse decodes a Custom Search API response body.
func DecodeResponse(data []byte) (*Response, error) {
	var search customsearch.Search
	if err := json.Unmarshal(data, &search); err != nil {
		return nil, errors.Wrap(err, "could not decode search response")
	}

	return &Response{
		Search: &search,
		raw:    data,
	}, nil
}

func emptyResponse() *Response {
	return &Response{
		Search: &customsearch.Search{},
	}
}

// Filter returns a copy of the response keeping only the items matching the
// given predicate. The raw body is left untouched.
func (r *Response) Filter(keep func(item *Item) bool) *Response {
	if r.Search == nil {
		return r
	}

	search := *r.Search
	search.Items = make([]*Item, 0, len(r.Items))

	for _, item := range r.Items {
		if item != nil && keep(item) {
			search.Items = append(search.Items, item)
		}
	}

	return &Response{
		Search: &search,
		raw:    r.raw,
	}
}
