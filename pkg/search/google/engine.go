package google

import (
	"context"

	"github.com/bornholm/googlesearch/pkg/search"
	"github.com/pkg/errors"
)

// Engine implements the search.Client interface on top of a Client.
type Engine struct {
	client *Client
	params map[string]string
}

// Search implements search.Client.
func (e *Engine) Search(ctx context.Context, query string) ([]search.Result, error) {
	items, err := e.client.Search(ctx, query, e.params)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	results := make([]search.Result, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		results = append(results, search.Result{
			Title:       item.Title,
			URL:         item.Link,
			Description: item.Snippet,
		})
	}

	return results, nil
}

// NewEngine creates a search.Client using the given client. The params are
// sent with every search, e.g. {"num": "10"}.
func NewEngine(client *Client, params map[string]string) *Engine {
	return &Engine{
		client: client,
		params: params,
	}
}

var _ search.Client = &Engine{}
