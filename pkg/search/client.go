package search

import "context"

type Client interface {
	Search(ctx context.Context, search string) ([]Result, error)
}

type Result struct {
	Title       string `json:"title" yaml:"title"`
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description" yaml:"description"`
}
