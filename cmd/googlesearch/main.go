package main

import (
	"github.com/bornholm/googlesearch/internal/command"
	"github.com/bornholm/googlesearch/internal/command/schema"
	"github.com/bornholm/googlesearch/internal/command/search"
)

var version = "dev"

func main() {
	command.Main(
		"googlesearch",
		version,
		"Query the Google Custom Search JSON API",
		search.Search(),
		schema.Schema(),
	)
}
