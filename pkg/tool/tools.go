package tool

import (
	"github.com/bornholm/genai/llm"
	"github.com/bornholm/googlesearch/pkg/search/google"
)

// GetDefaultResearchTools returns the research tools backed by the given
// Custom Search client
func GetDefaultResearchTools(client *google.Client) []llm.Tool {
	return []llm.Tool{
		NewWebSearchTool(google.NewEngine(client, map[string]string{"num": "10"})),
	}
}
