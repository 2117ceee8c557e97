package extractor

import (
	"context"

	"github.com/Risho92/rufus/internal/genai"
	"github.com/Risho92/rufus/internal/model"
)

// FilterLinks asks the text-generation service which candidate links are
// worth following for the strategy. Candidates are deduplicated first, with
// order preserved; the result is always a subset of candidates.
func FilterLinks(ctx context.Context, generator genai.TextGenerator, strategy *model.CrawlStrategy, candidates []string) ([]string, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool, len(candidates))
	unique := make([]string, 0, len(candidates))
	for _, link := range candidates {
		if link == "" || seen[link] {
			continue
		}
		seen[link] = true
		unique = append(unique, link)
	}

	return generator.SelectLinks(ctx, strategy, unique)
}
