package config

import "maps"

// SiteProfile holds per-site overrides for crawl behavior.
// Keys in the profile file are hostnames (e.g., "docs.example.com").
type SiteProfile struct {
	// MaxPages overrides the global page cap for this site.
	// Zero means use the global value.
	MaxPages int `yaml:"maxPages,omitempty"`

	// MaxDepth overrides the global depth cap for this site.
	// Zero means use the global value.
	MaxDepth int `yaml:"maxDepth,omitempty"`

	// MinRelevance overrides the global acceptance threshold.
	// Zero means use the global value.
	MinRelevance float64 `yaml:"minRelevance,omitempty"`

	// Headers are custom HTTP headers sent with requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// CrawlDelay overrides the politeness delay, in milliseconds.
	// Zero means use the global value.
	CrawlDelayMillis int `yaml:"crawlDelayMillis,omitempty"`
}

// File represents the structure of the .rufus profile file.
type File struct {
	// Sites maps hostnames to their site-specific profiles.
	Sites map[string]SiteProfile `yaml:"sites,omitempty"`

	// Defaults is applied to every site unless overridden.
	Defaults SiteProfile `yaml:"defaults,omitempty"`
}

// ProfileFor returns the merged profile for a hostname: defaults overlaid
// with the site-specific entry, if any. The header map is cloned so merging
// one site's headers never mutates the defaults shared by other sites.
func (f *File) ProfileFor(host string) SiteProfile {
	result := f.Defaults
	result.Headers = maps.Clone(f.Defaults.Headers)

	site, ok := f.Sites[host]
	if !ok {
		return result
	}

	if site.MaxPages > 0 {
		result.MaxPages = site.MaxPages
	}
	if site.MaxDepth > 0 {
		result.MaxDepth = site.MaxDepth
	}
	if site.MinRelevance > 0 {
		result.MinRelevance = site.MinRelevance
	}
	if site.CrawlDelayMillis > 0 {
		result.CrawlDelayMillis = site.CrawlDelayMillis
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(site.Headers))
		}
		for k, v := range site.Headers {
			result.Headers[k] = v
		}
	}
	return result
}
