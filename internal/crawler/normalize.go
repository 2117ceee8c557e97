package crawler

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// NormalizeURL canonicalizes a URL for visited-set deduplication: the
// fragment is dropped, scheme and host are lowercased, and any trailing
// slash is removed. Unparseable input passes through unchanged.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	return strings.TrimSuffix(u.String(), "/")
}

// SameRegisteredDomain reports whether two URLs share a registered domain
// (eTLD+1), so that docs.example.com and www.example.com count as the same
// site. URLs whose domain cannot be derived never match.
func SameRegisteredDomain(a, b string) bool {
	domainA := registeredDomain(a)
	if domainA == "" {
		return false
	}
	return domainA == registeredDomain(b)
}

func registeredDomain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(u.Hostname())
	if err != nil {
		return ""
	}
	return domain
}
