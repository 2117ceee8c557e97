package crawler

import "testing"

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "strips fragment",
			raw:  "https://example.com/page#section",
			want: "https://example.com/page",
		},
		{
			name: "strips trailing slash",
			raw:  "https://example.com/page/",
			want: "https://example.com/page",
		},
		{
			name: "strips root slash",
			raw:  "https://example.com/",
			want: "https://example.com",
		},
		{
			name: "lowercases scheme and host",
			raw:  "HTTPS://Example.COM/Page",
			want: "https://example.com/Page",
		},
		{
			name: "keeps query",
			raw:  "https://example.com/search?q=price",
			want: "https://example.com/search?q=price",
		},
		{
			name: "fragment and slash together",
			raw:  "https://example.com/page/#top",
			want: "https://example.com/page",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeURL(tt.raw); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSameRegisteredDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{
			name: "same host",
			a:    "https://example.com/a",
			b:    "https://example.com/b",
			want: true,
		},
		{
			name: "subdomain matches",
			a:    "https://example.com",
			b:    "https://docs.example.com/guide",
			want: true,
		},
		{
			name: "different domain",
			a:    "https://example.com",
			b:    "https://other.com",
			want: false,
		},
		{
			name: "shared public suffix is not shared domain",
			a:    "https://a.github.io",
			b:    "https://b.github.io",
			want: false,
		},
		{
			name: "unparseable never matches",
			a:    "://bad",
			b:    "https://example.com",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := SameRegisteredDomain(tt.a, tt.b); got != tt.want {
				t.Errorf("SameRegisteredDomain(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
