package news

import (
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	DefaultWindow = 72 * time.Hour
	DefaultLimit  = 100
)

// DefaultDomains are the hosts whose stories may be persisted.
var DefaultDomains = []string{"bensbites.com", "therundown.ai"}

// Policy decides which merged articles survive a run.
type Policy struct {
	Now            time.Time
	Window         time.Duration
	AllowedDomains []string
	ExcludedSource string
	ExcludedDomain string
	Limit          int
}

// Rejections counts why articles were dropped.
type Rejections struct {
	Old       int
	Foreign   int
	Excluded  int
	Truncated int
}

// Total is the number of articles the policy removed.
func (r Rejections) Total() int {
	return r.Old + r.Foreign + r.Excluded + r.Truncated
}

// DefaultPolicy is the production policy evaluated at now.
func DefaultPolicy(now time.Time) Policy {
	return Policy{
		Now:            now,
		Window:         DefaultWindow,
		AllowedDomains: DefaultDomains,
		ExcludedSource: SourceReddit,
		ExcludedDomain: "reddit.com",
		Limit:          DefaultLimit,
	}
}

// Apply filters by recency, domain allowlist and source exclusion, then
// sorts newest first and truncates to the limit.
func (p Policy) Apply(articles []Article) ([]Article, Rejections) {
	var rej Rejections
	cutoff := p.Now.Add(-p.Window)

	kept := make([]Article, 0, len(articles))
	for _, a := range articles {
		host := hostOf(a.URL)
		switch {
		case a.PublishedAt.Before(cutoff):
			rej.Old++
		case !p.allowed(host):
			rej.Foreign++
		case p.excluded(a, host):
			rej.Excluded++
		default:
			kept = append(kept, a)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].PublishedAt.After(kept[j].PublishedAt.Time)
	})

	if p.Limit > 0 && len(kept) > p.Limit {
		rej.Truncated = len(kept) - p.Limit
		kept = kept[:p.Limit]
	}
	return kept, rej
}

func (p Policy) allowed(host string) bool {
	for _, d := range p.AllowedDomains {
		if underDomain(host, d) {
			return true
		}
	}
	return false
}

func (p Policy) excluded(a Article, host string) bool {
	if p.ExcludedSource != "" && a.Source == p.ExcludedSource {
		return true
	}
	return p.ExcludedDomain != "" && underDomain(host, p.ExcludedDomain)
}

func underDomain(host, domain string) bool {
	domain = strings.ToLower(domain)
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func hostOf(link string) string {
	u, err := url.Parse(CanonicalURL(link))
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
