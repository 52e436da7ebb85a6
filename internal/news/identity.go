package news

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// CanonicalURL drops tracking query strings and fragments from a link.
// A slash sitting right before the query ("/p/a/?utm=x") goes with it.
func CanonicalURL(link string) string {
	link = strings.TrimSpace(link)
	if i := strings.IndexByte(link, '#'); i >= 0 {
		link = link[:i]
	}
	if i := strings.Index(link, "/?"); i >= 0 {
		return link[:i]
	}
	if i := strings.IndexByte(link, '?'); i >= 0 {
		return link[:i]
	}
	return link
}

// Identify derives the stable article id: md5 hex of the canonical URL.
// Ids produced by earlier runs stay valid because the hash never changes.
func Identify(a Article) string {
	sum := md5.Sum([]byte(CanonicalURL(a.URL)))
	return hex.EncodeToString(sum[:])
}
