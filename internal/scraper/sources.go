package scraper

import "sort"

// Extractor kinds accepted in the sources file.
const (
	KindRundown   = "rundown"
	KindBensBites = "bensbites"
)

var extractors = map[string]Extractor{
	KindRundown:   Rundown{},
	KindBensBites: BensBites{},
}

// ExtractorFor returns the extractor registered under kind.
func ExtractorFor(kind string) (Extractor, bool) {
	e, ok := extractors[kind]
	return e, ok
}

// Kinds lists the registered extractor kinds, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(extractors))
	for k := range extractors {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
