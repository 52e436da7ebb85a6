package news

// Merge combines a fresh scrape with the previously stored collection.
// Fresh articles always win on an id collision; prior articles that were
// not rediscovered are kept. Fresh entries come first, in scrape order.
func Merge(fresh, prior []Article) []Article {
	index := make(map[string]int, len(fresh)+len(prior))
	merged := make([]Article, 0, len(fresh)+len(prior))

	for _, a := range fresh {
		if i, ok := index[a.ID]; ok {
			// a later duplicate in the same scrape refreshes the entry in place
			merged[i] = a
			continue
		}
		index[a.ID] = len(merged)
		merged = append(merged, a)
	}

	for _, a := range prior {
		if _, ok := index[a.ID]; ok {
			continue
		}
		index[a.ID] = len(merged)
		merged = append(merged, a)
	}

	return merged
}
