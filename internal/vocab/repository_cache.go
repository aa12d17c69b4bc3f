package vocab

// Cached datasets are shared between callers; callers treat them as read-only.

func (r *Repository) getCachedDataset(book BookKey) (*Dataset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dataset, ok := r.cache[book]
	return dataset, ok
}

func (r *Repository) setCachedDataset(dataset *Dataset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[dataset.BookKey] = dataset
}

// CachedBooks lists the books whose datasets are currently in memory.
func (r *Repository) CachedBooks() []BookKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]BookKey, 0, len(r.cache))
	for _, key := range bookKeys {
		if _, ok := r.cache[key]; ok {
			out = append(out, key)
		}
	}
	return out
}
