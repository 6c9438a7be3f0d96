package repository

// CacheRepository caches serialized schedule summaries keyed by loan terms.
// The computation is deterministic, so cached values never go stale.
type CacheRepository interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}
