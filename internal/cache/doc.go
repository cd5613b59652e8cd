// Package cache holds byte-block LRU caches for blob reads.
//
// ShardedLRUBlockCache spreads keys over 64 LRU shards hashed with maphash so
// concurrent loads from a remote store do not serialize on one mutex. Both
// caches can charge their bytes to a resource.Controller and stop admitting
// blocks once its memory limit is reached.
package cache
