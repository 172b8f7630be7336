// Package cmap provides a concurrent, string-keyed registry.
//
// dictcore uses it to hold named dictionaries shared between the REPL, the
// workload runner and the metrics collector, which scrapes from the HTTP
// goroutine. Keys are spread over shards by their murmur3 hash and each
// shard has its own RWMutex.
//
// Usage:
//
//	r := cmap.New[*workload.Locked]()
//	r.Set("bench", locked)
//	v, ok := r.Get("bench")
//
// Thread Safety:
//
// All operations are thread-safe. Read operations (Get, Has, Range) use
// RLock, write operations (Set, Delete, Pop) use Lock.
package cmap
