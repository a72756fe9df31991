// Package pebblestore provides a thin wrapper around Pebble with fsync
// policy, snapshots, and batches. Relay uses it to persist stored session
// messages; the chunk relay itself is memory-resident.
//
// Usage:
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    DataDir: "./data",
//	    Fsync:   pebblestore.FsyncModeInterval,
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	_ = db.Set([]byte("k"), []byte("v"))
//	v, _ := db.Get([]byte("k"))
package pebblestore
