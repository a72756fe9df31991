// Package runtime wires storage and config into a single-node relay
// instance. It exposes Open/Close and a basic health check; higher-level
// services take the DB and config from here.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, Config: cfg})
//	defer rt.Close()
//	_ = rt.CheckHealth(context.Background())
package runtime
