// Package id generates compact, time-ordered identifiers.
//
// IDs are 16 bytes: a big-endian millisecond timestamp followed by a
// per-process sequence, so byte order equals creation order. Relay uses them
// for subscriber handles and stored message records, where a sortable key is
// needed without coordination.
package id
