// Package messagesvc persists session message records in Pebble and
// serves filtered, paginated listings. Records order by insertion time
// within a session via time-sortable ids embedded in the key.
package messagesvc
