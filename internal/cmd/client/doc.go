// Package client provides the `relay` command-line client.
//
// The CLI talks to the relay HTTP API to ingest, consume, and inspect
// query streams, and to record session messages. It is primarily
// intended for developers and operators.
//
// # Address configuration
//
// The HTTP base URL is discovered by the application that embeds the
// commands via a BaseURLFunc. When using the standalone binary, it
// defaults to http://127.0.0.1:8080 and can be overridden with the
// RELAY_HTTP environment variable.
//
// Usage
//
//	# Pipe NDJSON chunks into a query stream
//	some-producer | relay stream ingest --query q1
//
//	# Consume a stream live, replaying history first
//	relay stream consume --query q1 --from-beginning --wait 30s
//
//	# With a server-side CEL filter and bounded replay chunks
//	relay stream consume --query q1 --from-beginning \
//	    --filter 'json.choices[0].delta.content != ""' --max-chunk-size 80
//
//	# Mark the query complete so consumers receive the [DONE] sentinel
//	relay stream complete --query q1
//
//	relay stream status --query q1
//
//	# Record and list session messages
//	relay messages add --session s1 --query q1 --message '{"role":"user","content":"hi"}'
//	relay messages list --session s1 --limit 20
package client
