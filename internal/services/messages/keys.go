package messagesvc

// Keyspace helpers for Pebble keys.
//
// Layout (byte-wise, lexicographically sortable):
// - sess/{session}/msg/{id_16}
//
// The 16-byte id is time-ordered, so iterating a session prefix yields
// records in insertion order.

var (
	sessPrefix = []byte("sess/")
	msgSeg     = []byte("/msg/")
)

// KeyMessage builds the record key for one message.
func KeyMessage(session string, id []byte) []byte {
	k := make([]byte, 0, len(sessPrefix)+len(session)+len(msgSeg)+len(id))
	k = append(k, sessPrefix...)
	k = append(k, session...)
	k = append(k, msgSeg...)
	k = append(k, id...)
	return k
}

// KeyMessagePrefix returns the range prefix for one session's records,
// or for all sessions when session is empty.
func KeyMessagePrefix(session string) []byte {
	if session == "" {
		return append([]byte(nil), sessPrefix...)
	}
	k := make([]byte, 0, len(sessPrefix)+len(session)+len(msgSeg))
	k = append(k, sessPrefix...)
	k = append(k, session...)
	k = append(k, msgSeg...)
	return k
}

// PrefixUpperBound returns the smallest key greater than every key with
// the given prefix.
func PrefixUpperBound(prefix []byte) []byte {
	ub := append([]byte(nil), prefix...)
	for i := len(ub) - 1; i >= 0; i-- {
		if ub[i] < 0xff {
			ub[i]++
			return ub[:i+1]
		}
	}
	return nil
}
