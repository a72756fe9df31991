package streamsvc

import (
	"encoding/json"

	"github.com/relaykit/relay/internal/relay"
)

// SplitText splits text into ceil(len(text)/maxSize) ordered pieces.
// Every piece except the last has length exactly maxSize, and
// concatenating the pieces reconstructs text exactly. An empty text
// yields no pieces.
func SplitText(text string, maxSize int) []string {
	if text == "" {
		return nil
	}
	if maxSize <= 0 || len(text) <= maxSize {
		return []string{text}
	}
	out := make([]string, 0, (len(text)+maxSize-1)/maxSize)
	for len(text) > maxSize {
		out = append(out, text[:maxSize])
		text = text[maxSize:]
	}
	return append(out, text)
}

// SplitChunk rewrites a streaming delta chunk whose content exceeds
// maxSize into multiple chunks of bounded content, preserving every
// other field. Chunks that do not carry the delta shape pass through
// unchanged. A chunk carrying a finish marker is never split; it is
// emitted as a single zero-content delta so the marker travels alone.
func SplitChunk(c relay.Chunk, maxSize int) []relay.Chunk {
	var obj map[string]any
	if err := json.Unmarshal(c, &obj); err != nil {
		return []relay.Chunk{c}
	}
	choices, ok := obj["choices"].([]any)
	if !ok || len(choices) == 0 {
		return []relay.Chunk{c}
	}
	first, ok := choices[0].(map[string]any)
	if !ok {
		return []relay.Chunk{c}
	}
	if fr, present := first["finish_reason"]; present && fr != nil {
		delta, _ := first["delta"].(map[string]any)
		if delta == nil {
			delta = map[string]any{}
			first["delta"] = delta
		}
		delta["content"] = ""
		b, err := json.Marshal(obj)
		if err != nil {
			return []relay.Chunk{c}
		}
		return []relay.Chunk{b}
	}
	delta, ok := first["delta"].(map[string]any)
	if !ok {
		return []relay.Chunk{c}
	}
	content, ok := delta["content"].(string)
	if !ok || len(content) <= maxSize || maxSize <= 0 {
		return []relay.Chunk{c}
	}
	pieces := SplitText(content, maxSize)
	out := make([]relay.Chunk, 0, len(pieces))
	for _, p := range pieces {
		delta["content"] = p
		b, err := json.Marshal(obj)
		if err != nil {
			return []relay.Chunk{c}
		}
		out = append(out, relay.Chunk(b))
	}
	return out
}
