// Package likecontent decides what a like was attached to: a photo, a prompt answer or a video
package likecontent

import (
	"encoding/json"
	"strings"
)

// MaxDepth bounds how many JSON-in-string layers Normalize will peel
const MaxDepth = 8

// Kind is the media type of a like
type Kind int

const (
	Unknown Kind = iota
	Photo
	Prompt
	Video
)

func (k Kind) String() string {
	switch k {
	case Photo:
		return "photo"
	case Prompt:
		return "prompt"
	case Video:
		return "video"
	default:
		return "unknown"
	}
}

// PromptAnswer is the question and answer a prompt like points at
type PromptAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Content is the classified like payload. URL is set for Photo and Video, Prompt for Prompt
type Content struct {
	Kind   Kind
	URL    string
	Prompt *PromptAnswer
}

// HasMedia reports whether anything was recognised
func (c Content) HasMedia() bool { return c.Kind != Unknown }

// Normalize decodes strings holding JSON objects, arrays or quoted strings, recursively,
// walking maps and slices. Other strings pass through. Past maxDepth values are returned as is
func Normalize(v any, maxDepth int) any {
	return normalize(v, maxDepth)
}

func normalize(v any, depth int) any {
	if depth <= 0 {
		return v
	}
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		if s == "" || !strings.ContainsRune(`{["`, rune(s[0])) {
			return x
		}
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return x
		}
		return normalize(decoded, depth-1)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e, depth-1)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e, depth-1)
		}
		return out
	default:
		return v
	}
}

// Classify inspects record["content"]. Precedence is photo.url, prompt.question, video.url
func Classify(record map[string]any) Content {
	if record == nil {
		return Content{}
	}
	media, ok := firstObject(Normalize(record["content"], MaxDepth))
	if !ok {
		return Content{}
	}

	if url := nonEmpty(media, "photo", "url"); url != "" {
		return Content{Kind: Photo, URL: url}
	}
	if q := nonEmpty(media, "prompt", "question"); q != "" {
		return Content{Kind: Prompt, Prompt: promptText(record["content"], q)}
	}
	if url := nonEmpty(media, "video", "url"); url != "" {
		return Content{Kind: Video, URL: url}
	}
	return Content{}
}

// promptText reads the prompt fields from content without decoding them, so an answer
// that happens to be valid JSON is kept as written. q is the fallback question
func promptText(content any, q string) *PromptAnswer {
	pa := &PromptAnswer{Question: q}
	media, ok := firstObject(unwrap(content, MaxDepth))
	if !ok {
		return pa
	}
	p, ok := unwrap(media["prompt"], MaxDepth).(map[string]any)
	if !ok {
		return pa
	}
	if raw := leafText(p["question"]); raw != "" {
		pa.Question = raw
	}
	pa.Answer = leafText(p["answer"])
	return pa
}

// unwrap peels JSON-in-string layers off a container position. It never descends
func unwrap(v any, depth int) any {
	for ; depth > 0; depth-- {
		s, ok := v.(string)
		if !ok {
			return v
		}
		s = strings.TrimSpace(s)
		if s == "" || (s[0] != '{' && s[0] != '[' && s[0] != '"') {
			return v
		}
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return v
		}
		v = decoded
	}
	return v
}

// leafText is a string verbatim; other JSON values come back in their JSON form
func leafText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// firstObject accepts a list (its head is used) or a bare object
func firstObject(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case []any:
		if len(x) == 0 {
			return nil, false
		}
		m, ok := unwrap(x[0], MaxDepth).(map[string]any)
		return m, ok
	case map[string]any:
		return x, true
	default:
		return nil, false
	}
}

func nonEmpty(m map[string]any, outer, inner string) string {
	o, ok := m[outer].(map[string]any)
	if !ok {
		return ""
	}
	s, _ := o[inner].(string)
	return s
}
