package textpolicy

import "strings"

// Policy screens user-authored text against a blocked-word list and,
// for custom requests, a list of topic keywords the platform is dedicated to.
type Policy struct {
	blocked []string
	topics  []string
}

func New(blockedWords []string, topicKeywords []string) Policy {
	return Policy{
		blocked: normalize(blockedWords),
		topics:  normalize(topicKeywords),
	}
}

// ContainsBlocked reports whether any text contains a blocked word (case-insensitive substring).
func (p Policy) ContainsBlocked(texts ...string) bool {
	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, word := range p.blocked {
			if strings.Contains(lower, word) {
				return true
			}
		}
	}
	return false
}

// MentionsTopic reports whether text mentions at least one topic keyword.
// An empty keyword list accepts any text.
func (p Policy) MentionsTopic(text string) bool {
	if len(p.topics) == 0 {
		return true
	}
	lower := strings.ToLower(text)
	for _, keyword := range p.topics {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func normalize(words []string) []string {
	out := make([]string, 0, len(words))
	for _, word := range words {
		word = strings.ToLower(strings.TrimSpace(word))
		if word != "" {
			out = append(out, word)
		}
	}
	return out
}
