package sanitize

import (
	"errors"
	"strings"
)

// MaxTopicLength bounds topics and questions after cleaning, in code points.
const MaxTopicLength = 200

var (
	ErrEmpty    = errors.New("input is empty")
	ErrTooShort = errors.New("input is too short")
)

var markupReplacer = strings.NewReplacer("<", "", ">", "", `"`, "", "'", "")

// Clean strips markup-significant characters, trims surrounding whitespace
// and caps the result at MaxTopicLength code points.
func Clean(s string) string {
	out := strings.TrimSpace(markupReplacer.Replace(s))
	runes := []rune(out)
	if len(runes) > MaxTopicLength {
		out = string(runes[:MaxTopicLength])
	}
	return out
}

// ValidateTopic rejects topics that are empty or too short to mean anything.
// The input is expected to already be Clean-ed.
func ValidateTopic(topic string) error {
	t := strings.TrimSpace(topic)
	if t == "" {
		return ErrEmpty
	}
	if len([]rune(t)) < 2 {
		return ErrTooShort
	}
	return nil
}

// ValidateQuestion rejects empty follow-up questions.
func ValidateQuestion(question string) error {
	if strings.TrimSpace(question) == "" {
		return ErrEmpty
	}
	return nil
}
