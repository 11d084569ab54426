package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/explainr/explainr/internal/conversation"
)

// Style selects the flavour of the generated explanation.
type Style string

const (
	StyleExample Style = "example"
	StyleAnalogy Style = "analogy"
)

// ParseStyle maps user input onto the closed style set, defaulting to
// examples when the value is unknown or empty.
func ParseStyle(s string) Style {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StyleAnalogy:
		return StyleAnalogy
	default:
		return StyleExample
	}
}

// Message is one chat-completion message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

var ErrInvalidInput = errors.New("topic and question must be non-empty")

func (s Style) instruction() string {
	if s == StyleAnalogy {
		return "Add a simple, relatable analogy for each level."
	}
	return "Add a clear, concrete example for each level."
}

// Explanation builds the primary three-level explanation request for a topic.
func Explanation(topic string, style Style) ([]Message, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, ErrInvalidInput
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Explain %q in exactly 3 levels with clear headings:\n\n", topic)
	b.WriteString("**Level 1 (Age 5):** Simple explanation using basic words\n")
	b.WriteString("**Level 2 (Age 15):** More detailed with some technical terms\n")
	b.WriteString("**Level 3 (Adult):** Comprehensive explanation with full context\n\n")
	b.WriteString(style.instruction())
	b.WriteString("\n\nKeep each level concise but informative. Use engaging language.")

	return []Message{
		{Role: RoleSystem, Content: "You are an expert educator who explains complex topics clearly at different levels. Always use the exact format requested with clear level headings."},
		{Role: RoleUser, Content: b.String()},
	}, nil
}

// Followup builds a follow-up request carrying the full conversation so far.
// The transcript renders each prior exchange as a 1-based Qn:/An: pair in
// chronological order and is omitted entirely when the conversation is empty.
// History is never truncated or summarized.
func Followup(topic string, style Style, conv []conversation.Exchange, question string) ([]Message, error) {
	if strings.TrimSpace(topic) == "" || strings.TrimSpace(question) == "" {
		return nil, ErrInvalidInput
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	if len(conv) > 0 {
		b.WriteString("\nConversation so far:\n")
		b.WriteString(Transcript(conv))
	}
	fmt.Fprintf(&b, "\nNew question: %s\n\n", question)
	b.WriteString(style.instruction())
	b.WriteString("\nAnswer the new question in the context of the conversation above.")

	return []Message{
		{Role: RoleSystem, Content: "You are an expert educator answering follow-up questions about a topic the user is learning. Be concise, accurate and build on what was already discussed."},
		{Role: RoleUser, Content: b.String()},
	}, nil
}

// Transcript serializes exchanges as Qn:/An: pairs, one per line.
func Transcript(conv []conversation.Exchange) string {
	var b strings.Builder
	for i, ex := range conv {
		fmt.Fprintf(&b, "Q%d: %s\n", i+1, ex.Question)
		fmt.Fprintf(&b, "A%d: %s\n", i+1, ex.Answer)
	}
	return b.String()
}

// SuggestedQuestions asks for three fresh follow-up questions. Every question
// already asked is listed as off-limits; the exclusion is advisory and relies
// on the model honoring it.
func SuggestedQuestions(topic string, asked []string) []Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate 3 follow-up questions someone might ask after learning about %s.", topic)
	if len(asked) > 0 {
		b.WriteString("\n\nDo not repeat or rephrase any of these already-asked questions:\n")
		for _, q := range asked {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}

	return []Message{
		{Role: RoleSystem, Content: "Generate exactly 3 thoughtful follow-up questions. Return only the questions, one per line, without numbering."},
		{Role: RoleUser, Content: b.String()},
	}
}

// RelatedTopics asks for five adjacent topics worth exploring next.
func RelatedTopics(topic string) []Message {
	return []Message{
		{Role: RoleSystem, Content: "Generate exactly 5 related topics. Return only the topic names, one per line."},
		{Role: RoleUser, Content: fmt.Sprintf("List 5 topics closely related to %s that would be interesting to explore.", topic)},
	}
}

// SplitLines turns a line-per-item completion into a bounded list.
func SplitLines(s string, max int) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == max {
			break
		}
	}
	return out
}
