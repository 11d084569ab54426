package prompt

import (
	"strings"
	"testing"

	"github.com/explainr/explainr/internal/conversation"
)

func TestParseStyle(t *testing.T) {
	cases := []struct {
		in   string
		want Style
	}{
		{"analogy", StyleAnalogy},
		{" Analogy ", StyleAnalogy},
		{"example", StyleExample},
		{"", StyleExample},
		{"bogus", StyleExample},
	}
	for _, tc := range cases {
		if got := ParseStyle(tc.in); got != tc.want {
			t.Fatalf("ParseStyle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExplanationRejectsEmptyTopic(t *testing.T) {
	if _, err := Explanation("   ", StyleExample); err != ErrInvalidInput {
		t.Fatalf("Explanation(blank) error = %v, want %v", err, ErrInvalidInput)
	}
}

func TestExplanationCarriesStyleInstruction(t *testing.T) {
	msgs, err := Explanation("DNA", StyleAnalogy)
	if err != nil {
		t.Fatalf("Explanation() error = %v", err)
	}
	if len(msgs) != 2 || msgs[0].Role != RoleSystem || msgs[1].Role != RoleUser {
		t.Fatalf("unexpected message shape: %+v", msgs)
	}
	if !strings.Contains(msgs[1].Content, "analogy") {
		t.Fatalf("user payload missing analogy instruction: %q", msgs[1].Content)
	}
}

func TestFollowupOmitsTranscriptWhenConversationEmpty(t *testing.T) {
	msgs, err := Followup("DNA", StyleExample, nil, "Why double helix?")
	if err != nil {
		t.Fatalf("Followup() error = %v", err)
	}
	if strings.Contains(msgs[1].Content, "Conversation so far") {
		t.Fatalf("empty conversation must not emit a transcript block: %q", msgs[1].Content)
	}
	if !strings.Contains(msgs[1].Content, "Why double helix?") {
		t.Fatalf("payload missing the new question")
	}
}

func TestFollowupTranscriptOrderAndNumbering(t *testing.T) {
	conv := []conversation.Exchange{
		{Question: "first?", Answer: "one"},
		{Question: "second?", Answer: "two"},
		{Question: "third?", Answer: "three"},
	}
	msgs, err := Followup("DNA", StyleExample, conv, "fourth?")
	if err != nil {
		t.Fatalf("Followup() error = %v", err)
	}
	payload := msgs[1].Content

	markers := []string{"Q1: first?", "A1: one", "Q2: second?", "A2: two", "Q3: third?", "A3: three"}
	last := -1
	for _, m := range markers {
		idx := strings.Index(payload, m)
		if idx < 0 {
			t.Fatalf("payload missing %q", m)
		}
		if idx < last {
			t.Fatalf("marker %q out of order", m)
		}
		last = idx
	}
	if !strings.Contains(payload, "fourth?") {
		t.Fatalf("payload missing new question")
	}
}

func TestFollowupRejectsEmptyQuestion(t *testing.T) {
	if _, err := Followup("DNA", StyleExample, nil, "  "); err != ErrInvalidInput {
		t.Fatalf("Followup(blank question) error = %v, want %v", err, ErrInvalidInput)
	}
}

func TestSuggestedQuestionsListsAskedAsOffLimits(t *testing.T) {
	msgs := SuggestedQuestions("DNA", []string{"Why double helix?", "Who discovered it?"})
	payload := msgs[1].Content
	for _, q := range []string{"Why double helix?", "Who discovered it?"} {
		if !strings.Contains(payload, q) {
			t.Fatalf("payload missing asked question %q", q)
		}
	}
	if !strings.Contains(payload, "Do not repeat") {
		t.Fatalf("payload missing exclusion instruction")
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("one\n\n  two  \nthree\nfour\n", 3)
	want := []string{"one", "two", "three"}
	if len(got) != len(want) {
		t.Fatalf("SplitLines() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SplitLines()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
