package explainer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/explainr/explainr/internal/completion"
	"github.com/explainr/explainr/internal/conversation"
	"github.com/explainr/explainr/internal/observability"
	"github.com/explainr/explainr/internal/prompt"
	"github.com/explainr/explainr/internal/sanitize"
)

const (
	maxSuggestedQuestions = 3
	maxRelatedTopics      = 5
)

// ErrInvalidInput marks requests rejected before any completion call.
var ErrInvalidInput = errors.New("invalid input")

// Result is what the presentation layer renders. AnswerText always carries a
// displayable string; when Failed is set it is a user-facing error message.
type Result struct {
	AnswerText         string                  `json:"answer_text"`
	Conversation       []conversation.Exchange `json:"conversation"`
	SuggestedQuestions []string                `json:"suggested_questions"`
	RelatedTopics      []string                `json:"related_topics,omitempty"`
	Failed             bool                    `json:"failed"`
}

// Orchestrator coordinates prompt construction, completion calls and
// conversation state for explanations and follow-up questions.
type Orchestrator struct {
	completions   completion.Client
	conversations conversation.Store
	metrics       *observability.Metrics
	perf          *observability.LatencyWindow
}

func New(completions completion.Client, conversations conversation.Store, metrics *observability.Metrics, perf *observability.LatencyWindow) *Orchestrator {
	return &Orchestrator{
		completions:   completions,
		conversations: conversations,
		metrics:       metrics,
		perf:          perf,
	}
}

// Explain generates a fresh primary explanation for a topic. Any existing
// follow-up conversation for (session, topic) is cleared first so stale
// follow-ups never attach to a regenerated explanation.
func (o *Orchestrator) Explain(ctx context.Context, sessionID, topic string, style prompt.Style) (Result, error) {
	topic = sanitize.Clean(topic)
	if err := sanitize.ValidateTopic(topic); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := o.conversations.Clear(ctx, sessionID, topic); err != nil {
		return Result{}, fmt.Errorf("clear conversation: %w", err)
	}

	msgs, err := prompt.Explanation(topic, style)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	started := time.Now()
	text, err := o.completions.Complete(ctx, msgs)
	o.observe("explain", started)
	if err != nil {
		o.countExplain("failure")
		return o.failureResult(err), nil
	}
	o.countExplain("success")

	res := Result{AnswerText: Normalize(text)}
	res.SuggestedQuestions = o.suggestQuestions(ctx, topic, nil)
	res.RelatedTopics = o.relatedTopics(ctx, topic)
	return res, nil
}

// AskFollowup answers a follow-up question with the full conversation so far
// as context. On success exactly one exchange is appended; on failure the
// conversation is left untouched and the failure message is surfaced as the
// answer.
func (o *Orchestrator) AskFollowup(ctx context.Context, sessionID, topic, question string, style prompt.Style) (Result, error) {
	topic = sanitize.Clean(topic)
	question = sanitize.Clean(question)
	if err := sanitize.ValidateTopic(topic); err != nil {
		return Result{}, fmt.Errorf("%w: topic: %v", ErrInvalidInput, err)
	}
	if err := sanitize.ValidateQuestion(question); err != nil {
		return Result{}, fmt.Errorf("%w: question: %v", ErrInvalidInput, err)
	}

	// Snapshot read: the transcript reflects exactly the exchanges persisted
	// before this call began.
	conv, err := o.conversations.Get(ctx, sessionID, topic)
	if err != nil {
		return Result{}, fmt.Errorf("load conversation: %w", err)
	}

	msgs, err := prompt.Followup(topic, style, conv, question)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	started := time.Now()
	text, err := o.completions.Complete(ctx, msgs)
	o.observe("followup", started)
	if err != nil {
		o.countFollowup("failure")
		res := o.failureResult(err)
		res.Conversation = conv
		return res, nil
	}

	answer := Normalize(text)
	ex := conversation.Exchange{Question: question, Answer: answer, AskedAt: time.Now().UTC()}
	if err := o.conversations.Append(ctx, sessionID, topic, ex); err != nil {
		return Result{}, fmt.Errorf("append exchange: %w", err)
	}
	o.countFollowup("success")

	conv = append(conv, ex)
	asked := make([]string, 0, len(conv))
	for _, e := range conv {
		asked = append(asked, e.Question)
	}

	return Result{
		AnswerText:         answer,
		Conversation:       conv,
		SuggestedQuestions: o.suggestQuestions(ctx, topic, asked),
	}, nil
}

// Conversation returns the persisted exchange log for (session, topic).
func (o *Orchestrator) Conversation(ctx context.Context, sessionID, topic string) ([]conversation.Exchange, error) {
	return o.conversations.Get(ctx, sessionID, sanitize.Clean(topic))
}

// ClearConversation removes all exchanges for (session, topic). Clearing an
// already-empty conversation is not an error.
func (o *Orchestrator) ClearConversation(ctx context.Context, sessionID, topic string) error {
	topic = sanitize.Clean(topic)
	if err := sanitize.ValidateTopic(topic); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := o.conversations.Clear(ctx, sessionID, topic); err != nil {
		return fmt.Errorf("clear conversation: %w", err)
	}
	return nil
}

// suggestQuestions degrades to an empty list on failure; a broken suggestion
// call must never fail the parent request.
func (o *Orchestrator) suggestQuestions(ctx context.Context, topic string, asked []string) []string {
	started := time.Now()
	text, err := o.completions.Complete(ctx, prompt.SuggestedQuestions(topic, asked))
	o.observe("suggestions", started)
	if err != nil {
		log.Printf("suggested questions unavailable for %q: %v", topic, err)
		return nil
	}
	return prompt.SplitLines(text, maxSuggestedQuestions)
}

func (o *Orchestrator) relatedTopics(ctx context.Context, topic string) []string {
	started := time.Now()
	text, err := o.completions.Complete(ctx, prompt.RelatedTopics(topic))
	o.observe("related_topics", started)
	if err != nil {
		log.Printf("related topics unavailable for %q: %v", topic, err)
		return nil
	}
	return prompt.SplitLines(text, maxRelatedTopics)
}

// failureResult converts any completion error into a renderable message so
// failures never propagate to the presentation layer as faults.
func (o *Orchestrator) failureResult(err error) Result {
	var failure *completion.Failure
	if errors.As(err, &failure) {
		if o.metrics != nil {
			o.metrics.CompletionFailures.WithLabelValues(string(failure.Kind)).Inc()
		}
		return Result{AnswerText: failure.UserMessage(), Failed: true}
	}
	return Result{AnswerText: "An unexpected error occurred. Please try again.", Failed: true}
}

func (o *Orchestrator) observe(stage string, started time.Time) {
	elapsed := time.Since(started)
	if o.perf != nil {
		o.perf.Observe(stage, elapsed)
	}
	if o.metrics != nil {
		o.metrics.ObserveCompletionLatency(elapsed)
	}
}

func (o *Orchestrator) countExplain(outcome string) {
	if o.metrics != nil {
		o.metrics.ExplainRequests.WithLabelValues(outcome).Inc()
	}
}

func (o *Orchestrator) countFollowup(outcome string) {
	if o.metrics != nil {
		o.metrics.FollowupRequests.WithLabelValues(outcome).Inc()
	}
}
