package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeAskFollowup       MessageType = "ask_followup"
	TypeClearConversation MessageType = "clear_conversation"
	TypeFollowupAnswer    MessageType = "followup_answer"
	TypeConversationState MessageType = "conversation_state"
	TypeErrorEvent        MessageType = "error_event"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// AskFollowup asks one follow-up question in the topic's conversation.
type AskFollowup struct {
	Type     MessageType `json:"type"`
	Topic    string      `json:"topic"`
	Question string      `json:"question"`
	Style    string      `json:"style,omitempty"`
}

// ClearConversation resets the follow-up log for a topic.
type ClearConversation struct {
	Type  MessageType `json:"type"`
	Topic string      `json:"topic"`
}

// FollowupAnswer carries the answer plus the updated conversation state.
type FollowupAnswer struct {
	Type               MessageType        `json:"type"`
	Topic              string             `json:"topic"`
	Answer             string             `json:"answer"`
	Conversation       []FollowupExchange `json:"conversation"`
	SuggestedQuestions []string           `json:"suggested_questions,omitempty"`
	Failed             bool               `json:"failed"`
}

// FollowupExchange mirrors one question/answer pair on the wire.
type FollowupExchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ConversationState acknowledges a clear or reports the current log.
type ConversationState struct {
	Type         MessageType        `json:"type"`
	Topic        string             `json:"topic"`
	Conversation []FollowupExchange `json:"conversation"`
}

// ErrorEvent reports a request the server could not process.
type ErrorEvent struct {
	Type   MessageType `json:"type"`
	Code   string      `json:"code"`
	Detail string      `json:"detail"`
}

// ParseClientMessage decodes and validates an inbound client message.
func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeAskFollowup:
		var msg AskFollowup
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.Topic == "" || msg.Question == "" {
			return nil, errors.New("invalid ask_followup")
		}
		return msg, nil
	case TypeClearConversation:
		var msg ClearConversation
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.Topic == "" {
			return nil, errors.New("invalid clear_conversation")
		}
		return msg, nil
	default:
		return nil, ErrUnsupportedType
	}
}
