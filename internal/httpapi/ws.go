package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/explainr/explainr/internal/conversation"
	"github.com/explainr/explainr/internal/explainer"
	"github.com/explainr/explainr/internal/protocol"
	"github.com/explainr/explainr/internal/prompt"
)

// handleConversationWS runs a live follow-up feed. Messages are processed
// one at a time in arrival order, so no two operations against the same
// session's conversations ever run concurrently.
func (s *Server) handleConversationWS(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	conn.SetReadLimit(64 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			s.writeWS(conn, protocol.ErrorEvent{
				Type:   protocol.TypeErrorEvent,
				Code:   "invalid_client_message",
				Detail: err.Error(),
			})
			continue
		}

		switch msg := parsed.(type) {
		case protocol.AskFollowup:
			if s.limiter != nil && !s.limiter.Allow(sess.ID) {
				if s.metrics != nil {
					s.metrics.RateLimited.Inc()
				}
				s.writeWS(conn, protocol.ErrorEvent{
					Type:   protocol.TypeErrorEvent,
					Code:   "rate_limited",
					Detail: "Rate limit exceeded. Please try again later.",
				})
				continue
			}

			res, err := s.explainer.AskFollowup(r.Context(), sess.ID, msg.Topic, msg.Question, prompt.ParseStyle(msg.Style))
			if err != nil {
				s.writeWS(conn, protocol.ErrorEvent{
					Type:   protocol.TypeErrorEvent,
					Code:   "invalid_input",
					Detail: err.Error(),
				})
				continue
			}
			s.writeWS(conn, followupAnswerEvent(msg.Topic, res))

		case protocol.ClearConversation:
			if err := s.explainer.ClearConversation(r.Context(), sess.ID, msg.Topic); err != nil {
				s.writeWS(conn, protocol.ErrorEvent{
					Type:   protocol.TypeErrorEvent,
					Code:   "invalid_input",
					Detail: err.Error(),
				})
				continue
			}
			s.writeWS(conn, protocol.ConversationState{
				Type:         protocol.TypeConversationState,
				Topic:        msg.Topic,
				Conversation: []protocol.FollowupExchange{},
			})
		}
	}
}

func (s *Server) writeWS(conn *websocket.Conn, msg any) {
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	_ = conn.WriteJSON(msg)
}

func followupAnswerEvent(topic string, res explainer.Result) protocol.FollowupAnswer {
	return protocol.FollowupAnswer{
		Type:               protocol.TypeFollowupAnswer,
		Topic:              topic,
		Answer:             res.AnswerText,
		Conversation:       wireExchanges(res.Conversation),
		SuggestedQuestions: res.SuggestedQuestions,
		Failed:             res.Failed,
	}
}

func wireExchanges(conv []conversation.Exchange) []protocol.FollowupExchange {
	out := make([]protocol.FollowupExchange, 0, len(conv))
	for _, ex := range conv {
		out = append(out, protocol.FollowupExchange{Question: ex.Question, Answer: ex.Answer})
	}
	return out
}
