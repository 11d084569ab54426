package httpapi

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/explainr/explainr/internal/explainer"
	"github.com/explainr/explainr/internal/history"
	"github.com/explainr/explainr/internal/pdf"
	"github.com/explainr/explainr/internal/prompt"
)

type explainRequest struct {
	Topic string `json:"topic"`
	Style string `json:"style"`
}

type followupRequest struct {
	Topic    string `json:"topic"`
	Question string `json:"question"`
	Style    string `json:"style"`
}

type clearRequest struct {
	Topic string `json:"topic"`
}

func (s *Server) handleExplainJSON(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)

	var req explainRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	res, err := s.explainer.Explain(r.Context(), sess.ID, req.Topic, prompt.ParseStyle(req.Style))
	if err != nil {
		s.respondExplainerError(w, err)
		return
	}

	if !res.Failed {
		s.recordHistory(r, sess.ID, req.Topic, req.Style, res)
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleFollowupJSON(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)

	var req followupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	res, err := s.explainer.AskFollowup(r.Context(), sess.ID, req.Topic, req.Question, prompt.ParseStyle(req.Style))
	if err != nil {
		s.respondExplainerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleClearConversation(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)

	var req clearRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := s.explainer.ClearConversation(r.Context(), sess.ID, req.Topic); err != nil {
		s.respondExplainerError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"cleared": true, "topic": req.Topic})
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)

	topic := r.URL.Query().Get("topic")
	if topic == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "query parameter topic is required")
		return
	}

	conv, err := s.explainer.Conversation(r.Context(), sess.ID, topic)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "conversation_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"topic": topic, "conversation": conv})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)

	records, err := s.history.Recent(r.Context(), sess.ID, s.cfg.HistoryLimit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "history_unavailable", err.Error())
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"history": records})
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	topic := r.PostFormValue("topic")
	body := r.PostFormValue("result")

	var buf bytes.Buffer
	if err := pdf.Export(&buf, topic, body, time.Now().UTC()); err != nil {
		s.countPDF("failure")
		log.Printf("pdf export failed for %q: %v", topic, err)
		http.Error(w, "No valid content to export", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename=`+pdf.Filename(topic))
	_, _ = w.Write(buf.Bytes())
	s.countPDF("success")
}

// recordHistory logs a successful explanation; failures only lose the log
// entry, never the response.
func (s *Server) recordHistory(r *http.Request, sessionID, topic, style string, res explainer.Result) {
	summary := res.AnswerText
	if len(summary) > 200 {
		summary = summary[:200]
	}
	rec := history.Record{
		SessionID: sessionID,
		Topic:     topic,
		Style:     string(prompt.ParseStyle(style)),
		Summary:   summary,
	}
	if err := s.history.Save(r.Context(), rec); err != nil {
		log.Printf("history save failed for %q: %v", topic, err)
	}
}

func (s *Server) respondExplainerError(w http.ResponseWriter, err error) {
	if errors.Is(err, explainer.ErrInvalidInput) {
		respondError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
}

func (s *Server) countPDF(outcome string) {
	if s.metrics != nil {
		s.metrics.PDFExports.WithLabelValues(outcome).Inc()
	}
}
