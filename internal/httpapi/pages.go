package httpapi

import (
	"embed"
	"html/template"
	"log"
	"net/http"

	"github.com/explainr/explainr/internal/conversation"
	"github.com/explainr/explainr/internal/history"
	"github.com/explainr/explainr/internal/prompt"
)

//go:embed templates/*.html.tmpl
var embeddedTemplates embed.FS

var pageTemplate = template.Must(template.ParseFS(embeddedTemplates, "templates/index.html.tmpl"))

var popularTopics = []string{
	"Quantum Computing",
	"Machine Learning",
	"Blockchain",
	"Climate Change",
	"DNA",
	"Black Holes",
	"Photosynthesis",
	"Artificial Intelligence",
}

type pageData struct {
	Topic              string
	Style              string
	Result             string
	Failed             bool
	HasResult          bool
	SuggestedQuestions []string
	RelatedTopics      []string
	Conversation       []conversation.Exchange
	History            []history.Record
	PopularTopics      []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)

	data := pageData{PopularTopics: popularTopics}
	if records, err := s.history.Recent(r.Context(), sess.ID, s.cfg.HistoryLimit); err == nil {
		data.History = records
	}
	s.renderPage(w, data)
}

func (s *Server) handleExplainForm(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	topic := r.PostFormValue("topic")
	style := prompt.ParseStyle(r.PostFormValue("explanation_type"))

	data := pageData{
		Topic:         topic,
		Style:         string(style),
		PopularTopics: popularTopics,
	}

	res, err := s.explainer.Explain(r.Context(), sess.ID, topic, style)
	if err != nil {
		data.Result = "Error: please enter a meaningful topic to explain."
		data.Failed = true
		data.HasResult = true
		s.renderPage(w, data)
		return
	}

	if !res.Failed {
		s.recordHistory(r, sess.ID, topic, string(style), res)
	}
	data.Result = res.AnswerText
	data.Failed = res.Failed
	data.HasResult = true
	data.SuggestedQuestions = res.SuggestedQuestions
	data.RelatedTopics = res.RelatedTopics
	s.renderPage(w, data)
}

func (s *Server) handleFollowupForm(w http.ResponseWriter, r *http.Request) {
	sess := s.ensureSession(w, r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	topic := r.PostFormValue("topic")
	question := r.PostFormValue("question")
	style := prompt.ParseStyle(r.PostFormValue("explanation_type"))

	data := pageData{
		Topic:         topic,
		Style:         string(style),
		PopularTopics: popularTopics,
	}

	res, err := s.explainer.AskFollowup(r.Context(), sess.ID, topic, question, style)
	if err != nil {
		data.Result = "Error: please enter a question to ask."
		data.Failed = true
		data.HasResult = true
		s.renderPage(w, data)
		return
	}

	data.Result = res.AnswerText
	data.Failed = res.Failed
	data.HasResult = true
	data.Conversation = res.Conversation
	data.SuggestedQuestions = res.SuggestedQuestions
	s.renderPage(w, data)
}

func (s *Server) renderPage(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		log.Printf("template render failed: %v", err)
	}
}
