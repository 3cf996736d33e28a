package assessment

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/edubridge/backend/internal/bank"
	"github.com/edubridge/backend/internal/engine"
	"github.com/edubridge/backend/internal/models"
	"github.com/edubridge/backend/internal/tiers"
	"github.com/gorilla/mux"
)

// historyWindow caps how much stored history feeds adaptation.
const historyWindow = 50

// sessionTTL is how long an idle session keeps its coordinator before
// lazy eviction reclaims it.
const sessionTTL = 30 * time.Minute

// session pairs one coordinator with the lock that serializes its use.
// The coordinator is single-owner state; concurrent requests carrying the
// same session id must go through this lock.
type session struct {
	mu       sync.Mutex
	coord    *engine.Coordinator
	lastUsed time.Time
}

// Handler exposes the question engine over HTTP. It keeps one engine
// coordinator per session id behind a per-session lock; the handler mutex
// only guards the registry map.
type Handler struct {
	store      *Store
	bank       *bank.Bank
	generators []tiers.Generator

	mu       sync.Mutex
	sessions map[string]*session

	// seed produces the random seed for new session coordinators.
	// Overridden in tests for deterministic selection.
	seed func() int64
	// now drives idle-session eviction. Overridden in tests.
	now func() time.Time
}

func NewHandler(store *Store, b *bank.Bank, generators []tiers.Generator) *Handler {
	return &Handler{
		store:      store,
		bank:       b,
		generators: generators,
		sessions:   make(map[string]*session),
		seed:       func() int64 { return time.Now().UnixNano() },
		now:        time.Now,
	}
}

// session returns the registry entry for a session id, creating it if
// needed. Entries idle for longer than sessionTTL are evicted on the way,
// so abandoned sessions do not accumulate.
func (h *Handler) session(sessionID string) *session {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	for id, s := range h.sessions {
		if id != sessionID && now.Sub(s.lastUsed) > sessionTTL {
			delete(h.sessions, id)
		}
	}

	s, ok := h.sessions[sessionID]
	if !ok {
		s = &session{coord: engine.NewCoordinator(h.generators, h.bank, h.seed())}
		h.sessions[sessionID] = s
	}
	s.lastUsed = now
	return s
}

// NextQuestion handles POST /assessment/question.
func (h *Handler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if !models.ValidSubjects[req.Subject] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Unknown subject"})
		return
	}
	if req.GradeLevel < 0 || req.GradeLevel > 12 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Grade level must be between 0 (K) and 12"})
		return
	}
	if req.Difficulty != "" && !models.ValidDifficulties[req.Difficulty] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Unknown difficulty"})
		return
	}
	if req.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "session_id is required"})
		return
	}

	// Fill in stored history when the client sends none, then derive the
	// difficulty from it unless the caller pinned one.
	if len(req.PreviousAnswers) == 0 && h.store != nil {
		if userID, ok := r.Context().Value("user_id").(int64); ok {
			history, err := h.store.RecentAnswers(userID, historyWindow)
			if err != nil {
				log.Printf("WARN: failed to load answer history: %v", err)
			} else {
				req.PreviousAnswers = history
			}
		}
	}
	if req.Difficulty == "" {
		req.Difficulty = engine.NextDifficulty(req.PreviousAnswers)
	}

	sess := h.session(req.SessionID)
	sess.mu.Lock()
	resp := sess.coord.GenerateQuestion(r.Context(), req)
	sess.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

type submitAnswerRequest struct {
	SessionID     string            `json:"session_id"`
	QuestionID    string            `json:"question_id"`
	Subject       models.Subject    `json:"subject"`
	GradeLevel    int               `json:"grade_level"`
	Difficulty    models.Difficulty `json:"difficulty"`
	Question      string            `json:"question"`
	Answer        string            `json:"answer"`
	CorrectAnswer string            `json:"correct_answer"`
}

// SubmitAnswer handles POST /assessment/answer.
func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.QuestionID == "" || req.CorrectAnswer == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "question_id and correct_answer are required"})
		return
	}

	result := engine.Evaluate(req.Answer, req.CorrectAnswer)

	if h.store != nil {
		if userID, ok := r.Context().Value("user_id").(int64); ok {
			err := h.store.RecordAnswer(userID, answerInsert{
				SessionID:  req.SessionID,
				QuestionID: req.QuestionID,
				Subject:    req.Subject,
				GradeLevel: req.GradeLevel,
				Difficulty: req.Difficulty,
				Question:   req.Question,
				Answer:     req.Answer,
				Correct:    result.Correct,
			})
			if err != nil {
				log.Printf("WARN: failed to record answer history: %v", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, result)
}

type sequenceResponse struct {
	Subjects []models.Subject `json:"subjects"`
}

// GetSequence handles GET /assessment/sequence: subjects ordered
// weakest-first from the user's stored history.
func (h *Handler) GetSequence(w http.ResponseWriter, r *http.Request) {
	var history []models.AnswerRecord
	if h.store != nil {
		if userID, ok := r.Context().Value("user_id").(int64); ok {
			stored, err := h.store.RecentAnswers(userID, historyWindow)
			if err != nil {
				log.Printf("WARN: failed to load answer history: %v", err)
			} else {
				history = stored
			}
		}
	}

	writeJSON(w, http.StatusOK, sequenceResponse{Subjects: engine.OrderSubjects(history)})
}

// EndSession handles DELETE /assessment/session/{id}: drops the session's
// coordinator and with it the dedupe state.
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	h.mu.Lock()
	delete(h.sessions, sessionID)
	h.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
