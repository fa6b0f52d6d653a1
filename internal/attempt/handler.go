package attempt

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"edulearn-server/internal/content"
	"edulearn-server/internal/models"
)

type Handler struct {
	engine  *Engine
	content *content.Service
}

func NewHandler(engine *Engine, contentService *content.Service) *Handler {
	return &Handler{engine: engine, content: contentService}
}

// attemptQuestion is what the learner sees: no correct-answer index.
type attemptQuestion struct {
	ID       string   `json:"id"`
	Text     string   `json:"question"`
	Options  []string `json:"options"`
	Points   int      `json:"points"`
	Position int      `json:"position"`
}

type startResponse struct {
	AttemptID    string            `json:"attemptId"`
	QuizID       string            `json:"quizId"`
	Title        string            `json:"title"`
	TimeLimit    int               `json:"timeLimit"`
	PassingScore int               `json:"passingScore"`
	Questions    []attemptQuestion `json:"questions"`
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(string)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	quizID := mux.Vars(r)["quizId"]

	quiz, err := h.content.GetQuiz(quizID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, "Quiz not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	a, err := h.engine.Start(quiz, userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	questions := make([]attemptQuestion, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions[i] = attemptQuestion{
			ID:       q.ID,
			Text:     q.Text,
			Options:  q.Options,
			Points:   q.Points,
			Position: q.Position,
		}
	}

	limit := quiz.TimeLimit
	if limit <= 0 {
		limit = defaultTimeLimit
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(startResponse{
		AttemptID:    a.ID,
		QuizID:       quiz.ID,
		Title:        quiz.Title,
		TimeLimit:    limit,
		PassingScore: quiz.PassingScore,
		Questions:    questions,
	})
}

func (h *Handler) SelectAnswer(w http.ResponseWriter, r *http.Request) {
	attemptID := mux.Vars(r)["attemptId"]
	if !h.authorize(w, r, attemptID) {
		return
	}

	var payload answerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	switch err := h.engine.SelectAnswer(attemptID, payload.QuestionID, payload.Option); {
	case errors.Is(err, ErrAttemptNotFound), errors.Is(err, models.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, ErrAttemptClosed):
		http.Error(w, "Attempt already submitted", http.StatusConflict)
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	attemptID := mux.Vars(r)["attemptId"]
	if !h.authorize(w, r, attemptID) {
		return
	}

	result, err := h.engine.Submit(attemptID)
	if err != nil {
		if errors.Is(err, ErrAttemptNotFound) {
			http.Error(w, "Attempt not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(result)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	attemptID := mux.Vars(r)["attemptId"]
	if !h.authorize(w, r, attemptID) {
		return
	}

	state, remaining, result, err := h.engine.Get(attemptID)
	if err != nil {
		http.Error(w, "Attempt not found", http.StatusNotFound)
		return
	}

	resp := map[string]interface{}{
		"state":     state,
		"remaining": remaining,
	}
	if result != nil {
		resp["result"] = result
	}
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) MyResults(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(string)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	results, err := h.content.ListResultsByUser(userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(results)
}

// authorize rejects callers poking at someone else's attempt.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, attemptID string) bool {
	userID, ok := r.Context().Value("user_id").(string)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return false
	}
	owner, err := h.engine.Owner(attemptID)
	if err != nil {
		http.Error(w, "Attempt not found", http.StatusNotFound)
		return false
	}
	if owner != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	return true
}
