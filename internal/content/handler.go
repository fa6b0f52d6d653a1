package content

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"edulearn-server/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func isAdmin(r *http.Request) bool {
	role, _ := r.Context().Value("role").(string)
	return role == models.RoleAdmin
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeErr maps store errors onto status codes. A quiz or subject that
// does not exist is 404 everywhere; anything else from the stores is a
// server-side failure.
func writeErr(w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrNotFound) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// Subjects

func (h *Handler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.service.ListSubjects(isAdmin(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	dtos := make([]models.SubjectDTO, len(subjects))
	for i, s := range subjects {
		dtos[i] = s.ToDTO()
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetSubject(w http.ResponseWriter, r *http.Request) {
	subject, err := h.service.GetSubject(mux.Vars(r)["subjectId"])
	if err != nil {
		writeErr(w, err)
		return
	}
	if !subject.Enabled && !isAdmin(r) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, subject.ToDTO())
}

func (h *Handler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	var dto models.SubjectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if dto.Name == "" {
		http.Error(w, "Subject name is required", http.StatusBadRequest)
		return
	}

	subject := dto.ToModel()
	created, err := h.service.CreateSubject(&subject)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created.ToDTO())
}

func (h *Handler) UpdateSubject(w http.ResponseWriter, r *http.Request) {
	var dto models.SubjectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	dto.ID = mux.Vars(r)["subjectId"]

	subject := dto.ToModel()
	updated, err := h.service.UpdateSubject(&subject)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated.ToDTO())
}

func (h *Handler) DeleteSubject(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSubject(mux.Vars(r)["subjectId"]); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Videos

func (h *Handler) ListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.service.ListVideosBySubject(mux.Vars(r)["subjectId"])
	if err != nil {
		writeErr(w, err)
		return
	}
	dtos := make([]models.VideoDTO, len(videos))
	for i, v := range videos {
		dtos[i] = v.ToDTO()
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetVideo(w http.ResponseWriter, r *http.Request) {
	video, err := h.service.GetVideo(mux.Vars(r)["videoId"])
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, video.ToDTO())
}

func (h *Handler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	var dto models.VideoDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	dto.SubjectID = mux.Vars(r)["subjectId"]
	if dto.Title == "" || dto.URL == "" {
		http.Error(w, "Video title and url are required", http.StatusBadRequest)
		return
	}

	video := dto.ToModel()
	created, err := h.service.CreateVideo(&video)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created.ToDTO())
}

func (h *Handler) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	var dto models.VideoDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	dto.ID = mux.Vars(r)["videoId"]

	video := dto.ToModel()
	updated, err := h.service.UpdateVideo(&video)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated.ToDTO())
}

func (h *Handler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteVideo(mux.Vars(r)["videoId"]); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Quizzes

func (h *Handler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.service.ListQuizzesBySubject(mux.Vars(r)["subjectId"])
	if err != nil {
		writeErr(w, err)
		return
	}
	dtos := make([]models.QuizDTO, len(quizzes))
	for i, q := range quizzes {
		dtos[i] = q.ToDTO()
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.service.GetQuiz(mux.Vars(r)["quizId"])
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz.ToDTO())
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var dto models.QuizDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	dto.SubjectID = mux.Vars(r)["subjectId"]

	quiz, err := h.service.CreateQuiz(dto)
	if err != nil {
		if errors.Is(err, ErrInvalidQuiz) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quiz.ToDTO())
}

func (h *Handler) UpdateQuiz(w http.ResponseWriter, r *http.Request) {
	var dto models.QuizDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	quiz, err := h.service.UpdateQuiz(mux.Vars(r)["quizId"], dto)
	if err != nil {
		if errors.Is(err, ErrInvalidQuiz) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz.ToDTO())
}

func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteQuiz(mux.Vars(r)["quizId"]); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
