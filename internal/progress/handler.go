package progress

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"edulearn-server/internal/content"
	"edulearn-server/internal/models"
)

type Handler struct {
	service *Service
	content *content.Service
}

func NewHandler(service *Service, contentService *content.Service) *Handler {
	return &Handler{service: service, content: contentService}
}

type markRequest struct {
	SubjectID string `json:"subject_id"`
	VideoID   string `json:"video_id"`
	Watched   bool   `json:"watched"`
}

func (h *Handler) Mark(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(string)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req markRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.SubjectID == "" || req.VideoID == "" {
		http.Error(w, "subject_id and video_id are required", http.StatusBadRequest)
		return
	}

	p, err := h.service.MarkWatched(userID, req.SubjectID, req.VideoID, req.Watched)
	if err != nil {
		http.Error(w, "Failed to save progress", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(p)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(string)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	rows, err := h.service.ListByUser(userID)
	if err != nil {
		http.Error(w, "Failed to load progress", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(rows)
}

type subjectProgressResponse struct {
	SubjectID  string            `json:"subject_id"`
	Completion int               `json:"completion"`
	Entries    []models.Progress `json:"entries"`
}

// BySubject reports the user's watch state for one subject plus a
// completion percentage over the subject's published videos.
func (h *Handler) BySubject(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(string)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	subjectID := mux.Vars(r)["subjectId"]

	rows, err := h.service.ListBySubject(userID, subjectID)
	if err != nil {
		http.Error(w, "Failed to load progress", http.StatusInternalServerError)
		return
	}

	videos, err := h.content.ListVideosBySubject(subjectID)
	if err != nil {
		http.Error(w, "Failed to load videos", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(subjectProgressResponse{
		SubjectID:  subjectID,
		Completion: SubjectCompletion(rows, len(videos)),
		Entries:    rows,
	})
}
