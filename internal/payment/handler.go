package payment

import (
	"encoding/json"
	"errors"
	"net/http"

	"edulearn-server/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type InitiateRequest struct {
	PlanID string `json:"plan_id"`
	Method string `json:"payment_method"`
}

type VerifyRequest struct {
	PlanID    string `json:"plan_id"`
	Method    string `json:"payment_method"`
	PaymentID string `json:"payment_id"`
}

func (h *Handler) Plans(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(Plans())
}

func (h *Handler) Initiate(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(string)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req InitiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	intent, err := h.service.Initiate(userID, req.PlanID, req.Method)
	if err != nil {
		if errors.Is(err, ErrUnknownPlan) || errors.Is(err, ErrUnknownGateway) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Payment initiation failed", http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(intent)
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(string)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.PaymentID == "" {
		http.Error(w, "payment_id is required", http.StatusBadRequest)
		return
	}

	sub, err := h.service.Verify(userID, req.PlanID, req.Method, req.PaymentID)
	if err != nil {
		if errors.Is(err, ErrUnknownPlan) || errors.Is(err, ErrUnknownGateway) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Payment verification failed", http.StatusBadGateway)
		return
	}

	json.NewEncoder(w).Encode(sub)
}

func (h *Handler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(string)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sub, err := h.service.CancelSubscription(userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, "No subscription to cancel", http.StatusNotFound)
			return
		}
		http.Error(w, "Cancellation failed", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(sub)
}
