// internal/answer/handler.go
package answer

import (
	"net/http"

	"github.com/gorilla/mux"

	"quiz-platform/internal/models"
	"quiz-platform/pkg/request"
	"quiz-platform/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAnswersRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	result, err := h.service.Submit(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, result)
}

func (h *Handler) DeleteMany(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteManyRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	result, err := h.service.DeleteMany(r.Context(), req.IDs)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, result)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	history, err := h.service.BuildUserHistory(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, history)
}

func (h *Handler) RegisterRoutes(api *mux.Router, deleteGuard func(http.Handler) http.Handler, submitGuard func(http.Handler) http.Handler) {
	api.Handle("/answers/create", submitGuard(http.HandlerFunc(h.Create))).Methods(http.MethodPost)
	api.Handle("/answers/delete-multiple", deleteGuard(http.HandlerFunc(h.DeleteMany))).Methods(http.MethodDelete)
	api.HandleFunc("/answers/history/{userId}", h.History).Methods(http.MethodGet)
}
