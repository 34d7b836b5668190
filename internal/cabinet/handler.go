package cabinet

import (
	"net/http"

	"github.com/gorilla/mux"

	"quiz-platform/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	cabinet, err := h.service.Cabinet(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, cabinet)
}

func (h *Handler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/cabinet/{id}", h.Get).Methods(http.MethodGet)
}
