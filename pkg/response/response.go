package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"quiz-platform/internal/apperror"
	"quiz-platform/pkg/logger"
)

type ErrorBody struct {
	StatusCode int                 `json:"statusCode"`
	Error      apperror.Kind       `json:"error"`
	Message    string              `json:"message"`
	Errors     map[string][]string `json:"errors,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.Warn("Failed to encode response", zap.Error(err))
	}
}

func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// Error writes err using the apperror taxonomy. Internal causes are logged, not returned.
func Error(w http.ResponseWriter, err error) {
	kind := apperror.KindOf(err)
	status := apperror.StatusCode(kind)

	body := ErrorBody{StatusCode: status, Error: kind, Message: "Internal server error"}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		if appErr.Message != "" {
			body.Message = appErr.Message
		}
		body.Errors = appErr.Fields
	}

	if kind == apperror.KindInternal {
		logger.Log.Error("Internal server error", zap.Error(err))
	}

	JSON(w, status, body)
}
