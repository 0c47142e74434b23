// Package handlers contains the REST endpoints. Handlers validate input,
// call repositories or services, and translate their errors into the
// shared taxonomy.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"workhub-backend/internal/repository"
	apperrors "workhub-backend/pkg/errors"
)

var validate = validator.New()

type errorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	appErr := toAppError(err)
	if appErr.Type == apperrors.ErrorTypeInternal {
		logger.Error("request failed", zap.Error(err))
	}
	respondJSON(w, appErr.HTTPStatus(), errorResponse{
		Error: appErr.Message,
		Type:  string(appErr.Type),
	})
}

// toAppError lifts repository errors into the shared taxonomy; anything
// unrecognized is internal.
func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case repository.IsNotFound(err):
		return &apperrors.AppError{Type: apperrors.ErrorTypeNotFound, Message: err.Error()}
	case repository.IsConflict(err):
		return &apperrors.AppError{Type: apperrors.ErrorTypeConflict, Message: err.Error()}
	case repository.IsUnavailable(err):
		return &apperrors.AppError{Type: apperrors.ErrorTypeUnavailable, Message: "storage temporarily unavailable"}
	default:
		return &apperrors.AppError{Type: apperrors.ErrorTypeInternal, Message: "internal error", Err: err}
	}
}

func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.NewValidation("invalid request body: " + err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		return apperrors.NewValidation("validation error: " + err.Error())
	}
	return nil
}
