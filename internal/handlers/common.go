package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"payu-relay/internal/apperrors"
)

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.New(apperrors.InternalError, "internal error")
	}
	writeJSON(w, appErr.HTTPStatus(), map[string]interface{}{"error": appErr})
}
