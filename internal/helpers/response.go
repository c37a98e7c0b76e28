package helpers

import (
	"encoding/json"
	"net/http"

	"migrator/internal/models"

	"go.uber.org/zap"
)

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("Failed to encode response", zap.Error(err))
	}
}

func RespondWithError(w http.ResponseWriter, code int, errors []string) {
	RespondWithJSON(w, code, models.Error{Status: code, Error: errors})
}
