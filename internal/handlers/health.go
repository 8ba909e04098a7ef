package handlers

import (
	"net/http"

	"forensai-backend/internal/models"
)

// Health always reports healthy; it does not probe the backend.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:  "healthy",
		Message: "ForensAI Backend is running",
	})
}
