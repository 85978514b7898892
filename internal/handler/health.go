package handler

import "net/http"

// HealthCheck reports liveness. No dependencies are touched.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
