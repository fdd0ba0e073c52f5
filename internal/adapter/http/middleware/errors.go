package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/iho/paytransfer/internal/adapter/http/dto"
)

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.NewErrorResponse(message, r.URL.Path))
}
