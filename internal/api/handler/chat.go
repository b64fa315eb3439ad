package handler

import (
	"encoding/json"
	"net/http"

	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/api/response"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/chat"
)

// NewChatHandler returns an http.HandlerFunc for POST /api/v1/chat.
func NewChatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		response.JSON(w, chat.Respond(req.Message))
	}
}
