package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"sparkd_server/middleware"
	"sparkd_server/services"
)

// ChatController handles message threads and read receipts.
type ChatController struct {
	ChatService *services.ChatService
}

// NewChatController creates a new ChatController instance
func NewChatController(chatService *services.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

// HandleGetMessages fetches a thread's messages, newest first.
func (c *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	matchID := r.URL.Query().Get("matchId")
	if matchID == "" {
		writeError(w, services.ErrInvalidInput)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, services.ErrInvalidInput)
			return
		}
		limit = parsed
	}

	messages, err := c.ChatService.GetMessagesByMatchID(r.Context(), matchID, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

// HandleSendMessage appends a message from the authenticated user.
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserID(r)
	if uid == "" {
		writeError(w, services.ErrUnauthorized)
		return
	}

	var request struct {
		MatchID string `json:"matchId"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, services.ErrInvalidInput)
		return
	}

	message, err := c.ChatService.SendMessage(r.Context(), request.MatchID, uid, request.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, message)
}

// HandleMarkAsRead marks the caller's received messages in a thread as read.
func (c *ChatController) HandleMarkAsRead(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserID(r)
	if uid == "" {
		writeError(w, services.ErrUnauthorized)
		return
	}

	var request struct {
		MatchID string `json:"matchId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.MatchID == "" {
		writeError(w, services.ErrInvalidInput)
		return
	}

	if err := c.ChatService.MarkMessagesAsRead(r.Context(), request.MatchID, uid); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
