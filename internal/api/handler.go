package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"note-ai/assistant/internal/interfaces"
	"note-ai/assistant/internal/model"
	"note-ai/assistant/internal/service"
)

// ChatHandler handles HTTP requests for chat sessions and generation.
type ChatHandler struct {
	sessions  interfaces.SessionService
	generator interfaces.GenerationService
}

func NewChatHandler(sessions interfaces.SessionService, generator interfaces.GenerationService) *ChatHandler {
	return &ChatHandler{sessions: sessions, generator: generator}
}

// ListSessions godoc
// @Summary      List chat sessions
// @Description  Returns session summaries, newest first. Messages are omitted.
// @Tags         Sessions
// @Produce      json
// @Success      200  {array}   model.ChatSession
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/sessions [get]
func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.ListSessions(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	if sessions == nil {
		sessions = []*model.ChatSession{}
	}
	respondWithJSON(w, http.StatusOK, sessions)
}

// GetSession godoc
// @Summary      Get a chat session
// @Description  Returns the full session record including its message history.
// @Tags         Sessions
// @Produce      json
// @Param        uid  path      string  true  "Session UID"
// @Success      200  {object}  model.ChatSession
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/sessions/{uid} [get]
func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	session, err := h.sessions.GetSession(r.Context(), uid)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// UpdateSessionTitle godoc
// @Summary      Rename a chat session
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        uid    path      string              true  "Session UID"
// @Param        title  body      UpdateTitleRequest  true  "New title"
// @Success      200    {object}  StatusResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      404    {object}  ErrorResponse
// @Router       /v1/sessions/{uid}/title [put]
func (h *ChatHandler) UpdateSessionTitle(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	var req UpdateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}

	if err := h.sessions.UpdateSessionTitle(r.Context(), uid, req.Title); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// DeleteSession godoc
// @Summary      Delete a chat session
// @Description  Removes the session and all of its messages.
// @Tags         Sessions
// @Produce      json
// @Param        uid  path      string  true  "Session UID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/sessions/{uid} [delete]
func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	if err := h.sessions.DeleteSession(r.Context(), uid); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// Generate godoc
// @Summary      Generate assistant content
// @Description  Streams typed generation events over SSE. Failures arrive in-band as events with an error field.
// @Tags         Generation
// @Accept       json
// @Produce      text/event-stream
// @Param        request  body  model.GenerateRequest  true  "Message history and optional session UID"
// @Success      200  {object}  model.StreamEvent "Stream of events"
// @Router       /v1/generate [post]
func (h *ChatHandler) Generate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var req model.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Error decoding generate request body", "error", err)
		_ = writeStreamEvent(w, model.StreamEvent{Error: "Invalid request body"})
		return
	}

	stream := make(chan model.StreamEvent)
	go h.generator.Generate(r.Context(), &req, stream)

	for event := range stream {
		if r.Context().Err() != nil {
			slog.Info("Client disconnected during generation.")
			break
		}
		if err := writeStreamEvent(w, event); err != nil {
			slog.Warn("Could not write to generation stream, client likely disconnected.", "error", err)
			break
		}
	}

	slog.Info("Finished streaming generation response.")
}

// SettingsHandler handles HTTP requests for the workspace AI configuration.
type SettingsHandler struct {
	settings interfaces.SettingsService
}

func NewSettingsHandler(settings interfaces.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSetting godoc
// @Summary      Get the AI configuration
// @Description  The API key is redacted in the response.
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  service.AISetting
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/settings/ai [get]
func (h *SettingsHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	setting, err := h.settings.Get(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	// Never echo the key back to the browser.
	if setting.APIKey != "" {
		setting.APIKey = "********"
	}
	respondWithJSON(w, http.StatusOK, setting)
}

// UpdateSetting godoc
// @Summary      Save the AI configuration
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        setting  body      UpdateSettingRequest  true  "AI configuration"
// @Success      200      {object}  StatusResponse
// @Failure      400      {object}  ErrorResponse
// @Router       /v1/settings/ai [put]
func (h *SettingsHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}

	setting := &service.AISetting{Model: req.Model, APIKey: req.APIKey, BaseURL: req.BaseURL}
	if err := h.settings.Save(r.Context(), setting); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
