package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/gdp-insight-agent/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/gdp-insight-agent/agent/contract"
	toolx "github.com/tanpawarit/gdp-insight-agent/agent/tool"
	"github.com/tanpawarit/gdp-insight-agent/gdp"
)

type MessageHandler interface {
	HandleMessage(ctx context.Context, sessionID string, text string) (string, error)
}

// Handler exposes the GDP tools and the analyst over JSON. chat may be nil,
// in which case only the tool routes answer.
type Handler struct {
	gateway      *toolx.Gateway
	transcripts  contractx.TranscriptStore
	chat         MessageHandler
	newSessionID func() string
}

func NewHandler(gateway *toolx.Gateway, transcripts contractx.TranscriptStore, chat MessageHandler) *Handler {
	return &Handler{
		gateway:      gateway,
		transcripts:  transcripts,
		chat:         chat,
		newSessionID: uuid.NewString,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/v1/tools", h.ListTools)
	r.Post("/v1/sessions", h.CreateSession)

	r.Route("/v1/sessions/{sessionID}", func(r chi.Router) {
		r.Delete("/", h.ResetSession)
		r.Get("/transcript", h.GetTranscript)
		r.Post("/tools/{tool}", h.CallTool)
		r.Post("/messages", h.PostMessage)
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type toolCallRequest struct {
	Query string `json:"query"`
}

type messageRequest struct {
	Message string `json:"message"`
}

type messageResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"agent":  h.chat != nil,
	})
}

func (h *Handler) ListTools(w http.ResponseWriter, r *http.Request) {
	infos := toolx.Infos()
	out := make([]toolInfo, 0, len(infos))
	for _, info := range infos {
		out = append(out, toolInfo{Name: info.Name, Description: info.Desc})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": out})
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": h.newSessionID()})
}

func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	if err := h.transcripts.Reset(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	turns, err := h.transcripts.Load(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if turns == nil {
		turns = []gdp.Turn{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"turns":      turns,
	})
}

func (h *Handler) CallTool(w http.ResponseWriter, r *http.Request) {
	name, ok := toolx.Canonical(chi.URLParam(r, "tool"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown tool"})
		return
	}

	var req toolCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return
	}

	res, err := h.gateway.Call(r.Context(), chi.URLParam(r, "sessionID"), name, req.Query)
	if err != nil {
		log.Error().Err(err).Str("tool", name).Msg("tool call failed")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if res.Error != "" {
		writeJSON(w, http.StatusBadRequest, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	if h.chat == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "no language model is configured"})
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	reply, err := h.chat.HandleMessage(r.Context(), sessionID, req.Message)
	switch {
	case errors.Is(err, orchestrator.ErrInvalidMessage), errors.Is(err, orchestrator.ErrInvalidSession):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		log.Error().Err(err).Str("session_id", sessionID).Msg("handle message failed")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{SessionID: sessionID, Reply: reply})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: strings.TrimSpace(err.Error())})
}
