package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/postsparkhq/postspark/internal/ai"
	"github.com/postsparkhq/postspark/internal/auth"
	"github.com/postsparkhq/postspark/internal/content"
	"github.com/postsparkhq/postspark/internal/model"
	"github.com/postsparkhq/postspark/internal/store"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 50
)

// Generator is the model call; the Gemini client implements it.
type Generator interface {
	GenerateContent(ctx context.Context, parts []ai.Part) (string, error)
}

type GenerateHandler struct {
	generator Generator
	users     *store.UserStore
	contents  *store.ContentStore
	cost      int
	logger    *slog.Logger
}

func NewGenerateHandler(
	generator Generator,
	users *store.UserStore,
	contents *store.ContentStore,
	cost int,
	logger *slog.Logger,
) *GenerateHandler {
	return &GenerateHandler{
		generator: generator,
		users:     users,
		contents:  contents,
		cost:      cost,
		logger:    logger,
	}
}

type generateRequest struct {
	ContentType   string `json:"content_type"`
	Prompt        string `json:"prompt"`
	ImageData     string `json:"image_data"`
	ImageMIMEType string `json:"image_mime_type"`
}

type generateResponse struct {
	Content     []string `json:"content"`
	ContentType string   `json:"content_type"`
	Points      int      `json:"points"`
	HistoryID   int64    `json:"history_id"`
}

// Generate runs one model call for the authenticated user: gate on balance,
// call, parse, debit, append history. Single attempt; a model failure costs
// nothing.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	typ, err := content.ParseType(req.ContentType)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		respondError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	user, err := h.users.GetByClerkID(claims.Subject)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "lookup user failed")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if user.Points < h.cost {
		respondError(w, http.StatusPaymentRequired, "insufficient points")
		return
	}

	hasImage := typ == content.TypeInstagram && req.ImageData != ""
	parts := []ai.Part{{Text: content.BuildPrompt(typ, req.Prompt, hasImage)}}
	if hasImage {
		parts = append(parts, ai.Part{InlineData: &ai.InlineData{
			MIMEType: req.ImageMIMEType,
			Data:     req.ImageData,
		}})
	}

	text, err := h.generator.GenerateContent(r.Context(), parts)
	if err != nil {
		h.logger.Error("generation failed", "clerk_user_id", claims.Subject, "content_type", typ, "error", err)
		respondError(w, http.StatusBadGateway, "an error occurred while generating content")
		return
	}

	units := content.ParseResponse(typ, text)

	updated, err := h.users.IncrementPoints(claims.Subject, -h.cost)
	if err != nil || updated == nil {
		respondError(w, http.StatusInternalServerError, "debit points failed")
		return
	}

	saved, err := h.contents.Save(user.ID, strings.Join(units, "\n\n"), req.Prompt, string(typ))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "save history failed")
		return
	}

	h.logger.Info("content generated",
		"clerk_user_id", claims.Subject,
		"content_type", typ,
		"units", len(units),
		"points_remaining", updated.Points,
	)
	respondJSON(w, http.StatusOK, generateResponse{
		Content:     units,
		ContentType: string(typ),
		Points:      updated.Points,
		HistoryID:   saved.ID,
	})
}

// Points returns the balance; unknown users read as 0, mirroring the
// original persistence contract.
func (h *GenerateHandler) Points(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	points, err := h.users.GetPoints(claims.Subject)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "lookup points failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"points": points})
}

// History lists prior generations, most recent first.
func (h *GenerateHandler) History(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	user, err := h.users.GetByClerkID(claims.Subject)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "lookup user failed")
		return
	}

	items := []model.GeneratedContent{}
	if user != nil {
		items, err = h.contents.ListByUser(user.ID, limit)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "list history failed")
			return
		}
		if items == nil {
			items = []model.GeneratedContent{}
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{"history": items})
}
