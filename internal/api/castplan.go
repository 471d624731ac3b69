/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/friendsincode/castplan/internal/batch"
	"github.com/friendsincode/castplan/internal/models"
)

// API exposes HTTP handlers.
type API struct {
	db     *gorm.DB
	batch  *batch.Service
	logger zerolog.Logger
}

// New creates the API router wrapper.
func New(db *gorm.DB, batchSvc *batch.Service, logger zerolog.Logger) *API {
	return &API{
		db:     db,
		batch:  batchSvc,
		logger: logger.With().Str("component", "api").Logger(),
	}
}

// Routes registers all API routes on the router.
func (a *API) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", a.handleHealth)

		r.Route("/channels", func(r chi.Router) {
			r.Get("/", a.handleChannelsList)

			r.Route("/{channelID}", func(r chi.Router) {
				r.Get("/", a.handleChannelsGet)
				r.Get("/calendar", a.handleChannelCalendar)
				r.Post("/preview", a.handlePreview)
				r.Post("/allocate", a.handleAllocate)
				r.Get("/assignments", a.handleAssignmentsList)

				r.Route("/items", func(r chi.Router) {
					r.Get("/", a.handleItemsList)
					r.Post("/", a.handleItemsCreate)
				})
			})
		})
	})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleChannelsList(w http.ResponseWriter, r *http.Request) {
	var channels []models.Channel
	if err := a.db.WithContext(r.Context()).Order("name ASC").Find(&channels).Error; err != nil {
		a.logger.Error().Err(err).Msg("list channels")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"channels": channels})
}

func (a *API) handleChannelsGet(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channelID")

	channel, _, err := a.batch.Channel(r.Context(), channelID)
	if errors.Is(err, batch.ErrChannelNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		a.logger.Error().Err(err).Str("channel_id", channelID).Msg("load channel")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, channel)
}

// handleChannelCalendar describes the channel's publish window.
func (a *API) handleChannelCalendar(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channelID")

	_, cfg, err := a.batch.Channel(r.Context(), channelID)
	if errors.Is(err, batch.ErrChannelNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_calendar")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"timezone":       cfg.Timezone(),
		"start_hour":     cfg.StartHour(),
		"end_hour":       cfg.EndHour(),
		"interval_hours": cfg.IntervalHours(),
		"slots_per_day":  cfg.SlotsPerDay(),
	})
}

type previewRequest struct {
	Count int        `json:"count"`
	Start *time.Time `json:"start,omitempty"`
}

func (a *API) handlePreview(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channelID")

	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.Count < 1 {
		writeError(w, http.StatusBadRequest, "count_required")
		return
	}

	schedule, summary, err := a.batch.Preview(r.Context(), channelID, req.Count, req.Start)
	if errors.Is(err, batch.ErrChannelNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		a.logger.Error().Err(err).Str("channel_id", channelID).Msg("preview")
		writeError(w, http.StatusInternalServerError, "preview_failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"schedule": schedule,
		"summary":  summary,
	})
}

type allocateRequest struct {
	Commit bool `json:"commit"`
}

func (a *API) handleAllocate(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channelID")

	var req allocateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}
	}

	result, err := a.batch.Run(r.Context(), channelID, req.Commit)
	switch {
	case errors.Is(err, batch.ErrChannelNotFound):
		writeError(w, http.StatusNotFound, "not_found")
		return
	case errors.Is(err, batch.ErrChannelInactive):
		writeError(w, http.StatusConflict, "channel_inactive")
		return
	case errors.Is(err, batch.ErrValidationFailed):
		// Return the result so callers can inspect the violations.
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	case err != nil:
		a.logger.Error().Err(err).Str("channel_id", channelID).Msg("allocation run failed")
		writeError(w, http.StatusBadGateway, "allocation_failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleAssignmentsList(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channelID")

	var assignments []models.ScheduleAssignment
	if err := a.db.WithContext(r.Context()).
		Where("channel_id = ?", channelID).
		Order("publish_at ASC").
		Find(&assignments).Error; err != nil {
		a.logger.Error().Err(err).Str("channel_id", channelID).Msg("list assignments")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"assignments": assignments})
}

func (a *API) handleItemsList(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channelID")

	query := a.db.WithContext(r.Context()).Where("channel_id = ?", channelID)
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var items []models.ContentItem
	if err := query.Order("created_at ASC").Find(&items).Error; err != nil {
		a.logger.Error().Err(err).Str("channel_id", channelID).Msg("list items")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

type itemCreateRequest struct {
	Title      string `json:"title"`
	ExternalID string `json:"external_id"`
}

func (a *API) handleItemsCreate(w http.ResponseWriter, r *http.Request) {
	channelID := chi.URLParam(r, "channelID")

	var req itemCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title_required")
		return
	}
	if req.ExternalID == "" {
		writeError(w, http.StatusBadRequest, "external_id_required")
		return
	}

	if _, _, err := a.batch.Channel(r.Context(), channelID); err != nil {
		if errors.Is(err, batch.ErrChannelNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	item := models.ContentItem{
		ID:         uuid.NewString(),
		ChannelID:  channelID,
		Title:      req.Title,
		ExternalID: req.ExternalID,
		Status:     models.ItemPending,
	}
	if err := a.db.WithContext(r.Context()).Create(&item).Error; err != nil {
		a.logger.Error().Err(err).Str("channel_id", channelID).Msg("create item")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
