// Package api exposes the scheduling sessions over HTTP. Handlers
// translate requests to engine operations and map the engine's
// sentinel errors to status codes; drop rejections stay bodyless to
// match the grid's silent-rejection behavior, while edit rejections
// carry a message.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"lineup/internal/db"
	"lineup/internal/events"
	"lineup/internal/metrics"
	"lineup/internal/model"
	"lineup/internal/roster"
	"lineup/internal/schedule"
	"lineup/internal/session"
)

// Handler holds all HTTP handlers for the lineup API.
type Handler struct {
	sessions *session.Manager
	database *db.DB
	logger   *zerolog.Logger
	limiters *limiterPool
}

// NewHandler constructs a Handler.
func NewHandler(sessions *session.Manager, database *db.DB, logger *zerolog.Logger, ratePerSecond float64, burst int) *Handler {
	return &Handler{
		sessions: sessions,
		database: database,
		logger:   logger,
		limiters: newLimiterPool(ratePerSecond, burst),
	}
}

// Routes builds the API router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(h.logger))

	r.Get("/health", healthCheck)

	r.Route("/performers", func(r chi.Router) {
		r.Get("/", h.listPerformers)
		r.Post("/", h.upsertPerformer)
		r.Delete("/{performerID}", h.deletePerformer)
	})

	r.Get("/lineups/{eventID}", h.getLineup)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.createSession)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Use(h.limiters.middleware)

			r.Get("/", h.getSession)
			r.Delete("/", h.deleteSession)
			r.Post("/restore", h.restoreSession)
			r.Post("/finalize", h.finalizeSession)

			r.Post("/stages", h.addStage)
			r.Delete("/stages/{stageID}", h.removeStage)
			r.Post("/stages/{stageID}/select", h.selectStage)

			r.Post("/drag", h.grab)
			r.Delete("/drag", h.cancelDrag)
			r.Post("/drop", h.drop)

			r.Post("/slots", h.place)
			r.Patch("/slots/{slotID}", h.editSlot)
			r.Delete("/slots/{slotID}", h.deleteSlot)
			r.Get("/slots/hour-count", h.hourCount)
			r.Delete("/slots", h.deleteAllInHour)

			r.Post("/blackouts", h.toggleBlackout)
		})
	})

	return r
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	s, ok := h.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return s, true
}

// writeGridError maps engine sentinel errors to status codes. When
// silent is set, rejection responses carry no body; the grid's drop
// path gives no feedback beyond the status itself.
func writeGridError(w http.ResponseWriter, err error, silent bool) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, schedule.ErrSlotConflict),
		errors.Is(err, schedule.ErrCellBlocked),
		errors.Is(err, schedule.ErrCellOccupied),
		errors.Is(err, schedule.ErrLastStage),
		errors.Is(err, schedule.ErrNoDragInFlight):
		status = http.StatusConflict
	case errors.Is(err, schedule.ErrEndNotAfterStart),
		errors.Is(err, schedule.ErrOutsideWindow):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, schedule.ErrStageNotFound),
		errors.Is(err, schedule.ErrSlotNotFound),
		errors.Is(err, schedule.ErrPerformerNotFound):
		status = http.StatusNotFound
	}

	if silent {
		w.WriteHeader(status)
		return
	}
	writeError(w, status, err.Error())
}

func sessionPayload(s *session.Session) sessionResponse {
	return sessionResponse{
		SessionID: s.ID,
		EventID:   s.EventID,
		Window:    s.Grid.Window(),
		Roster:    s.Roster.All(),
		Snapshot:  s.Grid.Snapshot(),
	}
}

// ─── Sessions ─────────────────────────────────────────────────────────────────

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.EventID == "" || req.StartsAt.IsZero() || req.EndsAt.IsZero() {
		writeError(w, http.StatusBadRequest, "event_id, starts_at and ends_at are required")
		return
	}

	view, err := roster.Load(r.Context(), h.database)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load roster")
		return
	}

	s := h.sessions.Create(req.EventID, req.StartsAt, req.EndsAt, view)
	metrics.SetSessionsActive(h.sessions.Count())

	writeJSON(w, http.StatusCreated, sessionPayload(s))
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionPayload(s))
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.sessions.Delete(r.Context(), s.ID)
	metrics.SetSessionsActive(h.sessions.Count())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) restoreSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := h.sessions.Restore(r.Context(), s); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to restore snapshot")
		return
	}
	writeJSON(w, http.StatusOK, sessionPayload(s))
}

func (h *Handler) finalizeSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	payload, err := json.Marshal(s.Grid.Snapshot())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to serialize lineup")
		return
	}

	lineup := &model.Lineup{
		EventID:  s.EventID,
		StartsAt: s.StartsAt,
		EndsAt:   s.EndsAt,
		Payload:  payload,
	}
	if err := h.database.SaveLineup(r.Context(), lineup); err != nil {
		h.logger.Error().Err(err).Str("event_id", s.EventID).Msg("failed to save lineup")
		writeError(w, http.StatusInternalServerError, "failed to save lineup")
		return
	}

	h.sessions.Committed(r.Context(), s, events.TypeLineupFinalized, s.EventID)
	writeJSON(w, http.StatusOK, map[string]string{"event_id": s.EventID})
}

func (h *Handler) getLineup(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	lineup, err := h.database.GetLineup(r.Context(), eventID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load lineup")
		return
	}
	if lineup == nil {
		writeError(w, http.StatusNotFound, "lineup not found")
		return
	}
	writeJSON(w, http.StatusOK, lineup)
}

// ─── Performers ───────────────────────────────────────────────────────────────

func (h *Handler) listPerformers(w http.ResponseWriter, r *http.Request) {
	performers, err := h.database.ListPerformers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list performers")
		return
	}
	if performers == nil {
		performers = []model.Performer{}
	}
	writeJSON(w, http.StatusOK, performers)
}

func (h *Handler) upsertPerformer(w http.ResponseWriter, r *http.Request) {
	var p model.Performer
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if p.ID == "" || p.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required")
		return
	}
	if err := h.database.UpsertPerformer(r.Context(), &p); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save performer")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) deletePerformer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "performerID")
	if err := h.database.DeletePerformer(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete performer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Stages ───────────────────────────────────────────────────────────────────

func (h *Handler) addStage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req addStageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	stage, err := s.Grid.AddStage(req.Name)
	if err != nil {
		writeGridError(w, err, false)
		return
	}

	metrics.IncStageOp("add")
	h.sessions.Committed(r.Context(), s, events.TypeStageAdded, stage.Name)
	writeJSON(w, http.StatusCreated, stage)
}

func (h *Handler) removeStage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	stageID := chi.URLParam(r, "stageID")

	if err := s.Grid.RemoveStage(stageID); err != nil {
		writeGridError(w, err, false)
		return
	}

	metrics.IncStageOp("remove")
	h.sessions.Committed(r.Context(), s, events.TypeStageRemoved, stageID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) selectStage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	stageID := chi.URLParam(r, "stageID")

	if err := s.Grid.SelectStage(stageID); err != nil {
		writeGridError(w, err, false)
		return
	}

	metrics.IncStageOp("select")
	h.sessions.Committed(r.Context(), s, events.TypeStageSelected, stageID)
	w.WriteHeader(http.StatusNoContent)
}

// ─── Drag & drop ──────────────────────────────────────────────────────────────

func (h *Handler) grab(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dragRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := s.Grid.Grab(req.PerformerID); err != nil {
		writeGridError(w, err, false)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) cancelDrag(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Grid.CancelDrag()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) drop(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dropRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	slot, err := s.Grid.Drop(req.Day, req.Hour, req.StageID)
	if err != nil {
		metrics.IncSlotPlaced(rejectionLabel(err))
		// Drop rejection is silent: status only, no body.
		writeGridError(w, err, true)
		return
	}

	metrics.IncSlotPlaced("ok")
	h.sessions.Committed(r.Context(), s, events.TypeSlotPlaced, slot.ID)
	writeJSON(w, http.StatusCreated, slot)
}

// ─── Slots ────────────────────────────────────────────────────────────────────

func (h *Handler) place(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req placeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	slot, err := s.Grid.Place(req.PerformerID, req.Day, req.Hour, req.StageID)
	if err != nil {
		metrics.IncSlotPlaced(rejectionLabel(err))
		writeGridError(w, err, true)
		return
	}

	metrics.IncSlotPlaced("ok")
	h.sessions.Committed(r.Context(), s, events.TypeSlotPlaced, slot.ID)
	writeJSON(w, http.StatusCreated, slot)
}

func (h *Handler) editSlot(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	slotID := chi.URLParam(r, "slotID")

	var req editSlotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	slot, err := s.Grid.Edit(slotID, req.Start, req.End, req.StageID)
	if err != nil {
		metrics.IncSlotEdited(rejectionLabel(err))
		// Edit rejections surface a message, unlike drops.
		writeGridError(w, err, false)
		return
	}

	metrics.IncSlotEdited("ok")
	h.sessions.Committed(r.Context(), s, events.TypeSlotEdited, slot.ID)
	writeJSON(w, http.StatusOK, slot)
}

func (h *Handler) deleteSlot(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	slotID := chi.URLParam(r, "slotID")

	if err := s.Grid.DeleteSlot(slotID); err != nil {
		writeGridError(w, err, false)
		return
	}

	metrics.IncSlotDeleted()
	h.sessions.Committed(r.Context(), s, events.TypeSlotDeleted, slotID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) hourCount(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	hour := r.URL.Query().Get("hour")
	stageID := r.URL.Query().Get("stage_id")
	if hour == "" || stageID == "" {
		writeError(w, http.StatusBadRequest, "hour and stage_id are required")
		return
	}

	writeJSON(w, http.StatusOK, hourCountResponse{
		Hour:    hour,
		StageID: stageID,
		Count:   s.Grid.CountInHour(hour, stageID),
	})
}

// deleteAllInHour is the two-step bulk deletion: the affected count
// must be fetched (or at least acknowledged with confirm=true) before
// anything is removed. A zero count needs no confirmation round-trip.
func (h *Handler) deleteAllInHour(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	hour := r.URL.Query().Get("hour")
	stageID := r.URL.Query().Get("stage_id")
	if hour == "" || stageID == "" {
		writeError(w, http.StatusBadRequest, "hour and stage_id are required")
		return
	}

	count := s.Grid.CountInHour(hour, stageID)
	if count == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		writeJSON(w, http.StatusConflict, hourCountResponse{Hour: hour, StageID: stageID, Count: count})
		return
	}

	removed := s.Grid.DeleteAllInHour(hour, stageID)
	metrics.AddSlotsBulkDeleted(removed)
	h.sessions.Committed(r.Context(), s, events.TypeSlotBulkDeleted, hour)
	writeJSON(w, http.StatusOK, bulkDeleteResponse{Removed: removed})
}

// ─── Blackouts ────────────────────────────────────────────────────────────────

func (h *Handler) toggleBlackout(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req toggleBlackoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	blocked, err := s.Grid.ToggleBlackout(req.Day, req.Hour)
	if err != nil {
		writeGridError(w, err, false)
		return
	}

	metrics.IncBlackoutToggled()
	h.sessions.Committed(r.Context(), s, events.TypeBlackoutToggled, req.Day+" "+req.Hour)
	writeJSON(w, http.StatusOK, toggleBlackoutResponse{Blocked: blocked})
}

func rejectionLabel(err error) string {
	switch {
	case errors.Is(err, schedule.ErrSlotConflict):
		return "conflict"
	case errors.Is(err, schedule.ErrCellBlocked):
		return "blocked"
	case errors.Is(err, schedule.ErrOutsideWindow):
		return "outside_window"
	case errors.Is(err, schedule.ErrEndNotAfterStart):
		return "invalid_range"
	default:
		return "rejected"
	}
}
