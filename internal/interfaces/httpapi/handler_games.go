package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/icetrack/icetrack/internal/usecase"
)

const defaultRecentAnomalyLimit = 100

func (h *Handler) ListGamesByDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGamesByDate")
	defer span.End()

	day, err := queryDate(r, "date", time.Now().UTC())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	games, err := h.gameRepo.ListByDate(ctx, day)
	if err != nil {
		h.logger.ErrorContext(ctx, "list games by date failed", "date", day.Format("2006-01-02"), "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]gameDTO, 0, len(games))
	for _, g := range games {
		items = append(items, gameToDTO(g))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame")
	defer span.End()

	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	g, found, err := h.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !found {
		writeError(ctx, w, fmt.Errorf("%w: game %d", usecase.ErrNotFound, gameID))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(g))
}

func (h *Handler) ListGamePlays(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGamePlays")
	defer span.End()

	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	plays, err := h.playRepo.ListByGame(ctx, gameID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list game plays failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playDTO, 0, len(plays))
	for _, p := range plays {
		items = append(items, playToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListGameAnomalies(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGameAnomalies")
	defer span.End()

	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.anomalies.ListByGame(ctx, gameID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list game anomalies failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]anomalyDTO, 0, len(rows))
	for _, a := range rows {
		items = append(items, anomalyToDTO(a))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListRecentAnomalies(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRecentAnomalies")
	defer span.End()

	limit, err := queryInt(r, "limit", defaultRecentAnomalyLimit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.anomalies.ListRecent(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list recent anomalies failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]anomalyDTO, 0, len(rows))
	for _, a := range rows {
		items = append(items, anomalyToDTO(a))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
