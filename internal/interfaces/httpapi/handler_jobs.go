package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/icetrack/icetrack/internal/usecase"
)

type syncGameRequest struct {
	GameID int64 `json:"game_id" validate:"required,gt=0"`
}

type syncRostersRequest struct {
	Season int `json:"season" validate:"required,gt=0"`
}

func (h *Handler) RunScheduleSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunScheduleSyncJob")
	defer span.End()

	if h.scheduler == nil {
		writeError(ctx, w, fmt.Errorf("%w: scheduler is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.scheduler.RunScheduleSync(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run schedule sync job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunLiveCycleJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLiveCycleJob")
	defer span.End()

	if h.scheduler == nil {
		writeError(ctx, w, fmt.Errorf("%w: scheduler is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.scheduler.RunLiveCycle(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run live cycle job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunGameSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunGameSyncJob")
	defer span.End()

	if h.gameSync == nil {
		writeError(ctx, w, fmt.Errorf("%w: game sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req syncGameRequest
	if err := h.decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validator.StructCtx(ctx, req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	result, err := h.gameSync.SyncGame(ctx, req.GameID)
	if err != nil {
		h.logger.WarnContext(ctx, "run game sync job failed", "game_id", req.GameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunRosterSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRosterSyncJob")
	defer span.End()

	if h.rosterSync == nil {
		writeError(ctx, w, fmt.Errorf("%w: roster sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req syncRostersRequest
	if err := h.decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validator.StructCtx(ctx, req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	result, err := h.rosterSync.SyncRosters(ctx, req.Season)
	if err != nil {
		h.logger.WarnContext(ctx, "run roster sync job failed", "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) decodeJSONBody(r *http.Request, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
