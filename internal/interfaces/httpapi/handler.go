package httpapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/icetrack/icetrack/internal/domain/anomaly"
	"github.com/icetrack/icetrack/internal/domain/game"
	"github.com/icetrack/icetrack/internal/domain/play"
	"github.com/icetrack/icetrack/internal/domain/player"
	"github.com/icetrack/icetrack/internal/domain/team"
	"github.com/icetrack/icetrack/internal/platform/logging"
	"github.com/icetrack/icetrack/internal/usecase"
)

type Handler struct {
	scheduler  *usecase.SchedulerService
	gameSync   *usecase.GameSyncService
	rosterSync *usecase.RosterSyncService
	teamRepo   team.Repository
	playerRepo player.Repository
	gameRepo   game.Repository
	playRepo   play.Repository
	anomalies  anomaly.Repository
	logger     *logging.Logger
	validator  *validator.Validate
}

func NewHandler(
	scheduler *usecase.SchedulerService,
	gameSync *usecase.GameSyncService,
	rosterSync *usecase.RosterSyncService,
	teamRepo team.Repository,
	playerRepo player.Repository,
	gameRepo game.Repository,
	playRepo play.Repository,
	anomalies anomaly.Repository,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		scheduler:  scheduler,
		gameSync:   gameSync,
		rosterSync: rosterSync,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		playRepo:   playRepo,
		anomalies:  anomalies,
		logger:     logger,
		validator:  validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
