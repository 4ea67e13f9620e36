package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/icetrack/icetrack/internal/domain/play"
	"github.com/icetrack/icetrack/internal/domain/rawdata"
)

const defaultPayloadSource = "nhle"

// IngestionService validates batches and hands them to the
// transactional writer. It is the single write path into the store.
type IngestionService struct {
	writer BatchWriter
	now    func() time.Time
}

func NewIngestionService(writer BatchWriter) *IngestionService {
	return &IngestionService{
		writer: writer,
		now:    time.Now,
	}
}

func (s *IngestionService) ApplyBatch(ctx context.Context, batch Batch) (ApplyReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.ApplyBatch")
	defer span.End()

	if batch.Game == nil && len(batch.Teams) == 0 && len(batch.Players) == 0 && len(batch.Plays) == 0 {
		return ApplyReport{}, fmt.Errorf("%w: batch is empty", ErrInvalidInput)
	}
	if len(batch.Plays) > 0 && batch.Game == nil {
		return ApplyReport{}, fmt.Errorf("%w: plays require their game in the same batch", ErrInvalidInput)
	}

	for _, t := range batch.Teams {
		if err := t.Validate(); err != nil {
			return ApplyReport{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	for _, p := range batch.Players {
		if err := p.Validate(); err != nil {
			return ApplyReport{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if batch.Game != nil {
		if err := batch.Game.Validate(); err != nil {
			return ApplyReport{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	for _, p := range batch.Plays {
		if err := p.Validate(); err != nil {
			return ApplyReport{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if p.GameID != batch.Game.ID {
			return ApplyReport{}, fmt.Errorf("%w: play %d belongs to game %d, batch carries game %d", ErrInvalidInput, p.ID, p.GameID, batch.Game.ID)
		}
	}
	if err := play.ValidateSequence(batch.Plays); err != nil {
		return ApplyReport{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	cleaned := make([]rawdata.Payload, 0, len(batch.RawPayloads))
	for _, item := range batch.RawPayloads {
		item.Source = strings.ToLower(strings.TrimSpace(item.Source))
		if item.Source == "" {
			item.Source = defaultPayloadSource
		}
		item.EntityType = strings.ToLower(strings.TrimSpace(item.EntityType))
		item.EntityKey = strings.TrimSpace(item.EntityKey)
		item.PayloadJSON = strings.TrimSpace(item.PayloadJSON)
		if item.EntityType == "" || item.EntityKey == "" || item.PayloadJSON == "" {
			return ApplyReport{}, fmt.Errorf("%w: entity_type, entity_key and payload are required", ErrInvalidInput)
		}
		if item.FetchedAt.IsZero() {
			item.FetchedAt = s.now().UTC()
		}

		hash := sha256.Sum256([]byte(item.PayloadJSON))
		item.PayloadHash = hex.EncodeToString(hash[:])
		cleaned = append(cleaned, item)
	}
	batch.RawPayloads = cleaned

	report, err := s.writer.ApplyBatch(ctx, batch)
	if err != nil {
		return ApplyReport{}, fmt.Errorf("apply batch: %w", err)
	}

	return report, nil
}
