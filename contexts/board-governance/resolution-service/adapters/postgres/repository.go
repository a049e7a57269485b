package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"boardgov/contexts/board-governance/resolution-service/domain/entities"
	domainerrors "boardgov/contexts/board-governance/resolution-service/domain/errors"
	"boardgov/contexts/board-governance/resolution-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) SaveResolution(ctx context.Context, resolution entities.Resolution) error {
	row := resolutionModelFromEntity(resolution)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"meeting_id":             row.MeetingID,
			"title":                  row.Title,
			"body":                   row.Body,
			"proposed_by":            row.ProposedBy,
			"status":                 row.Status,
			"total_eligible_voters":  row.TotalEligibleVoters,
			"minimum_quorum_percent": row.MinimumQuorumPercent,
			"requires_majority":      row.RequiresMajority,
			"voting_deadline":        row.VotingDeadline,
			"passed_reason":          row.PassedReason,
			"decided_at":             row.DecidedAt,
			"updated_at":             row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrConflict
		}
		return r.logError("resolution_repo_save_resolution_failed", create.Error,
			"resolution_id", strings.TrimSpace(resolution.ResolutionID),
		)
	}
	return nil
}

func (r *Repository) GetResolution(ctx context.Context, resolutionID string) (entities.Resolution, error) {
	var row resolutionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(resolutionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Resolution{}, domainerrors.ErrResolutionNotFound
		}
		return entities.Resolution{}, r.logError("resolution_repo_get_resolution_failed", err,
			"resolution_id", strings.TrimSpace(resolutionID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListResolutionsByStatus(ctx context.Context, status entities.ResolutionStatus) ([]entities.Resolution, error) {
	var rows []resolutionModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("resolution_repo_list_by_status_failed", err,
			"status", string(status),
		)
	}
	items := make([]entities.Resolution, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) SaveBallot(ctx context.Context, ballot entities.Ballot) error {
	row := ballotModelFromEntity(ballot)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"choice":     row.Choice,
			"comment":    row.Comment,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		// The (resolution_id, voter_id) unique index backs the one-ballot-per
		// -voter invariant under concurrent casts.
		if isUniqueViolation(create.Error) {
			return domainerrors.ErrConflict
		}
		return r.logError("resolution_repo_save_ballot_failed", create.Error,
			"ballot_id", strings.TrimSpace(ballot.BallotID),
			"resolution_id", strings.TrimSpace(ballot.ResolutionID),
		)
	}
	return nil
}

func (r *Repository) GetBallot(ctx context.Context, ballotID string) (entities.Ballot, error) {
	var row ballotModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(ballotID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Ballot{}, domainerrors.ErrBallotNotFound
		}
		return entities.Ballot{}, r.logError("resolution_repo_get_ballot_failed", err,
			"ballot_id", strings.TrimSpace(ballotID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetBallotByVoter(
	ctx context.Context,
	resolutionID string,
	voterID string,
) (entities.Ballot, bool, error) {
	var row ballotModel
	err := r.db.WithContext(ctx).
		Where("resolution_id = ?", strings.TrimSpace(resolutionID)).
		Where("voter_id = ?", strings.TrimSpace(voterID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Ballot{}, false, nil
		}
		return entities.Ballot{}, false, r.logError("resolution_repo_get_ballot_by_voter_failed", err,
			"resolution_id", strings.TrimSpace(resolutionID),
			"voter_id", strings.TrimSpace(voterID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListBallotsByResolution(ctx context.Context, resolutionID string) ([]entities.Ballot, error) {
	var rows []ballotModel
	if err := r.db.WithContext(ctx).
		Where("resolution_id = ?", strings.TrimSpace(resolutionID)).
		Order("cast_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("resolution_repo_list_ballots_failed", err,
			"resolution_id", strings.TrimSpace(resolutionID),
		)
	}
	items := make([]entities.Ballot, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) Get(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		Where("expires_at > ?", now.UTC()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, r.logError("resolution_repo_idempotency_get_failed", err,
			"key", strings.TrimSpace(key),
		)
	}
	return ports.IdempotencyRecord{
		Key:         row.Key,
		RequestHash: row.RequestHash,
		EntityID:    row.EntityID,
		ExpiresAt:   row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) Put(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:         strings.TrimSpace(record.Key),
		RequestHash: record.RequestHash,
		EntityID:    record.EntityID,
		ExpiresAt:   record.ExpiresAt.UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"request_hash": row.RequestHash,
			"entity_id":    row.EntityID,
			"expires_at":   row.ExpiresAt,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("resolution_repo_idempotency_put_failed", err,
			"key", row.Key,
		)
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, event ports.EventEnvelope) error {
	payload, err := marshalEnvelope(event)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    event.OccurredAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return r.logError("resolution_repo_outbox_append_failed", err,
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("resolution_repo_outbox_list_failed", err)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	ts := publishedAt.UTC()
	err := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": &ts,
		}).Error
	if err != nil {
		return r.logError("resolution_repo_outbox_mark_failed", err,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "board-governance/resolution-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("resolution repository operation failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.ResolutionRepository = (*Repository)(nil)
var _ ports.BallotRepository = (*Repository)(nil)
var _ ports.IdempotencyStore = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
