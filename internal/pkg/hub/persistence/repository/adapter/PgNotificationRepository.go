package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-huddle/internal/pkg/hub/domain"
	repository "go-huddle/internal/pkg/hub/persistence/repository/port"
)

type PgNotificationRepository struct {
	pool *pgxpool.Pool
}

func NewPgNotificationRepository(pool *pgxpool.Pool) *PgNotificationRepository {
	return &PgNotificationRepository{pool: pool}
}

var _ repository.NotificationRepository = (*PgNotificationRepository)(nil)

func (r *PgNotificationRepository) Save(ctx context.Context, n domain.Notification) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgNotificationRepository: nil pool")
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO hub.notification (recipient_id, kind, title, body, link, read, created_at)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)
		RETURNING id::text
	`, n.RecipientID, string(n.Type), n.Title, n.Body, n.Link, n.Read, n.CreatedAt).Scan(&id)
	return id, err
}

func (r *PgNotificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgNotificationRepository: nil pool")
	}
	n, err := scanNotification(r.pool.QueryRow(ctx, `
		SELECT id::text, recipient_id::text, kind, title, body, link, read, created_at
		FROM hub.notification
		WHERE id = $1::uuid
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *PgNotificationRepository) MarkRead(ctx context.Context, id string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgNotificationRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE hub.notification SET read = TRUE
		WHERE id = $1::uuid AND NOT read
	`, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *PgNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgNotificationRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE hub.notification SET read = TRUE
		WHERE recipient_id = $1::uuid AND NOT read
	`, userID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *PgNotificationRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgNotificationRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM hub.notification WHERE id = $1::uuid`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PgNotificationRepository) ListByRecipient(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgNotificationRepository: nil pool")
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, recipient_id::text, kind, title, body, link, read, created_at
		FROM hub.notification
		WHERE recipient_id = $1::uuid AND ($2 = FALSE OR NOT read)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *PgNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgNotificationRepository: nil pool")
	}
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM hub.notification
		WHERE recipient_id = $1::uuid AND NOT read
	`, userID).Scan(&count)
	return count, err
}

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var n domain.Notification
	var kind string
	if err := row.Scan(&n.ID, &n.RecipientID, &kind, &n.Title, &n.Body, &n.Link, &n.Read, &n.CreatedAt); err != nil {
		return nil, err
	}
	n.Type = domain.NotificationType(kind)
	return &n, nil
}
