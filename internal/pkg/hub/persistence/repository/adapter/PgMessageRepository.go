package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-huddle/internal/pkg/hub/domain"
	repository "go-huddle/internal/pkg/hub/persistence/repository/port"
)

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

var _ repository.MessageRepository = (*PgMessageRepository)(nil)

func (r *PgMessageRepository) Save(ctx context.Context, m domain.Message) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgMessageRepository: nil pool")
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO hub.message (sender_id, receiver_id, content, created_at, status)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5)
		RETURNING id::text
	`, m.SenderID, m.ReceiverID, m.Content, m.CreatedAt, string(m.Status)).Scan(&id)
	return id, err
}

func (r *PgMessageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	var m domain.Message
	var status string
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, sender_id::text, receiver_id::text, content, created_at, status
		FROM hub.message
		WHERE id = $1::uuid
	`, id).Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.CreatedAt, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m.Status = domain.MessageStatus(status)
	return &m, nil
}

func (r *PgMessageRepository) UpdateStatus(ctx context.Context, id string, status domain.MessageStatus) (domain.MessageStatus, bool, error) {
	if r == nil || r.pool == nil {
		return "", false, errors.New("PgMessageRepository: nil pool")
	}

	// The rank comparison rejects equal and backward transitions in the same
	// statement, so concurrent updates cannot interleave into a regression.
	var resulting string
	err := r.pool.QueryRow(ctx, `
		UPDATE hub.message SET status = $2
		WHERE id = $1::uuid
		  AND (CASE status WHEN 'sent' THEN 1 WHEN 'delivered' THEN 2 WHEN 'read' THEN 3 ELSE 0 END)
		    < (CASE $2    WHEN 'sent' THEN 1 WHEN 'delivered' THEN 2 WHEN 'read' THEN 3 ELSE 0 END)
		RETURNING status
	`, id, string(status)).Scan(&resulting)
	if err == nil {
		return domain.MessageStatus(resulting), true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", false, err
	}

	// No row updated: either the id is unknown or the transition was a no-op.
	current, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return "", false, getErr
	}
	return current.Status, false, nil
}

func (r *PgMessageRepository) ListConversation(ctx context.Context, userA, userB string, limit, offset int) ([]domain.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, sender_id::text, receiver_id::text, content, created_at, status
		FROM hub.message
		WHERE (sender_id = $1::uuid AND receiver_id = $2::uuid)
		   OR (sender_id = $2::uuid AND receiver_id = $1::uuid)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, userA, userB, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		var status string
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.CreatedAt, &status); err != nil {
			return nil, err
		}
		m.Status = domain.MessageStatus(status)
		msgs = append(msgs, m)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return msgs, nil
}
