package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	repository "go-huddle/internal/pkg/hub/persistence/repository/port"
)

// PgContactRepository reads confirmed friendships from the platform's social
// graph tables. The hub only ever reads this data.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

var _ repository.ContactRepository = (*PgContactRepository)(nil)

func (r *PgContactRepository) ContactsOf(ctx context.Context, userID string) ([]string, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgContactRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT friend_id::text FROM hub.friendship
		WHERE user_id = $1::uuid AND accepted
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		contacts = append(contacts, id)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return contacts, nil
}
