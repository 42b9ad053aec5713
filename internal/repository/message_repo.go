package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"chat-relay/internal/domain"
)

// MessageRepository define el contrato de persistencia para mensajes.
type MessageRepository interface {
	Create(ctx context.Context, message domain.StoredMessage) error
	ListAll(ctx context.Context) ([]domain.StoredMessage, error)
}

// PgMessageRepository implementa MessageRepository usando pgxpool.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Create(ctx context.Context, message domain.StoredMessage) error {
	const query = `
		INSERT INTO messages (id, sender, content, sent_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.Sender,
		message.Content,
		message.Timestamp,
		message.CreatedAt,
	)
	return err
}

func (r *PgMessageRepository) ListAll(ctx context.Context) ([]domain.StoredMessage, error) {
	const query = `
		SELECT id, sender, content, sent_at, created_at
		FROM messages
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.StoredMessage
	for rows.Next() {
		var msg domain.StoredMessage
		err = rows.Scan(
			&msg.ID,
			&msg.Sender,
			&msg.Content,
			&msg.Timestamp,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
