package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/godlywomen/community-api/internal/domain"
)

// ConversationRepository persists two-party conversations.
type ConversationRepository interface {
	// FindOrCreate returns the conversation for the pair, creating it when
	// absent. The bool reports whether it was created.
	FindOrCreate(ctx context.Context, participants [2]string) (*domain.Conversation, bool, error)
	GetByID(ctx context.Context, id string) (*domain.Conversation, error)
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]domain.Conversation, error)
	CountForUser(ctx context.Context, userID string) (int, error)
}

// MessageRepository persists conversation messages.
type MessageRepository interface {
	// Create stores the message and bumps the conversation's updated_at.
	Create(ctx context.Context, message *domain.Message) error
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	Delete(ctx context.Context, id string) error
	ListByConversation(ctx context.Context, conversationID string, limit, offset int) ([]domain.Message, error)
	CountByConversation(ctx context.Context, conversationID string) (int, error)
	// MarkRead flags every message not sent by readerID as read and returns
	// how many changed.
	MarkRead(ctx context.Context, conversationID, readerID string) (int, error)
	CountUnread(ctx context.Context, conversationID, readerID string) (int, error)
}

type conversationRepository struct {
	pool *pgxpool.Pool
}

// NewConversationRepository returns the repository.
func NewConversationRepository(pool *pgxpool.Pool) ConversationRepository {
	return &conversationRepository{pool: pool}
}

const conversationColumns = `id, user_a, user_b, created_at, updated_at`

func (r *conversationRepository) FindOrCreate(ctx context.Context, participants [2]string) (*domain.Conversation, bool, error) {
	const insert = `
        INSERT INTO conversations (user_a, user_b) VALUES ($1,$2)
        ON CONFLICT (user_a, user_b) DO NOTHING
        RETURNING ` + conversationColumns
	conv, err := scanConversation(r.pool.QueryRow(ctx, insert, participants[0], participants[1]))
	if err == nil {
		return conv, true, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	const existing = `SELECT ` + conversationColumns + ` FROM conversations WHERE user_a=$1 AND user_b=$2`
	conv, err = scanConversation(r.pool.QueryRow(ctx, existing, participants[0], participants[1]))
	if err != nil {
		return nil, false, err
	}
	return conv, false, nil
}

func (r *conversationRepository) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	return scanConversation(r.pool.QueryRow(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE id=$1`, id))
}

func (r *conversationRepository) ListForUser(ctx context.Context, userID string, limit, offset int) ([]domain.Conversation, error) {
	limit, offset = page(limit, offset)
	const query = `SELECT ` + conversationColumns + ` FROM conversations
        WHERE user_a=$1 OR user_b=$1
        ORDER BY updated_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var result []domain.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *conv)
	}
	return result, rows.Err()
}

func (r *conversationRepository) CountForUser(ctx context.Context, userID string) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM conversations WHERE user_a=$1 OR user_b=$1`, userID,
	).Scan(&total)
	return total, translate(err)
}

func scanConversation(row pgx.Row) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := row.Scan(
		&conv.ID,
		&conv.Participants[0],
		&conv.Participants[1],
		&conv.CreatedAt,
		&conv.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &conv, nil
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository returns the repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

const messageColumns = `id, conversation_id, sender_id, content, is_read, created_at`

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insert = `
        INSERT INTO messages (conversation_id, sender_id, content)
        VALUES ($1,$2,$3)
        RETURNING id, is_read, created_at`
	if err := tx.QueryRow(ctx, insert,
		message.ConversationID,
		message.SenderID,
		message.Content,
	).Scan(&message.ID, &message.IsRead, &message.CreatedAt); err != nil {
		return translate(err)
	}
	if _, err := tx.Exec(ctx, `UPDATE conversations SET updated_at=$2 WHERE id=$1`, message.ConversationID, message.CreatedAt); err != nil {
		return translate(err)
	}
	return tx.Commit(ctx)
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	var msg domain.Message
	err := r.pool.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id=$1`, id).Scan(
		&msg.ID,
		&msg.ConversationID,
		&msg.SenderID,
		&msg.Content,
		&msg.IsRead,
		&msg.CreatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return &msg, nil
}

func (r *messageRepository) Delete(ctx context.Context, id string) error {
	return expectAffected(r.pool.Exec(ctx, `DELETE FROM messages WHERE id=$1`, id))
}

func (r *messageRepository) ListByConversation(ctx context.Context, conversationID string, limit, offset int) ([]domain.Message, error) {
	limit, offset = page(limit, offset)
	const query = `SELECT ` + messageColumns + ` FROM messages
        WHERE conversation_id=$1
        ORDER BY created_at ASC, id ASC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, conversationID, limit, offset)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.SenderID,
			&msg.Content,
			&msg.IsRead,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}

func (r *messageRepository) CountByConversation(ctx context.Context, conversationID string) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages WHERE conversation_id=$1`, conversationID).Scan(&total)
	return total, translate(err)
}

func (r *messageRepository) MarkRead(ctx context.Context, conversationID, readerID string) (int, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE messages SET is_read=TRUE WHERE conversation_id=$1 AND sender_id<>$2 AND NOT is_read`,
		conversationID, readerID)
	if err != nil {
		return 0, translate(err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *messageRepository) CountUnread(ctx context.Context, conversationID, readerID string) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE conversation_id=$1 AND sender_id<>$2 AND NOT is_read`,
		conversationID, readerID,
	).Scan(&total)
	return total, translate(err)
}
