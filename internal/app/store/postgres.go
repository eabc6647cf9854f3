package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pawchat/internal/app/user"
)

// Postgres implements Store on top of a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an initialized connection pool in a Store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) UserByID(ctx context.Context, id int64) (*user.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, email FROM users WHERE id = $1 LIMIT 1`, id)

	var u user.User
	if err := row.Scan(&u.ID, &u.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("user by id: %w", err)
	}

	return &u, nil
}

func (s *Postgres) UserByEmail(ctx context.Context, email string) (*user.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, email FROM users WHERE lower(email) = lower($1) LIMIT 1`, email)

	var u user.User
	if err := row.Scan(&u.ID, &u.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("user by email: %w", err)
	}

	return &u, nil
}

func (s *Postgres) CreateUser(ctx context.Context, email, passwordHash string) (*user.User, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id, email`,
		email, passwordHash)

	var u user.User
	if err := row.Scan(&u.ID, &u.Email); err != nil {
		return nil, err
	}

	return &u, nil
}

func (s *Postgres) CredentialsByEmail(ctx context.Context, email string) (*Credentials, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash FROM users WHERE lower(email) = lower($1) LIMIT 1`, email)

	var c Credentials
	if err := row.Scan(&c.User.ID, &c.User.Email, &c.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("credentials by email: %w", err)
	}

	return &c, nil
}

func (s *Postgres) InsertMessage(ctx context.Context, p InsertMessageParams) (*Message, error) {
	// jsonb NULL when no pet is attached, never the JSON literal null.
	var pet []byte
	if len(p.SharedPet) > 0 {
		pet = p.SharedPet
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO messages (sender_id, recipient_id, body, shared_pet, delivered)
		 VALUES ($1, $2, $3, $4::jsonb, $5)
		 RETURNING id, sender_id, recipient_id, body, shared_pet, created_at`,
		p.SenderID, p.RecipientID, p.Body, pet, p.Delivered)

	var m Message
	var storedPet []byte
	if err := row.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &storedPet, &m.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	m.SharedPet = storedPet

	return &m, nil
}

func (s *Postgres) Conversation(ctx context.Context, userID, otherID int64) ([]Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT m.id, m.sender_id, s.email AS sender_email,
		        m.recipient_id, r.email AS recipient_email,
		        m.body, m.shared_pet, m.created_at
		 FROM messages m
		 JOIN users s ON s.id = m.sender_id
		 JOIN users r ON r.id = m.recipient_id
		 WHERE (m.sender_id = $1 AND m.recipient_id = $2)
		    OR (m.sender_id = $2 AND m.recipient_id = $1)
		 ORDER BY m.created_at ASC, m.id ASC`,
		userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("fetch conversation: %w", err)
	}
	defer rows.Close()

	messages := make([]Message, 0)

	for rows.Next() {
		var m Message
		var pet []byte
		if err := rows.Scan(&m.ID, &m.SenderID, &m.SenderEmail,
			&m.RecipientID, &m.RecipientEmail, &m.Body, &pet, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation row: %w", err)
		}
		m.SharedPet = pet

		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch conversation: %w", err)
	}

	return messages, nil
}
