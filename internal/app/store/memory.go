package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"pawchat/internal/app/user"
)

// Memory is an in-memory Store used by tests. It mirrors the Postgres
// implementation's contract: case-insensitive email uniqueness, monotonic ids,
// and conversations ordered by creation time then id.
type Memory struct {
	mu sync.Mutex

	users      map[int64]memUser
	nextUserID int64

	messages  []Message
	delivered map[int64]bool
	nextMsgID int64
}

type memUser struct {
	user.User
	passwordHash string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:      make(map[int64]memUser),
		nextUserID: 1,
		delivered:  make(map[int64]bool),
		nextMsgID:  1,
	}
}

// ErrDuplicateEmail is returned by CreateUser when the email is already taken.
// The Postgres implementation surfaces the same condition as a unique violation.
type duplicateEmailError struct{}

func (duplicateEmailError) Error() string { return "duplicate email" }

// ErrDuplicateEmail is the sentinel for an email uniqueness conflict.
var ErrDuplicateEmail error = duplicateEmailError{}

func (s *Memory) UserByID(ctx context.Context, id int64) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[id]; ok {
		found := u.User
		return &found, nil
	}
	return nil, nil
}

func (s *Memory) UserByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.findByEmail(email); ok {
		found := u.User
		return &found, nil
	}
	return nil, nil
}

func (s *Memory) CreateUser(ctx context.Context, email, passwordHash string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findByEmail(email); ok {
		return nil, ErrDuplicateEmail
	}

	u := memUser{
		User:         user.User{ID: s.nextUserID, Email: email},
		passwordHash: passwordHash,
	}
	s.users[u.ID] = u
	s.nextUserID++

	created := u.User
	return &created, nil
}

func (s *Memory) CredentialsByEmail(ctx context.Context, email string) (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.findByEmail(email); ok {
		return &Credentials{User: u.User, PasswordHash: u.passwordHash}, nil
	}
	return nil, nil
}

func (s *Memory) InsertMessage(ctx context.Context, p InsertMessageParams) (*Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := Message{
		ID:          s.nextMsgID,
		SenderID:    p.SenderID,
		RecipientID: p.RecipientID,
		Body:        p.Body,
		CreatedAt:   time.Now().UTC(),
	}
	if len(p.SharedPet) > 0 {
		m.SharedPet = append([]byte(nil), p.SharedPet...)
	}

	s.messages = append(s.messages, m)
	s.delivered[m.ID] = p.Delivered
	s.nextMsgID++

	stored := m
	return &stored, nil
}

func (s *Memory) Conversation(ctx context.Context, userID, otherID int64) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := make([]Message, 0)

	for _, m := range s.messages {
		if (m.SenderID == userID && m.RecipientID == otherID) ||
			(m.SenderID == otherID && m.RecipientID == userID) {
			if sender, ok := s.users[m.SenderID]; ok {
				m.SenderEmail = sender.Email
			}
			if recipient, ok := s.users[m.RecipientID]; ok {
				m.RecipientEmail = recipient.Email
			}
			messages = append(messages, m)
		}
	}

	sort.SliceStable(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	return messages, nil
}

// DeliveredFlag reports the delivered snapshot persisted with the given message.
// Test helper; the wire DTO intentionally omits this column.
func (s *Memory) DeliveredFlag(id int64) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flag, ok := s.delivered[id]
	return flag, ok
}

// MessageCount reports how many messages have been persisted.
func (s *Memory) MessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.messages)
}

func (s *Memory) findByEmail(email string) (memUser, bool) {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return memUser{}, false
}
