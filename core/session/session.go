package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang/snappy"
	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/attendance"
)

var (
	// errors
	ErrNotFound = errors.New("session not found")
)

const keyPrefix = "session:"

type (
	// Store is a key-value store with per-key expiry.
	Store interface {
		Get(ctx context.Context, key string) ([]byte, error) // ErrNotFound when missing or expired
		Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
		Delete(ctx context.Context, key string) error
	}

	// Preferences are the report selections a user keeps between requests.
	Preferences struct {
		Filter  attendance.QueryFilter `json:"filter"`
		Horizon int                    `json:"horizon,omitempty" validate:"gte=0,lte=24"`
	}

	Session struct {
		UserID      string      `json:"user_id"`
		Roles       []string    `json:"roles"`
		Preferences Preferences `json:"preferences"`
		UpdatedAt   time.Time   `json:"updated_at"` // UTC
	}

	Manager struct {
		store Store
		ttl   time.Duration
	}
)

var nowFunc = time.Now // mockable

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

func key(userID string) string { return keyPrefix + userID }

// Load returns the session of `userID`, or ErrNotFound.
func (m *Manager) Load(ctx context.Context, userID string) (Session, error) {
	data, err := m.store.Get(ctx, key(userID))
	if err != nil {
		return Session{}, err
	}
	return decode(data)
}

// Save stores `sess` and resets its expiry.
func (m *Manager) Save(ctx context.Context, sess Session) (Session, error) {
	sess.UpdatedAt = nowFunc().UTC()
	data, err := encode(sess)
	if err != nil {
		return Session{}, err
	}
	if err = m.store.Set(ctx, key(sess.UserID), data, m.ttl); err != nil {
		return Session{}, pkgerrors.Wrap(err, "saving session")
	}
	return sess, nil
}

func (m *Manager) Clear(ctx context.Context, userID string) error {
	return pkgerrors.Wrap(m.store.Delete(ctx, key(userID)), "clearing session")
}

func encode(sess Session) ([]byte, error) {
	raw, err := json.Marshal(sess)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "encoding session")
	}
	return snappy.Encode(nil, raw), nil
}

func decode(data []byte) (Session, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return Session{}, pkgerrors.Wrap(err, "decompressing session")
	}
	var sess Session
	if err = json.Unmarshal(raw, &sess); err != nil {
		return Session{}, pkgerrors.Wrap(err, "decoding session")
	}
	return sess, nil
}
