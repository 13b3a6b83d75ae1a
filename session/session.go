// Package session keeps logged-in state in Redis. The browser only holds a
// signed token naming the Redis record.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CookieName = "session"
	DefaultTTL = 24 * time.Hour
)

var ErrNoSession = errors.New("no active session")

// Session is the server-side state of one logged-in browser.
type Session struct {
	ID      string   `json:"-"`
	UserID  uint     `json:"user_id"`
	Flashes []string `json:"flashes,omitempty"`
}

func (s *Session) AddFlash(msg string) {
	s.Flashes = append(s.Flashes, msg)
}

// PopFlashes returns pending flash messages and clears them.
func (s *Session) PopFlashes() []string {
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}

type Store struct {
	rdb    *redis.Client
	secret []byte
	ttl    time.Duration
}

func NewStore(rdb *redis.Client, secret string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{rdb: rdb, secret: []byte(secret), ttl: ttl}
}

// TTL is how long a session and its cookie stay valid.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

func key(id string) string {
	return "session:" + id
}

// Create starts a session for userID and returns it with the signed token
// to hand to the client.
func (s *Store) Create(ctx context.Context, userID uint) (*Session, string, error) {
	sess := &Session{ID: uuid.NewString(), UserID: userID}
	if err := s.Save(ctx, sess); err != nil {
		return nil, "", err
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        sess.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		_ = s.rdb.Del(ctx, key(sess.ID)).Err()
		return nil, "", fmt.Errorf("sign session token: %w", err)
	}
	return sess, token, nil
}

// Load verifies token and fetches the session it names.
func (s *Store) Load(ctx context.Context, token string) (*Session, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	if claims.ID == "" {
		return nil, ErrNoSession
	}

	data, err := s.rdb.Get(ctx, key(claims.ID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	sess.ID = claims.ID
	return &sess, nil
}

// Save writes the session back and refreshes its expiry.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, key(sess.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Destroy removes the session. Destroying a missing session is not an error.
func (s *Store) Destroy(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
