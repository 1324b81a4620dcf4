package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"marina-backend/models"
	"marina-backend/status"

	"github.com/redis/go-redis/v9"
)

// VerificationService issues and redeems single-use identity codes.
// Sessions live in Redis as one hash per subject, so issuing a new code
// atomically replaces the previous session for that subject. Issuance for a
// given subject is serialized through a per-subject mutex so two concurrent
// codes can never both be "most recent".
type VerificationService struct {
	Redis *redis.Client

	CodeLength int
	CodeTTL    time.Duration

	// Injectable for tests.
	GenerateCode func(length int) (string, error)
	Now          func() time.Time

	mu       sync.Mutex
	subjects map[string]*sync.Mutex
}

func NewVerificationService(redisClient *redis.Client, codeLength int, codeTTL time.Duration, generate func(int) (string, error)) *VerificationService {
	return &VerificationService{
		Redis:        redisClient,
		CodeLength:   codeLength,
		CodeTTL:      codeTTL,
		GenerateCode: generate,
		Now:          func() time.Time { return time.Now().UTC() },
		subjects:     make(map[string]*sync.Mutex),
	}
}

func sessionKey(subject string) string {
	return fmt.Sprintf("verification:session:%s", subject)
}

func (s *VerificationService) subjectLock(subject string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.subjects[subject]
	if !ok {
		lock = &sync.Mutex{}
		s.subjects[subject] = lock
	}
	return lock
}

// Issue creates a fresh code for the subject, invalidating any session
// issued earlier. It returns the code for side-channel delivery together
// with its expiry.
func (s *VerificationService) Issue(ctx context.Context, subject string) (string, time.Time, error) {
	lock := s.subjectLock(subject)
	lock.Lock()
	defer lock.Unlock()

	code, err := s.GenerateCode(s.CodeLength)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate code: %w", err)
	}

	now := s.Now()
	expiresAt := now.Add(s.CodeTTL)
	key := sessionKey(subject)

	if err := s.Redis.Del(ctx, key).Err(); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to invalidate previous session: %w", err)
	}
	if err := s.Redis.HSet(ctx, key,
		"code", code,
		"verified", "0",
		"expires_at", strconv.FormatInt(expiresAt.Unix(), 10),
		"created_at", strconv.FormatInt(now.Unix(), 10),
	).Err(); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to store session: %w", err)
	}
	// Keep the key past its logical expiry so redeeming a stale code reports
	// expiry rather than absence; the expiry itself is checked at redeem time.
	if err := s.Redis.Expire(ctx, key, 2*s.CodeTTL).Err(); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to set session ttl: %w", err)
	}

	return code, expiresAt, nil
}

// Redeem validates the code for the subject and marks the session verified.
// A session moves verified=false -> true exactly once; a second attempt
// fails with status.ErrCodeAlreadyUsed even when the code is correct.
func (s *VerificationService) Redeem(ctx context.Context, subject, code string) (string, error) {
	lock := s.subjectLock(subject)
	lock.Lock()
	defer lock.Unlock()

	key := sessionKey(subject)
	fields, err := s.Redis.HGetAll(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	if len(fields) == 0 {
		return "", status.ErrSessionNotFound
	}

	session, err := parseSession(subject, fields)
	if err != nil {
		return "", err
	}

	if session.Code != code {
		return "", status.ErrInvalidCode
	}
	if session.Expired(s.Now()) {
		return "", status.ErrCodeExpired
	}
	if session.Verified {
		return "", status.ErrCodeAlreadyUsed
	}

	if err := s.Redis.HSet(ctx, key, "verified", "1").Err(); err != nil {
		return "", fmt.Errorf("failed to mark session verified: %w", err)
	}

	return subject, nil
}

func parseSession(subject string, fields map[string]string) (*models.VerificationSession, error) {
	expiresAt, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session for %s: %w", subject, err)
	}
	createdAt, _ := strconv.ParseInt(fields["created_at"], 10, 64)

	return &models.VerificationSession{
		Subject:   subject,
		Code:      fields["code"],
		Verified:  fields["verified"] == "1",
		ExpiresAt: time.Unix(expiresAt, 0).UTC(),
		CreatedAt: time.Unix(createdAt, 0).UTC(),
	}, nil
}
