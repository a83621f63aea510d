package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrCodeNotFound    = errors.New("otp code not found or expired")
	ErrCodeInvalid     = errors.New("otp code does not match")
	ErrTooManyAttempts = errors.New("too many otp attempts")
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
)

// CodeStore holds hashed one-time codes with an expiry. Codes are stored
// hashed so a leaked store never exposes a live code.
type CodeStore interface {
	Save(ctx context.Context, key string, hash []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	IncrAttempts(ctx context.Context, key string, ttl time.Duration) (int, error)
}

type RedisCodeStore struct {
	rdb *redis.Client
}

func NewRedisCodeStore(rdb *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{rdb: rdb}
}

func (s *RedisCodeStore) Save(ctx context.Context, key string, hash []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, "otp:"+key, hash, ttl).Err()
}

func (s *RedisCodeStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.rdb.Get(ctx, "otp:"+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}
	return val, nil
}

func (s *RedisCodeStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, "otp:"+key, "otp-attempts:"+key).Err()
}

func (s *RedisCodeStore) IncrAttempts(ctx context.Context, key string, ttl time.Duration) (int, error) {
	attemptsKey := "otp-attempts:" + key
	n, err := s.rdb.Incr(ctx, attemptsKey).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		// Attempt counter lives exactly as long as the code can.
		if err := s.rdb.Expire(ctx, attemptsKey, ttl).Err(); err != nil {
			return int(n), err
		}
	}
	return int(n), nil
}

type OTPService struct {
	codes       CodeStore
	ttl         time.Duration
	maxAttempts int
}

func NewOTPService(codes CodeStore, ttl time.Duration, maxAttempts int) *OTPService {
	return &OTPService{codes: codes, ttl: ttl, maxAttempts: maxAttempts}
}

func codeKey(channel Channel, destination string) string {
	return fmt.Sprintf("%s:%s", channel, destination)
}

// Issue creates a fresh 6-digit code for the destination, replacing any
// outstanding one, and returns the plaintext for delivery.
func (s *OTPService) Issue(ctx context.Context, channel Channel, destination string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	key := codeKey(channel, destination)
	if err := s.codes.Delete(ctx, key); err != nil {
		return "", err
	}
	if err := s.codes.Save(ctx, key, hash, s.ttl); err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks a submitted code and consumes it on success. Each wrong
// attempt counts; past maxAttempts the code is burned.
func (s *OTPService) Verify(ctx context.Context, channel Channel, destination, code string) error {
	key := codeKey(channel, destination)

	attempts, err := s.codes.IncrAttempts(ctx, key, s.ttl)
	if err != nil {
		return err
	}
	if attempts > s.maxAttempts {
		_ = s.codes.Delete(ctx, key)
		return ErrTooManyAttempts
	}

	hash, err := s.codes.Get(ctx, key)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(code)) != nil {
		return ErrCodeInvalid
	}

	return s.codes.Delete(ctx, key)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
