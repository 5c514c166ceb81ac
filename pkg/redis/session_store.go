package redis

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"devqa.backend/internal/domain/entities"
	domainerrors "devqa.backend/internal/domain/errors"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps encrypted sessions in Redis. Each key expires together
// with its session, so DeleteExpired has nothing to do.
type SessionStore struct {
	encryptionKey []byte
	now           func() time.Time
}

var (
	setSessionValue    = Set
	getSessionValue    = Get
	delSessionValue    = Del
	pingSessionClient  = Ping
	marshalSessionJSON = json.Marshal
)

// NewSessionStore creates a new session store
func NewSessionStore(encryptionKeyHex string) (*SessionStore, error) {
	key, err := hex.DecodeString(encryptionKeyHex)
	if err != nil {
		return nil, errors.New("invalid encryption key hex")
	}
	if len(key) != 32 {
		return nil, errors.New("encryption key must be 32 bytes (64 hex chars)")
	}
	return &SessionStore{encryptionKey: key, now: time.Now}, nil
}

// Init verifies the Redis connection
func (s *SessionStore) Init(ctx context.Context) error {
	if err := pingSessionClient(ctx); err != nil {
		return fmt.Errorf("redis session store unavailable: %w", err)
	}
	return nil
}

// Create stores an encrypted session that expires at session.ExpiresAt
func (s *SessionStore) Create(ctx context.Context, session *entities.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return domainerrors.BadRequest("session already expired")
	}

	jsonData, err := marshalSessionJSON(session)
	if err != nil {
		return err
	}

	encryptedData, err := s.encrypt(jsonData)
	if err != nil {
		return err
	}

	return setSessionValue(ctx, sessionKeyPrefix+session.ID, encryptedData, ttl)
}

// Get retrieves and decrypts a session
func (s *SessionStore) Get(ctx context.Context, id string) (*entities.Session, error) {
	encryptedDataStr, err := getSessionValue(ctx, sessionKeyPrefix+id)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}

	decryptedData, err := s.decrypt(encryptedDataStr)
	if err != nil {
		return nil, err
	}

	var session entities.Session
	if err := json.Unmarshal(decryptedData, &session); err != nil {
		return nil, err
	}
	if session.Expired(s.now()) {
		return nil, domainerrors.ErrNotFound
	}

	return &session, nil
}

// Delete removes a session from Redis
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return delSessionValue(ctx, sessionKeyPrefix+id)
}

// DeleteExpired is a no-op; Redis evicts keys by TTL.
func (s *SessionStore) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (s *SessionStore) encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return hex.EncodeToString(ciphertext), nil
}

func (s *SessionStore) decrypt(ciphertextHex string) ([]byte, error) {
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
