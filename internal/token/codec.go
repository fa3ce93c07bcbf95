package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/hkdf"

	"github.com/nkosarev/bookstore-server/internal/model"
)

// protectionPurpose is the fixed, versioned application-wide context the
// encryption key is derived for. Tokens sealed under a different context
// string fail authentication even with the same root secret.
const protectionPurpose = "bookstore/auth-action-tokens/v1"

var _ model.TokenCodec = (*Codec)(nil)

// Codec seals auth-action payloads with AES-256-GCM under a key derived
// from the root secret, and encodes the result URL-safe. It holds no
// state besides the key and is safe for concurrent use.
type Codec struct {
	aead cipher.AEAD
	now  func() time.Time
}

// NewCodec derives the protection key from the root secret and prepares
// the AEAD. An empty secret is a configuration fault.
func NewCodec(rootSecret string) (*Codec, error) {
	if rootSecret == "" {
		return nil, model.NewConfiguration("token root secret is not set")
	}

	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(rootSecret), nil, []byte(protectionPurpose))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("failed to derive token key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create aead: %w", err)
	}

	return &Codec{aead: aead, now: time.Now}, nil
}

// payload is the canonical wire form of an auth action. ExpiresAt is
// serialized as RFC 3339 so the UTC invariant survives the round trip.
type payload struct {
	UserID    int64         `json:"uid"`
	Purpose   model.Purpose `json:"purpose"`
	ExpiresAt string        `json:"exp"`
	NewEmail  string        `json:"new_email,omitempty"`
}

// CreateToken seals a purpose-bound payload into an opaque URL-safe
// string. The expiry must be a UTC instant, userID must be positive, and
// newEmail is required exactly for the email-change purpose.
func (c *Codec) CreateToken(purpose model.Purpose, userID int64, expiresAt time.Time, newEmail string) (string, error) {
	if !purpose.Known() {
		return "", model.NewInvalidArgument("unknown token purpose")
	}
	if userID <= 0 {
		return "", model.NewInvalidArgument("user id must be positive")
	}
	if expiresAt.Location() != time.UTC {
		return "", model.NewInvalidArgument("expiry must be UTC")
	}
	if purpose == model.PurposeEmailChange && newEmail == "" {
		return "", model.NewInvalidArgument("new email is required for email change tokens")
	}
	if purpose != model.PurposeEmailChange && newEmail != "" {
		return "", model.NewInvalidArgument("new email is only valid for email change tokens")
	}

	plain, err := json.Marshal(payload{
		UserID:    userID,
		Purpose:   purpose,
		ExpiresAt: expiresAt.Format(time.RFC3339Nano),
		NewEmail:  newEmail,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal token payload: %w", err)
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, plain, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// TryValidateToken decodes, decrypts and validates a token against the
// expected purpose. It never returns an error: every failure path —
// malformed encoding, authentication failure, malformed payload, purpose
// mismatch, non-UTC expiry, reached expiry, missing new email for an
// email change — reports ok=false.
func (c *Codec) TryValidateToken(token string, expected model.Purpose) (model.AuthAction, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return model.AuthAction{}, false
	}
	if len(raw) < c.aead.NonceSize() {
		return model.AuthAction{}, false
	}

	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return model.AuthAction{}, false
	}

	var p payload
	if err := json.Unmarshal(plain, &p); err != nil {
		return model.AuthAction{}, false
	}
	if p.UserID <= 0 || !p.Purpose.Known() {
		return model.AuthAction{}, false
	}
	if p.Purpose != expected {
		return model.AuthAction{}, false
	}

	expiresAt, err := time.Parse(time.RFC3339Nano, p.ExpiresAt)
	if err != nil {
		return model.AuthAction{}, false
	}
	if _, offset := expiresAt.Zone(); offset != 0 {
		return model.AuthAction{}, false
	}
	// A token is invalid starting exactly at its expiry instant.
	if !c.now().Before(expiresAt) {
		return model.AuthAction{}, false
	}
	if p.Purpose == model.PurposeEmailChange && p.NewEmail == "" {
		return model.AuthAction{}, false
	}

	return model.AuthAction{
		UserID:    p.UserID,
		Purpose:   p.Purpose,
		ExpiresAt: expiresAt.UTC(),
		NewEmail:  p.NewEmail,
	}, true
}
