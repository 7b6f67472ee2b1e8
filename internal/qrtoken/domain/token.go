package domain

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	persondomain "gymgate/backend/internal/person/domain"
)

var (
	// ErrMalformed indicates a payload that is structurally invalid and can
	// never be accepted, regardless of timing or state.
	ErrMalformed = errors.New("malformed token payload")

	// ErrExpired indicates a structurally valid token outside its validity
	// window. No grace period is applied.
	ErrExpired = errors.New("token expired")
)

// Payload is the decoded QR token. It is a bearer credential with a validity
// window and is never persisted as an entity; only its consumed nonce reaches
// the ledger.
type Payload struct {
	SubjectID   string
	SubjectType persondomain.Variant
	IssuedAt    time.Time
	ExpiresAt   time.Time
	Nonce       string
}

// wirePayload is the JSON shape scanners present. Exactly one of MemberID or
// StaffID must be set.
type wirePayload struct {
	MemberID  string `json:"memberId,omitempty"`
	StaffID   string `json:"staffId,omitempty"`
	IssuedAt  string `json:"issued_at"`
	ExpiresAt string `json:"expires_at"`
	Nonce     string `json:"nonce"`
}

// Decode parses and structurally validates a raw token payload. All structural
// failures map to ErrMalformed; temporal validity is checked separately by
// Validate so callers can distinguish the two rejection kinds.
func Decode(raw []byte) (*Payload, error) {
	var w wirePayload
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, ErrMalformed
	}

	var subjectID string
	var subjectType persondomain.Variant
	switch {
	case w.MemberID != "" && w.StaffID != "":
		return nil, ErrMalformed
	case w.MemberID != "":
		subjectID = w.MemberID
		subjectType = persondomain.VariantMember
	case w.StaffID != "":
		subjectID = w.StaffID
		subjectType = persondomain.VariantStaff
	default:
		return nil, ErrMalformed
	}

	if w.Nonce == "" {
		return nil, ErrMalformed
	}
	issuedAt, err := time.Parse(time.RFC3339, w.IssuedAt)
	if err != nil {
		return nil, ErrMalformed
	}
	expiresAt, err := time.Parse(time.RFC3339, w.ExpiresAt)
	if err != nil {
		return nil, ErrMalformed
	}
	if !expiresAt.After(issuedAt) {
		return nil, ErrMalformed
	}

	return &Payload{
		SubjectID:   subjectID,
		SubjectType: subjectType,
		IssuedAt:    issuedAt.UTC(),
		ExpiresAt:   expiresAt.UTC(),
		Nonce:       w.Nonce,
	}, nil
}

// Validate checks the payload's validity window against now. A token is
// expired only once now is strictly past expires_at; at the exact instant it
// is still valid.
func (p *Payload) Validate(now time.Time) error {
	if now.After(p.ExpiresAt) {
		return ErrExpired
	}
	return nil
}

// Encode renders the payload in the wire shape consumed by Decode.
func (p *Payload) Encode() ([]byte, error) {
	w := wirePayload{
		IssuedAt:  p.IssuedAt.UTC().Format(time.RFC3339),
		ExpiresAt: p.ExpiresAt.UTC().Format(time.RFC3339),
		Nonce:     p.Nonce,
	}
	switch p.SubjectType {
	case persondomain.VariantMember:
		w.MemberID = p.SubjectID
	case persondomain.VariantStaff:
		w.StaffID = p.SubjectID
	default:
		return nil, ErrMalformed
	}
	return json.Marshal(w)
}

// NewNonce returns a 32-byte random nonce in unpadded base64url form.
func NewNonce() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
