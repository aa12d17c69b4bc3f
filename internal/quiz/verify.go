package quiz

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf16"
)

const (
	verificationCodeLength = 12
	isoMillis              = "2006-01-02T15:04:05.000Z"
)

type PayloadQuestion struct {
	CardID    string    `json:"cardId"`
	Direction Direction `json:"direction"`
	Prompt    string    `json:"prompt"`
}

type PayloadScore struct {
	Correct     int     `json:"correct"`
	Total       int     `json:"total"`
	Accuracy    float64 `json:"accuracy"`
	TimeSpentMs int64   `json:"timeSpentMs"`
}

// VerificationPayload is the part of a result covered by the verification code.
type VerificationPayload struct {
	FinishedAt string            `json:"finishedAt"`
	Config     SessionConfig     `json:"config"`
	Questions  []PayloadQuestion `json:"questions"`
	Answers    []string          `json:"answers"`
	Score      PayloadScore      `json:"score"`
}

// DigestFunc hashes the canonical payload bytes.
type DigestFunc func(data []byte) ([]byte, error)

func SHA256Digest(data []byte) ([]byte, error) {
	sum := sha256.Sum256(data)
	return sum[:], nil
}

type Verifier struct {
	digest DigestFunc
}

// NewVerifier uses SHA-256 when digest is nil.
func NewVerifier(digest DigestFunc) *Verifier {
	if digest == nil {
		digest = SHA256Digest
	}
	return &Verifier{digest: digest}
}

// Code returns the 12 character uppercase hex verification code. A failing
// digest falls back to the built-in FNV style hash.
func (v *Verifier) Code(payload VerificationPayload) string {
	canonical, err := CanonicalJSON(payload)
	if err != nil {
		// Only non-finite floats fail to encode.
		canonical = []byte(fmt.Sprintf("%+v", payload))
	}

	var hexDigest string
	if sum, err := v.digest(canonical); err == nil && len(sum)*2 >= verificationCodeLength {
		hexDigest = hex.EncodeToString(sum)
	} else {
		hexDigest = fallbackHashHex(string(canonical))
	}
	return strings.ToUpper(hexDigest[:verificationCodeLength])
}

func (v *Verifier) Verify(payload VerificationPayload, code string) bool {
	return strings.EqualFold(strings.TrimSpace(code), v.Code(payload))
}

// CanonicalJSON encodes v with every object key sorted. Array order is kept.
func CanonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}

	// Maps encode with sorted keys.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(generic); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func fallbackHashHex(text string) string {
	hashA := uint32(2166136261)
	hashB := uint32(2246822519)

	units := utf16.Encode([]rune(text))
	for _, code := range units {
		hashA ^= uint32(code)
		hashA *= 16777619
		hashB ^= uint32(code)
		hashB *= 1597334677
	}
	return fmt.Sprintf("%08x%08x%08x", hashA, hashB, uint32(len(units)))
}

func formatISO(t time.Time) string {
	return t.UTC().Format(isoMillis)
}
