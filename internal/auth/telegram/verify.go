// Package telegram validates the init data a Telegram Mini App receives from
// the Telegram client.
package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const DefaultMaxAge = 600 * time.Second

var (
	ErrMalformed    = errors.New("malformed init data")
	ErrHashMismatch = errors.New("init data hash mismatch")
	ErrExpired      = errors.New("init data is expired")
)

type User struct {
	ID              int64   `json:"id"`
	FirstName       *string `json:"first_name,omitempty"`
	LastName        *string `json:"last_name,omitempty"`
	Username        *string `json:"username,omitempty"`
	LanguageCode    string  `json:"language_code,omitempty"`
	AllowsWriteToPM bool    `json:"allows_write_to_pm,omitempty"`
}

type InitData struct {
	QueryID  string
	AuthDate time.Time
	User     User
	Hash     string
}

// Verify checks the signature and age of raw init data and returns the parsed
// fields. The signature is checked before the age.
func Verify(raw, botToken string, maxAge time.Duration, now time.Time) (*InitData, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	for key, vs := range values {
		if len(vs) != 1 {
			return nil, fmt.Errorf("%w: repeated key %q", ErrMalformed, key)
		}
	}

	hash := values.Get("hash")
	if hash == "" {
		return nil, fmt.Errorf("%w: hash is missing", ErrMalformed)
	}
	authDateRaw := values.Get("auth_date")
	authUnix, err := strconv.ParseInt(authDateRaw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: auth_date %q", ErrMalformed, authDateRaw)
	}
	userRaw := values.Get("user")
	if userRaw == "" {
		return nil, fmt.Errorf("%w: user is missing", ErrMalformed)
	}

	expected := Sign(values, botToken)
	if !hmac.Equal([]byte(hash), []byte(expected)) {
		return nil, ErrHashMismatch
	}

	var user User
	if err := json.Unmarshal([]byte(userRaw), &user); err != nil {
		return nil, fmt.Errorf("%w: user: %w", ErrMalformed, err)
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("%w: user id is missing", ErrMalformed)
	}

	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	authDate := time.Unix(authUnix, 0)
	if now.Sub(authDate) > maxAge {
		return nil, ErrExpired
	}

	return &InitData{
		QueryID:  values.Get("query_id"),
		AuthDate: authDate,
		User:     user,
		Hash:     hash,
	}, nil
}

// Sign returns the hex signature Telegram would attach to values. The hash
// field itself is ignored.
func Sign(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		if key == "hash" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+values.Get(key))
	}
	checkString := strings.Join(pairs, "\n")

	secret := hmacSHA256([]byte("WebAppData"), []byte(botToken))
	return hex.EncodeToString(hmacSHA256(secret, []byte(checkString)))
}

// SessionToken derives a session token for a promoter at the given instant.
func SessionToken(botToken, promoterID string, at time.Time) string {
	msg := fmt.Sprintf("%s:%d", promoterID, at.UnixMilli())
	return hex.EncodeToString(hmacSHA256([]byte(botToken), []byte(msg)))
}

func hmacSHA256(key, msg []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	return mac.Sum(nil)
}
