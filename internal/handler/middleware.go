package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/segyhp/dues-engine/pkg/response"
)

type contextKey string

const actorKey contextKey = "actorID"

// maxWebhookBody caps what the signature check will buffer
const maxWebhookBody = 1 << 20

// WithActor stores the authenticated user in the request context
func WithActor(ctx context.Context, actorID uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey, actorID)
}

// ActorFrom returns the authenticated user set by AuthMiddleware
func ActorFrom(ctx context.Context) (uuid.UUID, bool) {
	actorID, ok := ctx.Value(actorKey).(uuid.UUID)
	return actorID, ok
}

// AuthMiddleware accepts HS256 bearer tokens whose subject is the user ID
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found || raw == "" {
				response.Unauthorized(w, "Missing bearer token")
				return
			}

			claims := &jwt.RegisteredClaims{}
			_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			actorID, err := uuid.Parse(claims.Subject)
			if err != nil {
				response.Unauthorized(w, "Invalid token subject")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actorID)))
		})
	}
}

var errBadSignature = errors.New("signature mismatch")

// WebhookSignatureMiddleware verifies X-Paystack-Signature, an HMAC-SHA512 of the raw body
func WebhookSignatureMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
			if err != nil {
				response.BadRequest(w, "Unable to read request body", err)
				return
			}

			if err := verifySignature(secret, body, r.Header.Get("X-Paystack-Signature")); err != nil {
				response.Unauthorized(w, "Invalid webhook signature")
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

func verifySignature(secret string, body []byte, signature string) error {
	expected, err := hex.DecodeString(signature)
	if err != nil || secret == "" {
		return errBadSignature
	}

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(mac.Sum(nil), expected) {
		return errBadSignature
	}

	return nil
}
