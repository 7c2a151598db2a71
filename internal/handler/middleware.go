package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/uma-arai/sbcntr-stay/internal/model"
)

type contextKey string

const (
	claimsKey    = contextKey("claims")
	requestIDKey = contextKey("requestID")

	requestIDHeader = "X-Request-ID"
)

// requestIDMiddleware はリクエストごとにIDを払い出し、レスポンスヘッダーとログに付与します
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestLogger(r *http.Request) *log.Entry {
	id, _ := r.Context().Value(requestIDKey).(string)
	return log.WithField("request_id", id)
}

// authMiddleware はBearerトークンを検証し、ユーザー情報をコンテキストに設定します
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, r, model.NewUnauthorizedError("missing authorization header"))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			writeError(w, r, model.NewUnauthorizedError("invalid authorization header format"))
			return
		}

		claims, err := h.auth.Verify(r.Context(), parts[1])
		if err != nil {
			requestLogger(r).Debugf("token rejected: %v", err)
			writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFrom(ctx context.Context) (model.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(model.Claims)
	return claims, ok
}
