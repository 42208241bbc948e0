package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dkrasnov-dev/baraholka/internal/common"
	"github.com/dkrasnov-dev/baraholka/internal/server/auth"
	"github.com/dkrasnov-dev/baraholka/internal/server/models"
)

type contextKey string

const accountContextKey contextKey = "account"

// requireAccount authenticates the request from its bearer token and loads
// the current account into the request context. The account lookup also
// rejects tokens whose account was deleted after the token was minted.
func (s *Server) requireAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthHeaderName)
		if !strings.HasPrefix(header, common.BearerPrefix) {
			s.writeError(w, common.ErrorUnauthorized)
			return
		}
		tokenString := strings.TrimPrefix(header, common.BearerPrefix)

		handle, err := auth.HandleFromToken(tokenString, []byte(s.cfg.SecretKey))
		if err != nil {
			s.writeError(w, err)
			return
		}

		account, err := s.accounts.Get(r.Context(), handle)
		if err != nil {
			s.writeError(w, common.ErrorUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), accountContextKey, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accountFrom(ctx context.Context) (*models.Account, bool) {
	account, ok := ctx.Value(accountContextKey).(*models.Account)
	return account, ok
}
