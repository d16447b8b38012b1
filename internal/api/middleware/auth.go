package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/bookwise-app/booking-backend/internal/api/handlers"
	"github.com/bookwise-app/booking-backend/internal/domain"
	userRepo "github.com/bookwise-app/booking-backend/internal/infra/storage/user"
)

// HeaderUserID заголовок с идентификатором аутентифицированного пользователя
// Аутентификацию выполняет API gateway, сервис доверяет заголовку
const HeaderUserID = "X-User-ID"

type ctxKey string

const userCtxKey ctxKey = "auth_user"

// UserLoader интерфейс загрузки пользователя по ID
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth middleware аутентификации: читает X-User-ID, загружает пользователя
// и кладет его в контекст запроса
type Auth struct {
	users  UserLoader
	logger Logger
}

// NewAuth создает middleware аутентификации
func NewAuth(users UserLoader, logger Logger) *Auth {
	return &Auth{users: users, logger: logger}
}

// Middleware возвращает mux-совместимую middleware-функцию
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderUserID)
		if raw == "" {
			handlers.RespondUnauthorized(w, "missing "+HeaderUserID+" header")
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			a.logger.Warn("Auth - invalid %s header: %q", HeaderUserID, raw)
			handlers.RespondUnauthorized(w, "invalid "+HeaderUserID+" header")
			return
		}

		user, err := a.users.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, userRepo.ErrUserNotFound) {
				a.logger.Warn("Auth - unknown user id=%d", userID)
				handlers.RespondUnauthorized(w, "unknown user")
				return
			}
			a.logger.Error("Auth - failed to load user id=%d: %v", userID, err)
			handlers.RespondInternalError(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// WithUser кладет пользователя в контекст (используется в тестах handlers)
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// GetUser извлекает аутентифицированного пользователя из контекста
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userCtxKey).(*domain.User)
	return user, ok
}

// GetUserID извлекает ID аутентифицированного пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	user, ok := GetUser(ctx)
	if !ok {
		return 0, false
	}
	return user.ID, true
}
