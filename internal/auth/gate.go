package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/thread-drafts/internal/config"
)

const authenticatedValue = "true"

// PasswordGate compares a submitted password with the configured one and remembers a
// match in a cookie. It keeps casual visitors out and nothing more: the comparison is a
// plain string match and the cookie carries no secret.
type PasswordGate struct { // implements AuthProvider
	cfg   config.GateConfig
	sleep func(ctx context.Context, d time.Duration) error
}

func NewPasswordGate(cfg config.GateConfig) *PasswordGate {
	if cfg.CookieName == "" {
		cfg.CookieName = "is_authenticated"
	}
	return &PasswordGate{
		cfg:   cfg,
		sleep: sleepCtx,
	}
}

func (g *PasswordGate) Enabled() bool {
	return g.cfg.Enabled
}

// Check is case-sensitive and exact.
func (g *PasswordGate) Check(password string) bool {
	return password == g.cfg.Password
}

func (g *PasswordGate) IsAuthenticated(r *http.Request) bool {
	if !g.cfg.Enabled {
		return true
	}
	cookie, err := r.Cookie(g.cfg.CookieName)
	return err == nil && cookie.Value == authenticatedValue
}

// Grant persists the authenticated flag for ten years.
func (g *PasswordGate) Grant(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.cfg.CookieName,
		Value:    authenticatedValue,
		Path:     "/",
		Expires:  time.Now().AddDate(10, 0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}

func (g *PasswordGate) WithGate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isExempt(r.URL.Path) || g.IsAuthenticated(r) {
				next.ServeHTTP(w, r)
				return
			}

			zerolog.Ctx(r.Context()).Debug().Str("path", r.URL.Path).Msg("Gate closed, redirecting to login")
			http.Redirect(w, r, config.LoginUrlPath, http.StatusSeeOther)
		})
	}
}

func isExempt(path string) bool {
	return path == config.LoginUrlPath ||
		path == config.RobotsUrlPath ||
		path == config.ThemeToggleUrlPath ||
		strings.HasPrefix(path, config.StaticUrlPath)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
