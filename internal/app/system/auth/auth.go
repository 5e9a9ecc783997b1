package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants & globals                                                |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	isAuthKey     = "is_authenticated"
	userIDKey     = "user_id"
	userNameKey   = "user_name"
	userEmailKey  = "user_email"
	userRoleKey   = "user_role"
	employeeIDKey = "employee_id"
)

// Store is initialised once via InitSessionStore.
var Store *sessions.CookieStore

// sessionName is set by InitSessionStore.
var sessionName = "enrollhub-session"

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is what we cache in the session & inject into r.Context().
type SessionUser struct {
	ID         string
	Name       string
	Email      string
	Role       string
	EmployeeID string // hex ObjectID of the linked employee record, "" for managers
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// LoadSessionUser injects the user into context if they are logged in.
// If the session store has not been initialized yet, it is a no-op.
func LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Store == nil {
			next.ServeHTTP(w, r)
			return
		}

		sess, _ := Store.Get(r, sessionName)

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			u := &SessionUser{
				ID:         getString(sess, userIDKey),
				Name:       getString(sess, userNameKey),
				Email:      getString(sess, userEmailKey),
				Role:       getString(sess, userRoleKey),
				EmployeeID: getString(sess, employeeIDKey),
			}
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// SignIn writes the user into the session cookie.
func SignIn(w http.ResponseWriter, r *http.Request, u *SessionUser) error {
	if Store == nil {
		return fmt.Errorf("session store not initialized")
	}
	sess, _ := Store.Get(r, sessionName)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[userNameKey] = u.Name
	sess.Values[userEmailKey] = u.Email
	sess.Values[userRoleKey] = u.Role
	sess.Values[employeeIDKey] = u.EmployeeID
	return sess.Save(r, w)
}

// SignOut clears the session.
func SignOut(w http.ResponseWriter, r *http.Request) error {
	if Store == nil {
		return nil
	}
	sess, _ := Store.Get(r, sessionName)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// JSON callers get a plain 401; browser-ish callers are redirected to /login.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}

		if wantsHTML(r) {
			ret := url.QueryEscape(currentURI(r))
			http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
			return
		}

		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

// RequireRole ensures there is a user with one of the allowed roles in
// context (set by LoadSessionUser). Role comparison is case-insensitive.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)

			// Not signed in → 401 semantics
			if !ok {
				if wantsHTML(r) {
					ret := url.QueryEscape(currentURI(r))
					http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
					return
				}
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			// Signed in but wrong role → 403 semantics
			if _, has := set[strings.ToLower(u.Role)]; !has {
				if wantsHTML(r) {
					http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
					return
				}
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// InitSessionStore initializes the global session Store using the provided
// session key, cookie name, and domain. The `secure` flag controls whether
// cookies are marked Secure and which SameSite mode is used.
func InitSessionStore(sessionKey, name, domain string, secure bool, logger *zap.Logger) error {
	if sessionKey == "" {
		return fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name != "" {
		sessionName = name
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}

	// In prod with Secure cookies we use SameSite=None so cookies can be
	// sent in cross-site contexts. In dev, Lax is fine.
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}

	store.Options = opts
	Store = store

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return nil
}

// WithTestUser injects a session user directly into the request context.
// Tests use this to bypass the session middleware.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// helpers

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html")
}

func currentURI(r *http.Request) string {
	// Preserve path + query as a return param.
	u := *r.URL
	return u.RequestURI()
}
