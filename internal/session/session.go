// Package session manages per-user server-side session state: the
// authenticated identity, the shopping cart, and the checkout details
// captured between steps. State lives in a Store (Redis in production) keyed
// by a random id carried in a cookie; handlers receive a typed Session
// through the request context instead of touching global state.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/go-faster/errors"

	"github.com/forkline/storefront/internal/domain/cart"
	"github.com/forkline/storefront/internal/domain/checkout"
)

// State is everything a session carries. Cart and Checkout follow the
// checkout workflow lifecycle: the cart is cleared on successful commit and
// the whole state is destroyed on logout.
type State struct {
	UserID   int64                     `json:"user_id,omitempty"`
	Email    string                    `json:"email,omitempty"`
	Role     string                    `json:"role,omitempty"`
	Cart     cart.Cart                 `json:"cart,omitempty"`
	Checkout *checkout.DeliveryDetails `json:"checkout,omitempty"`
}

// Authenticated reports whether the session holds a logged-in identity.
func (s *State) Authenticated() bool {
	return s.UserID != 0
}

// Options configures cookie behaviour and state lifetime.
type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// DefaultOptions returns the defaults used by the server.
func DefaultOptions() Options {
	return Options{
		CookieName: "storefront_session",
		TTL:        2 * time.Hour,
	}
}

// Manager loads and persists sessions around HTTP requests.
type Manager struct {
	store Store
	opts  Options
}

// NewManager creates a Manager over the given store.
func NewManager(store Store, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = DefaultOptions().CookieName
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultOptions().TTL
	}
	return &Manager{store: store, opts: opts}
}

// Session is the in-request handle on session state. Mutate State() and call
// Save before writing the response; mutations within one request are
// read-modify-write against a single loaded copy.
type Session struct {
	id    string
	state State
	mgr   *Manager
}

// State returns the mutable session state.
func (s *Session) State() *State {
	return &s.state
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Save persists the state to the store and refreshes the cookie.
func (s *Session) Save(ctx context.Context, w http.ResponseWriter) error {
	if err := s.mgr.store.Save(ctx, s.id, &s.state, s.mgr.opts.TTL); err != nil {
		return errors.Wrap(err, "save session")
	}
	s.mgr.setCookie(w, s.id, int(s.mgr.opts.TTL.Seconds()))
	return nil
}

// Destroy removes the state from the store and expires the cookie (logout).
func (s *Session) Destroy(ctx context.Context, w http.ResponseWriter) error {
	s.state = State{}
	if err := s.mgr.store.Delete(ctx, s.id); err != nil {
		return errors.Wrap(err, "delete session")
	}
	s.mgr.setCookie(w, "", -1)
	return nil
}

func (m *Manager) setCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

type ctxKey struct{}

// Middleware loads (or creates) the session for every request and injects it
// into the request context.
func (m *Manager) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := &Session{mgr: m}

			// A cookie id is adopted only when the store recognizes it.
			// Unknown or expired ids get a freshly minted one, so a
			// client-chosen value can never become a session id.
			if cookie, err := r.Cookie(m.opts.CookieName); err == nil && cookie.Value != "" {
				if st, err := m.store.Load(r.Context(), cookie.Value); err == nil && st != nil {
					sess.id = cookie.Value
					sess.state = *st
				}
			}
			if sess.id == "" {
				sess.id = newID()
			}
			if sess.state.Cart == nil {
				sess.state.Cart = cart.New()
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext retrieves the session injected by Middleware. It returns nil
// when the middleware did not run, which is a programming error.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}

// newID generates a cryptographically random 32-byte hex session id.
func newID() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err) // crypto/rand failure means the host is unusable
	}
	return hex.EncodeToString(b)
}
