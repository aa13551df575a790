package handler

import (
	"net/http"
	"strings"

	"github.com/go-faster/errors"

	"github.com/forkline/storefront/internal/domain/user"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type identityResponse struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		writeError(w, r, http.StatusUnprocessableEntity, "email and password are required")
		return
	}

	hash, err := user.HashPassword(req.Password)
	if err != nil {
		writeInternal(w, r, err)
		return
	}

	u := &user.User{
		Email:        email,
		PasswordHash: hash,
		Role:         user.NormalizeRole(req.Role),
	}
	if err := h.users.Create(r.Context(), u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			writeError(w, r, http.StatusConflict, "email already exists")
			return
		}
		writeInternal(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, identityResponse{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	u, err := h.users.FindByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, r, http.StatusUnauthorized, "invalid login")
			return
		}
		writeInternal(w, r, err)
		return
	}
	if !user.CheckPassword(u.PasswordHash, req.Password) {
		writeError(w, r, http.StatusUnauthorized, "invalid login")
		return
	}

	sess := h.sess(r)
	st := sess.State()
	st.UserID = u.ID
	st.Email = u.Email
	st.Role = u.Role
	if err := sess.Save(r.Context(), w); err != nil {
		writeInternal(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, identityResponse{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
	})
}

// logout destroys the session, cart included.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sess(r).Destroy(r.Context(), w); err != nil {
		writeInternal(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "logged out"})
}
