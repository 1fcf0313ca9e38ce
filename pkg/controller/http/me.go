package http

import (
	"net/http"

	"github.com/secmon-lab/eoms/pkg/domain/model/auth"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

type meResponse struct {
	UserID string       `json:"user_id"`
	Email  string       `json:"email"`
	Name   string       `json:"name"`
	Role   auth.Role    `json:"role"`
	UnitID types.UnitID `json:"unit_id,omitempty"`
}

// meHandler returns the caller as resolved by the auth middleware
func meHandler(w http.ResponseWriter, r *http.Request) {
	p := auth.PrincipalFromContext(r.Context())
	if p == nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, meResponse{
		UserID: p.UserID,
		Email:  p.Email,
		Name:   p.Name,
		Role:   p.Role,
		UnitID: p.UnitID,
	})
}
