package wire

import (
	"cinema-tickets/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler) {
	r.Post("/api/register", authHandler.Register)
	r.Post("/api/login", authHandler.Login)
}
