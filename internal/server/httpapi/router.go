package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the API route tree. Everything except ping and the auth
// endpoints requires a bearer access token; the admin subtree additionally
// requires the admin role.
func NewRouter(h *Handler, secretKey []byte) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(h.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.Ping)

		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Post("/auth/refresh", h.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(secretKey))

			r.Post("/listings", h.CreateListing)
			r.Get("/listings", h.ListListings)
			r.Get("/listings/mine", h.MyListings)
			r.Get("/listings/{id}", h.GetListing)

			r.Post("/requests", h.CreateRequest)
			r.Get("/requests", h.MyRequests)
			r.Post("/requests/{id}/resolve", h.ResolveRequest)

			r.Get("/conversations", h.Conversations)
			r.Get("/conversations/{id}/messages", h.Messages)
			r.Post("/messages", h.SendMessage)

			r.Post("/photos/presign", h.PresignPhoto)

			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)

				r.Get("/admin/stats", h.AdminStats)
				r.Get("/admin/users", h.AdminUsers)
				r.Post("/admin/listings/{id}/moderate", h.ModerateListing)
			})
		})
	})

	return r
}
