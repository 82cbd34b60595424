package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/mmeshcher/hempmart-system/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware витрины хемпмарт.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.With(h.originCheck).Post("/signup", h.Signup)
		r.Post("/age-gate", h.VerifyAge)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/preview", h.CartPreview)

			r.Post("/items", h.AddItem)
			r.Post("/items/{itemID}", h.UpdateItem)
			r.Delete("/items/{itemID}", h.RemoveItem)

			r.Post("/promotions", h.ApplyDiscount)
			r.Delete("/promotions/{code}", h.RemoveDiscount)

			r.Post("/address", h.SetAddress)
			r.Post("/shipping-methods", h.SetShippingMethod)
		})

		r.Get("/checkout", h.Checkout)

		// Каталог открывается только после подтверждения возраста.
		r.Group(func(r chi.Router) {
			r.Use(h.ageGate.Middleware)

			r.Get("/store/products", h.ListProducts)
		})

		r.Get("/customer/me", h.Customer)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
