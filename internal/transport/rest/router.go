package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/orderhub/order-management/internal/auth"
	"github.com/orderhub/order-management/internal/order"
	"github.com/orderhub/order-management/internal/payment"
	"github.com/orderhub/order-management/internal/transport/middleware"
	"github.com/orderhub/order-management/internal/transport/swagger"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, orderHandler *order.Handler, paymentHandler *payment.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			if authHandler != nil {
				pr.Use(authHandler.AuthMiddleware)
			}

			if orderHandler != nil {
				pr.Route("/orders", func(or chi.Router) {
					or.Post("/", orderHandler.CreateOrder)
					or.Get("/", orderHandler.ListOrders)
					or.Get("/{orderID}", orderHandler.GetOrder)
					or.Post("/{orderID}/accept-quote", orderHandler.AcceptQuote)
					or.Post("/{orderID}/cancel", orderHandler.CancelOrder)
					or.Get("/{orderID}/history", orderHandler.OrderHistory)

					if paymentHandler != nil {
						or.Post("/{orderID}/payment-sessions", paymentHandler.CreateSession)
						or.Get("/{orderID}/payments", paymentHandler.ListOrderPayments)
					}
				})
			}

			if paymentHandler != nil {
				pr.Route("/payment-sessions", func(sr chi.Router) {
					sr.Get("/{sessionID}", paymentHandler.GetSession)
					sr.Post("/{sessionID}/refresh", paymentHandler.RefreshSession)
					sr.Post("/{sessionID}/cancel", paymentHandler.CancelSession)
				})
			}
		})
	})
}
