package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Beka01247/brewline/docs"
	"github.com/Beka01247/brewline/internal/auth"
	"github.com/Beka01247/brewline/internal/cart"
	"github.com/Beka01247/brewline/internal/notify"
	"github.com/Beka01247/brewline/internal/queue"
	"github.com/Beka01247/brewline/internal/ratelimiter"
	"github.com/Beka01247/brewline/internal/repo"
	"github.com/Beka01247/brewline/internal/service"
	"github.com/Beka01247/brewline/internal/store/mongo"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type backgroundWorker interface {
	Start() error
	Stop()
}

type application struct {
	config      config
	logger      *zap.SugaredLogger
	rateLimiter ratelimiter.Limiter
	storage     *mongo.Storage
	broker      queue.Broker
	dispatcher  notify.Dispatcher
	tokens      *auth.TokenIssuer
	carts       *cart.Manager
	media       MediaUploader

	addressRepo       repo.AddressRepository
	paymentMethodRepo repo.PaymentMethodRepository

	menuService       *service.MenuService
	menuImportService *service.MenuImportService
	cartService       *service.CartService
	orderService      *service.OrderService
	statusService     *service.OrderStatusService
	trackingService   *service.TrackingService
	loyaltyService    *service.LoyaltyService
	authService       *service.AuthService
	pushService       *service.PushService

	workers []backgroundWorker
}

type config struct {
	addr        string
	env         string
	apiURL      string
	rateLimiter ratelimiter.Config
	mongo       mongoConfig
	rabbitMQ    rabbitMQConfig
	googleCreds string
	auth        authConfig
	shop        shopConfig
	geocode     geocodeConfig
	kafka       kafkaConfig
	media       mediaConfig
	carts       cart.Config
	menuTTL     time.Duration
}

type mongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type rabbitMQConfig struct {
	URL           string
	MaxRetries    int
	RetryDelay    time.Duration
	PrefetchCount int
}

type authConfig struct {
	secret string
	ttl    time.Duration
	issuer string
}

type shopConfig struct {
	address     string
	lat         float64
	lon         float64
	deliveryFee float64
	timezone    string
	zone        *time.Location
}

type geocodeConfig struct {
	baseURL   string
	userAgent string
}

type kafkaConfig struct {
	enabled bool
	brokers []string
	topic   string
}

type mediaConfig struct {
	region    string
	bucket    string
	publicURL string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)

		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.Get("/pickup-slots", app.pickupSlotsHandler)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", app.registerUserHandler)
			r.Post("/login", app.loginHandler)

			r.With(app.AuthTokenMiddleware).Post("/logout", app.logoutHandler)
			r.With(app.AuthTokenMiddleware).Get("/session", app.sessionHandler)
		})

		r.Route("/menu", func(r chi.Router) {
			r.Get("/", app.listMenuHandler)
			r.Get("/{item_id}", app.getMenuItemHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.Use(app.requireRole(auth.RoleManager))

				r.Post("/", app.createMenuItemHandler)
				r.Patch("/{item_id}", app.updateMenuItemHandler)
				r.Delete("/{item_id}", app.deleteMenuItemHandler)

				r.Post("/import", app.createMenuImportHandler)
				r.Get("/import/{task_id}", app.getMenuImportHandler)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", app.getCartHandler)
				r.Delete("/", app.clearCartHandler)
				r.Post("/items", app.addCartItemHandler)
				r.Patch("/items/{cart_item_id}", app.updateCartItemHandler)
				r.Delete("/items/{cart_item_id}", app.removeCartItemHandler)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", app.placeOrderHandler)
				r.Get("/", app.listOrdersHandler)
				r.Get("/stream", app.streamMyOrdersHandler)

				r.Route("/{order_id}", func(r chi.Router) {
					r.Get("/", app.getOrderHandler)
					r.Get("/history", app.getOrderHistoryHandler)
					r.Get("/stream", app.streamOrderHandler)

					r.Group(func(r chi.Router) {
						r.Use(app.requireRole(auth.RoleWaiter))

						r.Patch("/status", app.updateOrderStatusHandler)
						r.Patch("/delivery-person", app.assignDeliveryPersonHandler)
					})
				})
			})

			r.Route("/tracking/{order_id}", func(r chi.Router) {
				r.Get("/", app.getTrackingHandler)
				r.With(app.requireRole(auth.RoleWaiter)).Put("/location", app.updateDriverLocationHandler)
			})

			r.Get("/loyalty", app.getLoyaltyHandler)

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", app.listAddressesHandler)
				r.Post("/", app.createAddressHandler)
				r.Delete("/{address_id}", app.deleteAddressHandler)
			})

			r.Route("/payment-methods", func(r chi.Router) {
				r.Get("/", app.listPaymentMethodsHandler)
				r.Post("/", app.createPaymentMethodHandler)
				r.Delete("/{method_id}", app.deletePaymentMethodHandler)
			})

			r.Post("/push/register", app.registerPushHandler)

			r.With(app.requireRole(auth.RoleManager)).Post("/media", app.uploadMediaHandler)
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	// docs
	docs.SwaggerInfo.Title = "Brewline"
	docs.SwaggerInfo.Description = "Coffee shop ordering API"
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/api/v1"

	for _, w := range app.workers {
		if err := w.Start(); err != nil {
			return fmt.Errorf("failed to start worker: %w", err)
		}
	}

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		err := srv.Shutdown(ctx)

		for _, w := range app.workers {
			w.Stop()
		}

		// carts are flushed before the store goes away
		if app.carts != nil {
			app.carts.Shutdown(ctx)
			app.logger.Info("cart sessions flushed")
		}

		if app.dispatcher != nil {
			if err := app.dispatcher.Close(); err != nil {
				app.logger.Errorw("error closing notification dispatcher", "error", err)
			}
		}

		if app.broker != nil {
			if err := app.broker.Close(); err != nil {
				app.logger.Errorw("error closing RabbitMQ", "error", err)
			} else {
				app.logger.Info("RabbitMQ connection closed gracefully")
			}
		}

		if app.storage != nil {
			if err := app.storage.Close(ctx); err != nil {
				app.logger.Errorw("error closing MongoDB", "error", err)
			} else {
				app.logger.Info("MongoDB connection closed gracefully")
			}
		}

		shutdown <- err
	}()

	app.logger.Infow("server have started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
