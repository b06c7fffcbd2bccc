package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pulseroom/pulseroom/internal/catalog"
	"github.com/pulseroom/pulseroom/internal/combo"
	"github.com/pulseroom/pulseroom/internal/database"
	"github.com/pulseroom/pulseroom/internal/gift"
	"github.com/pulseroom/pulseroom/internal/handler"
	"github.com/pulseroom/pulseroom/internal/ledger"
	"github.com/pulseroom/pulseroom/internal/logger"
	"github.com/pulseroom/pulseroom/internal/metrics"
	"github.com/pulseroom/pulseroom/internal/slots"
	"github.com/pulseroom/pulseroom/internal/wheel"
)

type Server struct {
	httpServer     *http.Server
	dbPool         database.Pool
	ledgerService  *ledger.Service
	giftService    gift.Service
	catalogService catalog.Service
	comboTracker   *combo.Tracker
	wheelService   wheel.Service
	slotsService   slots.Service
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, dbPool database.Pool, ledgerService *ledger.Service, giftService gift.Service, catalogService catalog.Service, comboTracker *combo.Tracker, wheelService wheel.Service, slotsService slots.Service) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Wallet routes
		r.Get("/wallet", handler.HandleGetWallet(ledgerService))

		// Gift routes
		giftHandler := handler.NewGiftHandler(giftService, catalogService, comboTracker)
		r.Get("/gifts", giftHandler.HandleListGifts)
		r.Route("/gift", func(r chi.Router) {
			r.Post("/send", giftHandler.HandleSendGift)
			r.Get("/events", giftHandler.HandleRecentEvents)
			r.Route("/combo", func(r chi.Router) {
				r.Post("/hit", giftHandler.HandleComboHit)
				r.Get("/state", giftHandler.HandleGetCombo)
			})
		})

		// Room routes
		r.Route("/room", func(r chi.Router) {
			r.Get("/leaderboard", giftHandler.HandleLeaderboard)
			r.Post("/reset", giftHandler.HandleResetRoom)
		})

		// Wheel routes
		wheelHandler := handler.NewWheelHandler(wheelService)
		r.Route("/wheel", func(r chi.Router) {
			r.Post("/open", wheelHandler.HandleOpen)
			r.Post("/bet", wheelHandler.HandlePlaceBet)
			r.Get("/state", wheelHandler.HandleState)
			r.Post("/close", wheelHandler.HandleClose)
		})

		// Slots routes
		slotsHandler := handler.NewSlotsHandler(slotsService)
		r.Post("/slots/pull", slotsHandler.HandlePull)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool:         dbPool,
		ledgerService:  ledgerService,
		giftService:    giftService,
		catalogService: catalogService,
		comboTracker:   comboTracker,
		wheelService:   wheelService,
		slotsService:   slotsService,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // default status
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Skip logging for health check endpoints and metrics
		// Use HasPrefix to catch potential variations (e.g. /healthz/)
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		// Generate unique request ID
		requestID := logger.GenerateRequestID()

		// Add request ID to context
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		// Get scoped logger
		log := logger.FromContext(ctx)

		// Log request start with details
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		// Wrap response writer to capture status code
		rw := newResponseWriter(w)

		// Process request
		next.ServeHTTP(rw, r)

		// Log request completion with metrics
		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
