package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"shareit/internal/config"
	"shareit/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	requestIDHeader = "X-Request-Id"
	maxBodyBytes    = 1 << 20
)

// Gateway validates client requests and forwards the valid ones to the server.
type Gateway struct {
	client *ServerClient
	logger *zerolog.Logger
	clock  func() time.Time
	server *http.Server
}

func New(cfg config.GatewayConfig, logger *zerolog.Logger) *Gateway {
	client := NewServerClient(cfg.ServerURL, cfg.Timeout, NewRetryPolicy(cfg.Retry), logger)
	return NewWithClient(cfg.Port, client, logger)
}

func NewWithClient(port int, client *ServerClient, logger *zerolog.Logger) *Gateway {
	g := &Gateway{
		client: client,
		logger: logger,
		clock:  time.Now,
	}
	g.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           g.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return g
}

func (g *Gateway) Handler() http.Handler {
	return g.server.Handler
}

func (g *Gateway) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(g.requestMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := g.client.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "server unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", g.forward(validateUser(true)))
		r.Get("/", g.forward())
		r.Get("/{userId}", g.forward(requirePathID("userId")))
		r.Patch("/{userId}", g.forward(requirePathID("userId"), validateUser(false)))
		r.Delete("/{userId}", g.forward(requirePathID("userId")))
	})

	r.Route("/items", func(r chi.Router) {
		r.Post("/", g.forward(requireActor, validateItem))
		r.Get("/", g.forward(requireActor, validatePage))
		r.Get("/search", g.forward(requireActor, validatePage))
		r.Get("/{itemId}", g.forward(requireActor, requirePathID("itemId")))
		r.Patch("/{itemId}", g.forward(requireActor, requirePathID("itemId")))
		r.Post("/{itemId}/comment", g.forward(requireActor, requirePathID("itemId"), validateComment))
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", g.forward(requireActor, g.validateBooking))
		r.Get("/", g.forward(requireActor, validateState, validatePage))
		r.Get("/owner", g.forward(requireActor, validateState, validatePage))
		r.Get("/{bookingId}", g.forward(requireActor, requirePathID("bookingId")))
		r.Patch("/{bookingId}", g.forward(requireActor, requirePathID("bookingId"), validateApproved))
		r.Patch("/{bookingId}/cancel", g.forward(requireActor, requirePathID("bookingId")))
	})

	r.Route("/requests", func(r chi.Router) {
		r.Post("/", g.forward(requireActor, validateRequest))
		r.Get("/", g.forward(requireActor))
		r.Get("/all", g.forward(requireActor, validatePage))
		r.Get("/{requestId}", g.forward(requireActor, requirePathID("requestId")))
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

// forward runs the checks in order and proxies the request when all of them pass.
func (g *Gateway) forward(checks ...check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "request body is too large")
			return
		}

		in := &incoming{r: r, body: body}
		for _, c := range checks {
			if err := c(in); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}

		resp, err := g.client.Forward(r.Context(), r.Method, r.URL.RequestURI(), r.Header, body)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			g.logger.Error().Err(err).Str("path", r.URL.Path).Msg("server call failed")
			writeError(w, http.StatusBadGateway, "server unavailable")
			return
		}

		if ct := resp.Header.Get("Content-Type"); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.WriteHeader(resp.Status)
		_, _ = w.Write(resp.Body)
	}
}

func (g *Gateway) Start() error {
	g.logger.Info().Str("addr", g.server.Addr).Msg("gateway listening")
	if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (g *Gateway) Shutdown(ctx context.Context) error {
	return g.server.Shutdown(ctx)
}

func (g *Gateway) requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		dur := time.Since(start)

		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		metrics.ObserveHTTP(route, recorder.status, dur)

		g.logger.Info().
			Str("request_id", id).
			Str("method", r.Method).
			Str("route", route).
			Int("status", recorder.status).
			Dur("duration", dur).
			Msg("gateway request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
