// Package web exposes the HTTP surface: the web JSON chat endpoint and the
// Twilio WhatsApp webhook.
package web

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"smartiedev/logger"
	"smartiedev/modelapi/twilioapi"
	"smartiedev/router"
)

type ServerConnectProps struct {
	Logger *logger.LogMiddleware
	Router *router.Router
	Twilio *twilioapi.Twilio
}

type Server struct {
	logger *logger.LogMiddleware
	router *router.Router
	twilio *twilioapi.Twilio
}

func Connect(args ServerConnectProps) *Server {
	return &Server{logger: args.Logger, router: args.Router, twilio: args.Twilio}
}

// Handler builds the chi mux wrapped with otelhttp instrumentation.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLoggerMiddleware())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Post("/smartie", s.handleSmartie)
	r.Post("/wa/webhook", s.handleWhatsAppWebhook)

	return otelhttp.NewHandler(r, "smartie-web")
}

type smartieRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type smartieResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleSmartie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req smartieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, smartieResponse{Reply: "I couldn't read that message. Please send JSON with a \"message\" field."})
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = deriveUserID(r)
	}

	reply, err := s.router.Handle(ctx, userID, req.Message)
	if err != nil {
		s.logger.Logger(ctx).Error("[Web] Routing failed", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, smartieResponse{Reply: "Oops — something went wrong. Try again in a moment."})
		return
	}

	s.writeJSON(w, http.StatusOK, smartieResponse{Reply: reply})
}

// handleWhatsAppWebhook receives Twilio's form-encoded inbound message,
// routes it, and sends the reply back over WhatsApp. Twilio only needs a
// quick 2xx; delivery of the reply is fire-and-forget.
func (s *Server) handleWhatsAppWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form payload", http.StatusBadRequest)
		return
	}

	fromNum := strings.TrimSpace(strings.TrimPrefix(r.FormValue("From"), "whatsapp:"))
	body := strings.TrimSpace(r.FormValue("Body"))
	if fromNum == "" {
		http.Error(w, "missing From", http.StatusBadRequest)
		return
	}

	userID := "wa:" + fromNum
	reply, err := s.router.Handle(ctx, userID, body)
	if err != nil {
		s.logger.Logger(ctx).Error("[Web] Routing failed", zap.Error(err))
		reply = "Oops — something went wrong. Try again in a moment."
	}

	if err := s.twilio.SendWhatsApp(ctx, fromNum, reply); err != nil {
		// Log but still return 204 so Twilio doesn't retry forever.
		s.logger.Logger(ctx).Error("[Web] Could not deliver WhatsApp reply", zap.Error(err))
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func (s *Server) requestLoggerMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			s.logger.Logger(ctx).Info("Request Received", zap.String("url", r.URL.Path), zap.String("method", r.Method))
			next.ServeHTTP(w, r)
			s.logger.Logger(ctx).Info("Request Completed", zap.String("path", r.URL.Path), zap.String("method", r.Method))
		})
	}
}

// deriveUserID gives anonymous web clients a stable id from their address
// and user agent.
func deriveUserID(r *http.Request) string {
	raw := r.RemoteAddr + "|" + r.Header.Get("User-Agent")
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])[:16]
}
