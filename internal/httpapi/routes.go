// Package httpapi exposes the classifier and the prioritized alert lists over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Edisonlex/lubri/internal/alerts"
	"github.com/Edisonlex/lubri/internal/catalog"
	"github.com/Edisonlex/lubri/internal/common"
	"github.com/Edisonlex/lubri/internal/ecuador"
	"github.com/Edisonlex/lubri/internal/metrics"
	"github.com/Edisonlex/lubri/internal/model"
	"github.com/Edisonlex/lubri/internal/service"
	"github.com/Edisonlex/lubri/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBatch bounds POST /api/classify/batch.
const maxBatch = 500

var validate = ecuador.NewValidator()

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	catalog     *catalog.Service
	alerts      service.AlertStore
	prioritizer alerts.Prioritizer
	defaultRole model.Role
	logger      *slog.Logger
}

// NewServer creates the handler set. An unknown defaultRole means admin.
func NewServer(cat *catalog.Service, store service.AlertStore, p alerts.Prioritizer, defaultRole model.Role, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if !defaultRole.Known() {
		defaultRole = model.RoleAdmin
	}
	return &Server{
		catalog:     cat,
		alerts:      store,
		prioritizer: p,
		defaultRole: defaultRole,
		logger:      logger,
	}
}

// RegisterRoutes wires every route onto r.
func (s *Server) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Registered on r itself: inside a PathPrefix subrouter mux answers a
	// wrong method with 404 instead of 405.
	r.HandleFunc("/api/classify", s.classifyHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/classify/batch", s.classifyBatchHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/alerts", s.listAlertsHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/alerts", s.createAlertHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/alerts/summary", s.summaryHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/alerts/{id}/ack", s.ackHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/stock", s.stockHandler).Methods(http.MethodPost)
}

// Handler returns a router with every route registered.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	s.RegisterRoutes(r)
	return r
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"status": "ok"}
	if p, ok := s.alerts.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded", "database": err.Error()})
			return
		}
	}
	status["rules"] = s.catalog.Classifier().RuleCount()
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) classifyHandler(w http.ResponseWriter, r *http.Request) {
	var desc model.ProductDescriptor
	if err := decodeJSON(w, r, &desc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	writeJSON(w, http.StatusOK, s.catalog.Classify(r.Context(), desc))
}

func (s *Server) classifyBatchHandler(w http.ResponseWriter, r *http.Request) {
	var descs []model.ProductDescriptor
	if err := decodeJSON(w, r, &descs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(descs) > maxBatch {
		writeError(w, http.StatusRequestEntityTooLarge, "too many products in one request")
		return
	}

	results := make([]model.ClassificationResult, 0, len(descs))
	for _, d := range descs {
		results = append(results, s.catalog.Classify(r.Context(), d))
	}
	writeJSON(w, http.StatusOK, results)
}

// alertsResponse is the body of GET /api/alerts.
type alertsResponse struct {
	Role    model.Role         `json:"role"`
	Alerts  []model.StockAlert `json:"alerts"`
	Summary alerts.Summary     `json:"summary"`
}

func (s *Server) listAlertsHandler(w http.ResponseWriter, r *http.Request) {
	role := s.resolveRole(r)

	active, err := s.alerts.ActiveAlerts(r.Context())
	if err != nil {
		s.internalError(w, err, "failed to load alerts")
		return
	}

	list := s.prioritizer.Prioritize(active, role)
	metrics.ObservePrioritized(string(role), len(list))

	writeJSON(w, http.StatusOK, alertsResponse{
		Role:    role,
		Alerts:  list,
		Summary: alerts.Summarize(active),
	})
}

func (s *Server) summaryHandler(w http.ResponseWriter, r *http.Request) {
	active, err := s.alerts.ActiveAlerts(r.Context())
	if err != nil {
		s.internalError(w, err, "failed to load alerts")
		return
	}

	summary := alerts.Summarize(active)
	counts := make(map[string]int, len(summary.ByUrgency))
	for u, n := range summary.ByUrgency {
		counts[string(u)] = n
	}
	metrics.SetActiveAlerts(counts)

	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) createAlertHandler(w http.ResponseWriter, r *http.Request) {
	var alert model.StockAlert
	if err := decodeJSON(w, r, &alert); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(alert.ID) == "" {
		alert.ID = uuid.NewString()
	}

	if err := validate.Struct(alert); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed: "+validationMessage(err))
		return
	}

	if err := s.alerts.UpsertAlert(r.Context(), &alert); err != nil {
		if errors.Is(err, common.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.internalError(w, err, "failed to store alert")
		return
	}

	writeJSON(w, http.StatusCreated, alert)
}

type ackRequest struct {
	By string `json:"by"`
}

func (s *Server) ackHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req ackRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	err := s.alerts.AcknowledgeAlert(r.Context(), id, req.By)
	switch {
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "alert not found")
	case errors.Is(err, storage.ErrAlreadyResolved):
		writeError(w, http.StatusConflict, "alert already resolved")
	case err != nil:
		s.internalError(w, err, "failed to acknowledge alert")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

type stockRequest struct {
	SKU   string `json:"sku" validate:"required"`
	Stock int    `json:"stock" validate:"gte=0"`
}

func (s *Server) stockHandler(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed: "+validationMessage(err))
		return
	}

	resolved, err := s.alerts.RecordStock(r.Context(), req.SKU, req.Stock)
	if errors.Is(err, common.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no active alerts for sku")
		return
	}
	if err != nil {
		s.internalError(w, err, "failed to record stock")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"resolved": resolved})
}

// resolveRole reads ?role=. An empty value means the configured default; an
// unrecognised one is logged and treated as admin.
func (s *Server) resolveRole(r *http.Request) model.Role {
	raw := r.URL.Query().Get("role")
	if strings.TrimSpace(raw) == "" {
		return s.defaultRole
	}
	role, ok := model.ParseRole(raw)
	if !ok {
		common.LogUnknownRole(s.logger, raw, "http")
		metrics.UnknownRoles.Inc()
	}
	return role
}

func (s *Server) internalError(w http.ResponseWriter, err error, msg string) {
	s.logger.Error(msg, "error", err)
	writeError(w, http.StatusInternalServerError, msg)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<20))
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
	}
	return strings.Join(fields, ", ")
}
