// internal/handlers/activities/handler.go
package activities

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	apperrors "activity-signup/internal/common/errors"
	"activity-signup/internal/common/events"
	"activity-signup/internal/common/logger"
	"activity-signup/internal/common/metrics"
	"activity-signup/internal/common/observability"
	"activity-signup/pkg/registry"

	"github.com/go-chi/chi/v5"
)

const (
	OpList       = "list"
	OpSignup     = "signup"
	OpUnregister = "unregister"
)

type Handler struct {
	config     *Config
	registry   *registry.Registry
	dispatcher *events.Dispatcher
	obs        *observability.Observability
	errors     *apperrors.ErrorHandler
	logger     logger.Logger
}

// NewHandler wires the HTTP adapter to a registry. dispatcher and obs may
// be nil.
func NewHandler(config *Config, reg *registry.Registry, dispatcher *events.Dispatcher, obs *observability.Observability, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	if obs == nil {
		obs = &observability.Observability{}
	}

	h := &Handler{
		config:     config,
		registry:   reg,
		dispatcher: dispatcher,
		obs:        obs,
		logger:     log.WithFields(map[string]interface{}{"component": "activities"}),
	}
	h.errors = apperrors.NewErrorHandler(h.logger)

	for name, a := range reg.ListActivities() {
		metrics.Participants.WithLabelValues(name).Set(float64(len(a.Participants)))
	}

	return h
}

// Routes registers the activity endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/activities", h.List)
	r.Post("/activities/{activityName}/signup", h.SignUp)
	r.Delete("/activities/{activityName}/unregister", h.Unregister)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	writeJSON(w, http.StatusOK, ListResponse(h.registry.ListActivities()))
	h.obs.RecordRequest(r.Context(), OpList, "ok", time.Since(start))
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, OpSignup, h.registry.SignUp, events.TypeSignup)
}

func (h *Handler) Unregister(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, OpUnregister, h.registry.Unregister, events.TypeUnregister)
}

type rosterOp func(ctx context.Context, name, email string) (*registry.Receipt, error)

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, op string, fn rosterOp, evType events.Type) {
	start := time.Now()
	name := activityName(r)

	query := r.URL.Query()
	if !query.Has("email") {
		h.fail(w, r, op, start, apperrors.NewValidationError("email query parameter is required"))
		return
	}
	email := query.Get("email")

	receipt, err := fn(r.Context(), name, email)
	if err != nil {
		h.fail(w, r, op, start, toStandardError(err, name, email))
		return
	}

	switch op {
	case OpSignup:
		metrics.SignupsTotal.WithLabelValues(receipt.Activity).Inc()
	case OpUnregister:
		metrics.UnregistrationsTotal.WithLabelValues(receipt.Activity).Inc()
	}
	metrics.Participants.WithLabelValues(receipt.Activity).Set(float64(receipt.Participants))

	h.logger.Info("roster updated", map[string]interface{}{
		"operation":    op,
		"activity":     receipt.Activity,
		"email":        receipt.Email,
		"participants": receipt.Participants,
	})

	writeJSON(w, http.StatusOK, MessageResponse{Message: receipt.Message})
	h.obs.RecordRequest(r.Context(), op, "ok", time.Since(start))

	h.dispatcher.DispatchAsync(r.Context(), events.New(evType, receipt.Activity, receipt.Email, receipt.Participants))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, start time.Time, err error) {
	stdErr := h.errors.HandleHTTPError(w, r, err)
	metrics.OperationFailures.WithLabelValues(op, string(stdErr.Code)).Inc()
	h.obs.RecordRequest(r.Context(), op, string(stdErr.Code), time.Since(start))
}

// activityName returns the decoded {activityName} path segment.
func activityName(r *http.Request) string {
	name := chi.URLParam(r, "activityName")
	// chi matches on RawPath when the path holds escapes that Path cannot
	// represent (such as %2F), leaving the segment encoded.
	if r.URL.RawPath != "" {
		if decoded, err := url.PathUnescape(name); err == nil {
			return decoded
		}
	}
	return name
}

func toStandardError(err error, name, email string) error {
	switch {
	case errors.Is(err, registry.ErrActivityNotFound):
		return apperrors.NewActivityNotFoundError(name)
	case errors.Is(err, registry.ErrActivityFull):
		return apperrors.NewCapacityExceededError(name)
	case errors.Is(err, registry.ErrParticipantNotFound):
		return apperrors.NewParticipantNotFoundError(name, email)
	case errors.Is(err, registry.ErrAlreadySignedUp):
		return apperrors.NewDuplicateSignupError(name, email)
	default:
		return err
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
