package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"roombook/internal/bookings/service"
	"roombook/pkg/auth"
	apperrors "roombook/pkg/errors"
	httputil "roombook/pkg/http"
	"roombook/pkg/logger"
	"roombook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const basePath = "/api/v1/bookings"

type BookingHandler struct {
	service service.BookingService
	authz   auth.Authorizer
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, authz auth.Authorizer, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		authz:   authz,
		log:     log,
	}
}

type createBookingRequest struct {
	RoomID      string `json:"roomId"`
	Description string `json:"description"`
	Start       *int64 `json:"start"`
	End         *int64 `json:"end"`
}

type updateStatusRequest struct {
	Approved *model.Status `json:"approved"`
}

// ListMine returns the caller's own booking requests, in every state.
func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, ok := h.authorize(w, auth.ActionRead, r)
	if !ok {
		return
	}

	bookings, err := h.service.ListMine(r.Context(), identity.UserID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListMine", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, nonNil(bookings)); err != nil {
		h.log.Error("failed to write JSON response", "handler", "ListMine", "operation", "WriteJSON", "error", err)
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, ok := h.authorize(w, auth.ActionCreate, r)
	if !ok {
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.Validation("Invalid request body", nil)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	if req.Start == nil || req.End == nil {
		if writeErr := httputil.WriteError(w, apperrors.Validation("start and end are required", nil)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	booking := &model.Booking{
		RoomID:      req.RoomID,
		Description: req.Description,
		CreatedBy:   identity.UserID,
		Start:       *req.Start,
		End:         *req.End,
	}

	if err := h.service.Create(r.Context(), booking); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, booking); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", err)
	}
}

// ListByStatus serves GET /all/:status for administrators.
func (h *BookingHandler) ListByStatus(w http.ResponseWriter, r *http.Request, statusArg string) {
	if _, ok := h.authorize(w, auth.ActionReadAll, r); !ok {
		return
	}

	code, err := strconv.Atoi(statusArg)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.Validation("invalid state", map[string]any{"status": statusArg})); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	status, err := model.ParseStatus(code)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.Validation("invalid state", map[string]any{"status": code})); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	bookings, err := h.service.ListByStatus(r.Context(), status)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListByStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, nonNil(bookings)); err != nil {
		h.log.Error("failed to write JSON response", "handler", "ListByStatus", "operation", "WriteJSON", "error", err)
	}
}

// Conflicts serves GET /manage/:id: the ids of every booking, in any state,
// overlapping the target. An administrator consults it before approving.
func (h *BookingHandler) Conflicts(w http.ResponseWriter, r *http.Request, id string) {
	if _, ok := h.authorize(w, auth.ActionReadAll, r); !ok {
		return
	}

	ids, err := h.service.ConflictsFor(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Conflicts", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, ids); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Conflicts", "operation", "WriteJSON", "error", err)
	}
}

// ApprovedOverlaps serves GET /:roomId/:window where window is
// "<start>-<end>" in epoch milliseconds: the ids of approved bookings
// intersecting the half-open interval.
func (h *BookingHandler) ApprovedOverlaps(w http.ResponseWriter, r *http.Request, roomID, window string) {
	if _, ok := h.authorize(w, auth.ActionRead, r); !ok {
		return
	}

	start, end, err := parseWindow(window)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.Validation("invalid time window", map[string]any{"window": window})); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ApprovedOverlaps", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	ids, err := h.service.ApprovedOverlaps(r.Context(), roomID, start, end)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ApprovedOverlaps", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, ids); err != nil {
		h.log.Error("failed to write JSON response", "handler", "ApprovedOverlaps", "operation", "WriteJSON", "error", err)
	}
}

// UpdateStatus serves PATCH /manage/:id. Approving answers the array of
// demoted booking ids; the other transitions answer a bare 200.
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if _, ok := h.authorize(w, auth.ActionUpdate, r); !ok {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Covers out-of-range and non-integer approval values.
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid approval value")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}
	if req.Approved == nil {
		if writeErr := httputil.WriteError(w, apperrors.Validation("approved is required", nil)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	demoted, err := h.service.SetStatus(r.Context(), ps.ByName("id"), *req.Approved)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStatus", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if *req.Approved == model.StatusApproved {
		if err := httputil.WriteJSON(w, http.StatusOK, demoted); err != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateStatus", "operation", "WriteJSON", "error", err)
		}
		return
	}
	httputil.WriteStatus(w, http.StatusOK)
}

// dispatchGet fans out the two-segment GET routes. httprouter cannot mix the
// static "all"/"manage" prefixes with the ":roomId" wildcard at the same
// position, so they share one route and split on the first segment.
func (h *BookingHandler) dispatchGet(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	scope := ps.ByName("scope")
	arg := ps.ByName("arg")

	switch scope {
	case "all":
		h.ListByStatus(w, r, arg)
	case "manage":
		h.Conflicts(w, r, arg)
	default:
		h.ApprovedOverlaps(w, r, scope, arg)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET(basePath, h.ListMine)
	router.POST(basePath, h.Create)
	router.GET(basePath+"/:scope/:arg", h.dispatchGet)
	router.PATCH(basePath+"/manage/:id", h.UpdateStatus)
}

// authorize resolves the caller's identity and consults the permission
// matrix before any data access. A missing identity and a denied action
// answer the same 401.
func (h *BookingHandler) authorize(w http.ResponseWriter, action auth.Action, r *http.Request) (auth.Identity, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok || !h.authz.IsPermitted(identity.Role, auth.CategoryBookingRequests, action) {
		if writeErr := httputil.WriteError(w, apperrors.Unauthorized("Unauthorized")); writeErr != nil {
			h.log.Error("failed to write error response", "operation", "WriteError", "error", writeErr)
		}
		return auth.Identity{}, false
	}
	return identity, true
}

func parseWindow(window string) (int64, int64, error) {
	startStr, endStr, found := strings.Cut(window, "-")
	if !found {
		return 0, 0, apperrors.InvalidInput("window must be <start>-<end>")
	}

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	end, err := strconv.ParseInt(endStr, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	if start > end {
		return 0, 0, apperrors.InvalidInput("start must not exceed end")
	}
	return start, end, nil
}

func nonNil(bookings []*model.Booking) []*model.Booking {
	if bookings == nil {
		return []*model.Booking{}
	}
	return bookings
}
