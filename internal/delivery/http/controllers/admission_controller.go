package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"guestlist/internal/delivery/http/helpers"
	"guestlist/internal/domain"
)

// SubmitRSVPRequest is the request body for POST /events/{eventID}/rsvps.
type SubmitRSVPRequest struct {
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	PlusOnes        int        `json:"plus_ones"`
	WantsDinner     bool       `json:"wants_dinner"`
	DinnerTimeSlot  *time.Time `json:"dinner_time_slot"`
	DinnerPartySize *int       `json:"dinner_party_size"`
}

// Validate implements Validator. Returns error messages for required and format rules.
func (r SubmitRSVPRequest) Validate() []string {
	var errs []string
	if r.Name == "" {
		errs = append(errs, "name is required")
	}
	if r.Email == "" {
		errs = append(errs, "email is required")
	}
	if r.PlusOnes < 0 {
		errs = append(errs, "plus_ones cannot be negative")
	}
	if r.WantsDinner && r.DinnerTimeSlot == nil {
		errs = append(errs, "dinner_time_slot is required when wants_dinner is true")
	}
	return errs
}

// SubmitRSVPSuccessResponse is the success response envelope for POST /events/{eventID}/rsvps (201).
type SubmitRSVPSuccessResponse struct {
	Data  *domain.AdmissionResult `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// WaitlistResponse is the response body for GET /events/{eventID}/waitlist.
type WaitlistResponse struct {
	RSVPs      []*domain.RSVP         `json:"rsvps"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

type AdmissionController struct {
	Logger  *slog.Logger
	Service domain.AdmissionService
}

func NewAdmissionController(logger *slog.Logger, svc domain.AdmissionService) *AdmissionController {
	return &AdmissionController{
		Logger:  logger,
		Service: svc,
	}
}

// SubmitRSVP godoc
// @Summary Submit an RSVP
// @Description Decide admission for an RSVP against the event's cocktail capacity and dinner seating. The guest is confirmed or waitlisted; a full event without a waitlist rejects the request.
// @Tags rsvps
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param rsvp body SubmitRSVPRequest true "RSVP details"
// @Success 201 {object} controllers.SubmitRSVPSuccessResponse "data contains the decided RSVP"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: capacity_exceeded"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvps [post]
func (c *AdmissionController) SubmitRSVP(w http.ResponseWriter, r *http.Request) {
	var req SubmitRSVPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.Decide(r.Context(), domain.AdmissionRequest{
		EventID:         r.PathValue("eventID"),
		Name:            req.Name,
		Email:           req.Email,
		PlusOnes:        req.PlusOnes,
		WantsDinner:     req.WantsDinner,
		DinnerTimeSlot:  req.DinnerTimeSlot,
		DinnerPartySize: req.DinnerPartySize,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidSlot):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		case errors.Is(err, domain.ErrCapacityExceeded):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeCapacityExceeded, "the event is fully booked")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}

// ListWaitlisted godoc
// @Summary List waitlisted RSVPs
// @Description List RSVPs with a pending portion for the event, oldest first. Host only.
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains rsvps and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/waitlist [get]
func (c *AdmissionController) ListWaitlisted(w http.ResponseWriter, r *http.Request) {
	p := helpers.ParsePagination(r)
	rsvps, total, err := c.Service.ListWaitlisted(r.Context(), r.PathValue("eventID"), p)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, WaitlistResponse{
		RSVPs:      rsvps,
		Pagination: helpers.NewPaginationMeta(p.Page, p.PageSize, total),
	})
}
