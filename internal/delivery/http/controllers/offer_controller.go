package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"guestlist/internal/delivery/http/helpers"
	"guestlist/internal/domain"
)

// IssueOfferResponse is the success payload for POST /events/{eventID}/rsvps/{rsvpID}/offer.
type IssueOfferResponse struct {
	Token string                `json:"token"`
	Offer *domain.WaitlistOffer `json:"offer"`
}

// RedeemOfferRequest is the request body for POST /offers/redeem.
type RedeemOfferRequest struct {
	Token            string `json:"token"`
	PaymentReference string `json:"payment_reference"`
}

// Validate implements Validator.
func (r RedeemOfferRequest) Validate() []string {
	var errs []string
	if r.Token == "" {
		errs = append(errs, "token is required")
	}
	if r.PaymentReference == "" {
		errs = append(errs, "payment_reference is required")
	}
	return errs
}

type OfferController struct {
	Logger  *slog.Logger
	Service domain.OfferService
}

func NewOfferController(logger *slog.Logger, svc domain.OfferService) *OfferController {
	return &OfferController{
		Logger:  logger,
		Service: svc,
	}
}

// IssueOffer godoc
// @Summary Issue a waitlist offer
// @Description Sign a 48h single-use offer for a waitlisted RSVP, record it, and email the guest a redemption link. Host only.
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param rsvpID path string true "RSVP ID"
// @Success 201 {object} helpers.APIResponse "data contains token and offer"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvps/{rsvpID}/offer [post]
func (c *OfferController) IssueOffer(w http.ResponseWriter, r *http.Request) {
	token, offer, err := c.Service.IssueOffer(r.Context(), r.PathValue("rsvpID"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "rsvp not found")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		}
		return
	}
	if offer.EventID != r.PathValue("eventID") {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "rsvp not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, IssueOfferResponse{Token: token, Offer: offer})
}

// Redeem godoc
// @Summary Redeem a waitlist offer
// @Description Verify the offer token, claim the reserved spot if capacity still allows, confirm payment, and confirm the RSVP. Each offer can be redeemed at most once.
// @Tags offers
// @Accept json
// @Produce json
// @Param redemption body RedeemOfferRequest true "Offer token and payment reference"
// @Success 200 {object} helpers.APIResponse "data contains the confirmed rsvp, offer, and payment"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 402 {object} helpers.APIResponse "error.code: payment_failed"
// @Failure 409 {object} helpers.APIResponse "error.code: offer_already_redeemed or capacity_exceeded"
// @Failure 410 {object} helpers.APIResponse "error.code: offer_invalid"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /offers/redeem [post]
func (c *OfferController) Redeem(w http.ResponseWriter, r *http.Request) {
	var req RedeemOfferRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.RedeemOffer(r.Context(), req.Token, req.PaymentReference)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOfferExpired), errors.Is(err, domain.ErrInvalidOffer):
			helpers.WriteJSONError(w, http.StatusGone, helpers.ErrCodeOfferInvalid, "this offer is no longer valid")
		case errors.Is(err, domain.ErrOfferAlreadyRedeemed):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeOfferRedeemed, "this offer has already been redeemed")
		case errors.Is(err, domain.ErrCapacityExceeded):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeCapacityExceeded, "someone else claimed this spot")
		case errors.Is(err, domain.ErrPaymentFailed):
			helpers.WriteJSONError(w, http.StatusPaymentRequired, helpers.ErrCodePaymentFailed, "payment could not be confirmed")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
