package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"guestlist/internal/delivery/http/controllers"
	"guestlist/internal/delivery/http/middleware"
	"guestlist/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	admissionController *controllers.AdmissionController,
	offerController *controllers.OfferController,
	hostVerifier domain.HostTokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Guest-facing
	mux.HandleFunc("POST /events/{eventID}/rsvps", admissionController.SubmitRSVP)
	mux.HandleFunc("POST /offers/redeem", offerController.Redeem)

	// Host-only
	requireHost := middleware.RequireHost(hostVerifier)
	mux.HandleFunc("GET /events/{eventID}/waitlist", requireHost(admissionController.ListWaitlisted))
	mux.HandleFunc("POST /events/{eventID}/rsvps/{rsvpID}/offer", requireHost(offerController.IssueOffer))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
