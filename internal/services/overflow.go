package services

import "guestlist/internal/domain"

// ResolveOverflow maps the event's configured overflow action to the guest's
// fallback dinner status when their slot is full but general capacity
// remains. Pure function of the action; unknown actions fall back to the
// dinner waitlist, the most conservative outcome.
func ResolveOverflow(action domain.OverflowAction) domain.DinnerBookingStatus {
	switch action {
	case domain.OverflowCocktails:
		return domain.DinnerCocktails
	case domain.OverflowBoth:
		return domain.DinnerCocktailsWaitlist
	default:
		return domain.DinnerWaitlist
	}
}
