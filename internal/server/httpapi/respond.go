package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/foodshare/foodshare/internal/common"
	"github.com/foodshare/foodshare/internal/server/listings"
	"github.com/foodshare/foodshare/internal/server/messaging"
	"github.com/foodshare/foodshare/internal/server/requests"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// respondError translates service errors into HTTP statuses. Unrecognized
// errors become an opaque 500 so internals never leak to clients.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		status = http.StatusUnauthorized
		msg = err.Error()
	case errors.Is(err, common.ErrorForbidden),
		errors.Is(err, listings.ErrNotListingOwner),
		errors.Is(err, requests.ErrNotListingOwner),
		errors.Is(err, messaging.ErrNotParticipant):
		status = http.StatusForbidden
		msg = err.Error()
	case errors.Is(err, common.ErrorNotFound):
		status = http.StatusNotFound
		msg = err.Error()
	case errors.Is(err, common.ErrorConflict),
		errors.Is(err, requests.ErrListingClaimed),
		errors.Is(err, listings.ErrNotAvailable):
		status = http.StatusConflict
		msg = err.Error()
	case errors.Is(err, common.ErrorInvalidListing),
		errors.Is(err, listings.ErrValidation),
		errors.Is(err, listings.ErrUnknownAction),
		errors.Is(err, requests.ErrOwnListing),
		errors.Is(err, requests.ErrSlotNotOffered),
		errors.Is(err, requests.ErrBadTransition),
		errors.Is(err, requests.ErrUnknownResolution),
		errors.Is(err, messaging.ErrEmptyBody),
		errors.Is(err, messaging.ErrDonorInitiated):
		status = http.StatusBadRequest
		msg = err.Error()
	}

	respondJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
