// internal/server/handlers.go
package server

import (
	"encoding/json"
	"io"
	"net/http"

	apperrors "github.com/venvl-dev/venvl-rentals-hub-sub001/internal/common/errors"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/models"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/search/evaluator"
	"github.com/venvl-dev/venvl-rentals-hub-sub001/internal/search/filterstate"
)

const maxRequestBody = 1 << 20

// handleSearch runs the full search pipeline: validate, build criteria
// through the filter store, resolve price bounds, evaluate, sort.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		apperrors.WriteHTTP(w, apperrors.NewInvalidFilterFormatError(err.Error()))
		return
	}

	// Empty body means default criteria: browse everything.
	if len(body) == 0 {
		body = []byte("{}")
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		apperrors.WriteHTTP(w, apperrors.NewInvalidFilterFormatError(err.Error()))
		return
	}
	if err := validateSearchPayload(payload); err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	var req SearchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		apperrors.WriteHTTP(w, apperrors.NewInvalidFilterFormatError(err.Error()))
		return
	}

	store, err := s.buildStore(req)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	mode := store.Snapshot().EffectiveBookingMode()
	bounds := s.bounds.ResolveBounds(ctx, mode)
	store.SyncPriceBounds(bounds)

	// A user-supplied interval lands after bounds initialization, so a
	// deliberate narrow range survives exactly as it does in the UI.
	if req.Filters != nil && req.Filters.PriceRange != nil {
		store.UpdateAdvanced(filterstate.AdvancedPatch{
			PriceRange: &models.PriceRange{
				Min: req.Filters.PriceRange.Min,
				Max: req.Filters.PriceRange.Max,
			},
		})
	}

	properties, err := s.source.QueryActiveApproved(ctx)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	snapshot := store.Snapshot()
	filtered := s.eval.Filter(properties, snapshot, &bounds)
	filtered = s.eval.Sort(filtered, evaluator.SortOption(req.SortBy), mode)

	writeJSON(w, http.StatusOK, SearchResponse{
		Properties:        filtered,
		Stats:             evaluator.Stats(properties, filtered),
		ActiveFilterCount: store.ActiveFilterCount(),
		PriceBounds:       &bounds,
		BookingMode:       mode,
	})
}

// buildStore replays the request onto a fresh filter store, exercising
// the same invalidation rules the interactive flow relies on.
func (s *Server) buildStore(req SearchRequest) (*filterstate.Store, error) {
	store := filterstate.New(s.logger)

	patch := filterstate.SearchPatch{}
	if req.Location != "" {
		patch.Location = &req.Location
	}
	if req.Guests > 0 {
		patch.Guests = &req.Guests
	}
	if req.BookingType != "" {
		mode := models.BookingMode(req.BookingType)
		if !mode.Valid() {
			return nil, apperrors.NewInvalidBookingModeError(req.BookingType)
		}
		patch.BookingType = &mode
	}
	if req.FlexibleOption != "" {
		patch.FlexibleOption = &req.FlexibleOption
	}
	if req.DurationMonths > 0 {
		patch.DurationMonths = &req.DurationMonths
	}
	store.UpdateSearch(patch)

	// Dates are applied after the mode so a monthly search does not
	// resurrect them.
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		return nil, err
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		return nil, err
	}
	if checkIn != nil || checkOut != nil {
		mode := store.Snapshot().Search.BookingType
		if mode == models.BookingModeDaily {
			store.UpdateSearch(filterstate.SearchPatch{CheckIn: checkIn, CheckOut: checkOut})
		}
	}

	if req.Filters != nil {
		adv := filterstate.AdvancedPatch{}
		if len(req.Filters.PropertyTypes) > 0 {
			adv.PropertyTypes = &req.Filters.PropertyTypes
		}
		if len(req.Filters.Amenities) > 0 {
			adv.Amenities = &req.Filters.Amenities
		}
		if req.Filters.Bedrooms > 0 {
			adv.Bedrooms = &req.Filters.Bedrooms
		}
		if req.Filters.Bathrooms > 0 {
			adv.Bathrooms = &req.Filters.Bathrooms
		}
		if req.Filters.BookingType != "" {
			mode := models.BookingMode(req.Filters.BookingType)
			if !mode.Valid() {
				return nil, apperrors.NewInvalidBookingModeError(req.Filters.BookingType)
			}
			adv.BookingType = &mode
		}
		store.UpdateAdvanced(adv)
	}

	return store, nil
}

// handlePriceRange resolves bounds for ?booking_mode=..., defaulting to
// flexible (the unconstrained range).
func (s *Server) handlePriceRange(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("booking_mode")
	if raw == "" {
		raw = string(models.BookingModeFlexible)
	}

	mode := models.BookingMode(raw)
	if !mode.Valid() {
		apperrors.WriteHTTP(w, apperrors.NewInvalidBookingModeError(raw))
		return
	}

	bounds := s.bounds.ResolveBounds(r.Context(), mode)
	writeJSON(w, http.StatusOK, PriceRangeResponse{
		BookingMode: mode,
		Bounds:      bounds,
	})
}

// handleCheckConflict delegates to the booking authority.
func (s *Server) handleCheckConflict(w http.ResponseWriter, r *http.Request) {
	var req ConflictRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&req); err != nil {
		apperrors.WriteHTTP(w, apperrors.NewInvalidFilterFormatError(err.Error()))
		return
	}

	if req.PropertyID == "" {
		apperrors.WriteHTTP(w, apperrors.NewValidationError("property_id is required"))
		return
	}
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}
	if checkIn == nil || checkOut == nil || !checkOut.After(*checkIn) {
		apperrors.WriteHTTP(w, apperrors.NewValidationError("check_in must precede check_out"))
		return
	}

	conflict, err := s.source.CheckBookingConflict(r.Context(), req.PropertyID, *checkIn, *checkOut)
	if err != nil {
		apperrors.WriteHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ConflictResponse{
		PropertyID:  req.PropertyID,
		HasConflict: conflict,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": s.cfg.App.Name,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
