package api

import (
	"fmt"
	"net/http"
	"strings"

	"ms-busbooking/internal/booking"
	"ms-busbooking/internal/models"
	"ms-busbooking/internal/repository"

	"github.com/go-chi/chi/v5"
)

var bookingSearchKeys = []string{"bookingId", "customerName", "travelOrigin", "travelDestination", "status", "scheduleId"}

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	h.ok(w, http.StatusOK, "bookings", listing(h, r, h.Repo.Bookings(), bookingSearchKeys))
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	b, ok := h.Repo.Booking(bookingID)
	if !ok {
		h.fail(w, "GetBooking", fmt.Errorf("booking %s: %w", bookingID, repository.ErrBookingNotFound))
		return
	}
	h.ok(w, http.StatusOK, "booking", b)
}

type holdRequest struct {
	Seats  []string `json:"seats" validate:"required,min=1"`
	HoldID string   `json:"holdId"`
}

func (h *Handler) HoldSeats(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "scheduleId")
	var req holdRequest
	if err := decode(r, &req, true); err != nil {
		h.fail(w, "HoldSeats", err)
		return
	}
	hold, err := h.Booking.HoldSeats(r.Context(), scheduleID, req.Seats, req.HoldID)
	if err != nil {
		h.fail(w, "HoldSeats", err)
		return
	}
	h.ok(w, http.StatusCreated, "Seats held", hold)
}

// ReleaseHold takes the seats as ?seats=1A,1B.
func (h *Handler) ReleaseHold(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "scheduleId")
	holdID := chi.URLParam(r, "holdId")
	var seats []string
	for _, seat := range strings.Split(r.URL.Query().Get("seats"), ",") {
		if seat = strings.TrimSpace(seat); seat != "" {
			seats = append(seats, seat)
		}
	}
	if len(seats) == 0 {
		h.fail(w, "ReleaseHold", booking.ErrNoSeats)
		return
	}
	if err := h.Booking.ReleaseHold(r.Context(), scheduleID, seats, holdID); err != nil {
		h.fail(w, "ReleaseHold", err)
		return
	}
	h.ok(w, http.StatusOK, "Hold released", nil)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req booking.CheckoutRequest
	if err := decode(r, &req, true); err != nil {
		h.fail(w, "Checkout", err)
		return
	}
	h.Logger.Debug("API", fmt.Sprintf("Checkout: schedule=%s seats=%v", req.ScheduleID, req.Seats))

	receipt, err := h.Booking.Checkout(r.Context(), req)
	if err != nil {
		h.fail(w, "Checkout", err)
		return
	}
	h.ok(w, http.StatusCreated, "Payment Successful! Booking Confirmed.", receipt)
}

// AmendBooking merges the body into an existing booking.
func (h *Handler) AmendBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	var patch models.Booking
	if err := decode(r, &patch, false); err != nil {
		h.fail(w, "AmendBooking", err)
		return
	}
	patch.BookingID = bookingID

	if _, err := h.Repo.UpdateBooking(r.Context(), patch); err != nil {
		h.fail(w, "AmendBooking", err)
		return
	}
	updated, _ := h.Repo.Booking(bookingID)
	h.ok(w, http.StatusOK, "Booking updated", updated)
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	h.Logger.Info("API", fmt.Sprintf("CancelBooking: bookingId=%s", bookingID))
	b, err := h.Booking.Cancel(r.Context(), bookingID)
	if err != nil {
		h.fail(w, "CancelBooking", err)
		return
	}
	h.ok(w, http.StatusOK, "Booking cancelled", b)
}

// VerifyTicket checks a scanned boarding pass, given as ?token=.
func (h *Handler) VerifyTicket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		h.fail(w, "VerifyTicket", fmt.Errorf("%w: token is required", repository.ErrInvalidRecord))
		return
	}
	b, err := h.Booking.VerifyPass(r.Context(), token)
	if err != nil {
		h.fail(w, "VerifyTicket", err)
		return
	}
	h.ok(w, http.StatusOK, "Boarding pass valid", b)
}
