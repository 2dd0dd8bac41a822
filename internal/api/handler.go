package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"ms-busbooking/internal/booking"
	"ms-busbooking/internal/insight"
	"ms-busbooking/internal/logger"
	"ms-busbooking/internal/models"
	"ms-busbooking/internal/payment"
	"ms-busbooking/internal/repository"
	"ms-busbooking/internal/sse"
	"ms-busbooking/internal/tickets/qr"
	"ms-busbooking/internal/utils"
	"ms-busbooking/internal/view"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler serves the admin and customer HTTP surface.
type Handler struct {
	Repo     *repository.Repository
	Booking  *booking.Service
	Insight  *insight.Client
	Events   *sse.SeatEventEmitter
	Logger   *logger.Logger
	PageSize int
}

func NewHandler(repo *repository.Repository, svc *booking.Service, ins *insight.Client, log *logger.Logger, pageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = view.DefaultPageSize
	}
	return &Handler{Repo: repo, Booking: svc, Insight: ins, Logger: log, PageSize: pageSize}
}

// Router builds the chi router with every route registered under /api.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("ok", nil))
	})
	r.Route("/api", h.RegisterRoutes)
	return r
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/routes", func(r chi.Router) {
		r.Get("/", h.ListRoutes)
		r.Post("/", h.CreateRoute)
		r.Get("/{routeId}", h.GetRoute)
		r.Delete("/{routeId}", h.DeleteRoute)
	})
	r.Route("/buses", func(r chi.Router) {
		r.Get("/", h.ListBuses)
		r.Post("/", h.CreateBus)
		r.Get("/{busId}", h.GetBus)
		r.Delete("/{busId}", h.DeleteBus)
	})
	r.Route("/schedules", func(r chi.Router) {
		r.Get("/", h.ListSchedules)
		r.Post("/", h.CreateSchedule)
		r.Post("/series", h.CreateScheduleSeries)
		r.Get("/{scheduleId}", h.GetSchedule)
		r.Delete("/{scheduleId}", h.DeleteSchedule)
		r.Get("/{scheduleId}/seats", h.SeatMap)
		r.Get("/{scheduleId}/manifest", h.Manifest)
		r.Get("/{scheduleId}/events", h.SeatEvents)
		r.Post("/{scheduleId}/holds", h.HoldSeats)
		r.Delete("/{scheduleId}/holds/{holdId}", h.ReleaseHold)
	})
	r.Route("/bookings", func(r chi.Router) {
		r.Get("/", h.ListBookings)
		r.Post("/", h.Checkout)
		r.Get("/{bookingId}", h.GetBooking)
		r.Put("/{bookingId}", h.AmendBooking)
		r.Post("/{bookingId}/cancel", h.CancelBooking)
	})
	r.Route("/customers", func(r chi.Router) {
		r.Get("/", h.ListCustomers)
		r.Post("/", h.SignUp)
		r.Post("/login", h.Login)
		r.Get("/{customerId}/bookings", h.CustomerBookings)
	})
	r.Get("/tickets/verify", h.VerifyTicket)
	r.Get("/search", h.SearchTrips)
	r.Get("/cities", h.Cities)
	r.Route("/reports", func(r chi.Router) {
		r.Get("/dashboard", h.Dashboard)
		r.Get("/routes", h.RoutePerformance)
		r.Get("/trips", h.TripSummaries)
		r.Post("/insight", h.GenerateInsight)
	})
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.Logger.LogAPI(r.Method, r.URL.Path, strconv.Itoa(ww.Status()), time.Since(start).String())
	})
}

// decode reads a JSON body into dst and runs struct validation on it.
func decode(r *http.Request, dst any, validate bool) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", repository.ErrInvalidRecord, err)
	}
	if validate {
		if err := models.Validator().Struct(dst); err != nil {
			return fmt.Errorf("%w: %v", repository.ErrInvalidRecord, err)
		}
	}
	return nil
}

func statusFor(err error) int {
	var cardErr *payment.ValidationError
	switch {
	case errors.Is(err, repository.ErrIntegrityConflict),
		errors.Is(err, repository.ErrSeatUnavailable),
		errors.Is(err, repository.ErrPhoneTaken),
		errors.Is(err, repository.ErrBookingClosed),
		errors.Is(err, booking.ErrSeatsHeld),
		errors.Is(err, booking.ErrPassMismatch):
		return http.StatusConflict
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, booking.ErrScheduleNotFound):
		return http.StatusNotFound
	case errors.As(err, &cardErr):
		return http.StatusPaymentRequired
	case errors.Is(err, repository.ErrInvalidRecord),
		errors.Is(err, booking.ErrNoSeats),
		errors.Is(err, booking.ErrTooManySeats),
		errors.Is(err, booking.ErrUnknownSeat),
		errors.Is(err, booking.ErrPassengerSeat),
		errors.Is(err, payment.ErrEmptyBooking),
		errors.Is(err, qr.ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, insight.ErrNotConfigured),
		errors.Is(err, booking.ErrPassesDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, insight.ErrEmptyAnswer):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
	} else {
		h.Logger.Warn("API", fmt.Sprintf("%s: %v", op, err))
	}

	resp := utils.ErrorResponse(http.StatusText(status), err.Error())
	var conflict *repository.ConflictError
	var seats *repository.SeatConflictError
	var taken *booking.SeatsTakenError
	var held *booking.SeatsHeldError
	var cardErr *payment.ValidationError
	switch {
	case errors.As(err, &conflict):
		resp.Message = conflict.Reason
	case errors.As(err, &seats):
		resp.Data = map[string]any{"seats": seats.Seats}
	case errors.As(err, &taken):
		resp.Data = map[string]any{"seats": taken.Seats}
	case errors.As(err, &held):
		resp.Data = map[string]any{"seats": held.Seats}
	case errors.As(err, &cardErr):
		resp.Data = map[string]any{"fields": cardErr.Fields}
	}
	utils.WriteJSON(w, status, resp)
}

// failWith reports err but carries data, for operations that applied part of
// their work before failing.
func (h *Handler) failWith(w http.ResponseWriter, op string, err error, data any) {
	status := statusFor(err)
	h.Logger.Warn("API", fmt.Sprintf("%s: %v", op, err))
	resp := utils.ErrorResponse(http.StatusText(status), err.Error())
	resp.Data = data
	utils.WriteJSON(w, status, resp)
}

func (h *Handler) ok(w http.ResponseWriter, status int, message string, data any) {
	utils.WriteJSON(w, status, utils.SuccessResponse(message, data))
}

// pageParams reads ?q=&page=&size= with the handler's page size as default.
func (h *Handler) pageParams(r *http.Request) (term string, page, size int) {
	q := r.URL.Query()
	page, _ = strconv.Atoi(q.Get("page"))
	size, _ = strconv.Atoi(q.Get("size"))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = h.PageSize
	}
	return q.Get("q"), page, size
}

func listing[T any](h *Handler, r *http.Request, items []T, keys []string) view.Page[T] {
	term, page, size := h.pageParams(r)
	return view.Paginate(view.Filter(items, term, keys), page, size)
}
