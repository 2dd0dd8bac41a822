package api

import (
	"fmt"
	"net/http"

	"ms-busbooking/internal/analytics"
	"ms-busbooking/internal/models"
	"ms-busbooking/internal/repository"

	"github.com/go-chi/chi/v5"
)

var (
	routeSearchKeys    = []string{"source", "destination", "routeId"}
	busSearchKeys      = []string{"name", "busId", "seatType", "amenities"}
	scheduleSearchKeys = []string{"scheduleId", "routeId", "busId", "departureDate", "status"}
)

func (h *Handler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	h.ok(w, http.StatusOK, "routes", listing(h, r, h.Repo.Routes(), routeSearchKeys))
}

func (h *Handler) GetRoute(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeId")
	route, ok := h.Repo.Route(routeID)
	if !ok {
		h.fail(w, "GetRoute", fmt.Errorf("route %s: %w", routeID, repository.ErrNotFound))
		return
	}
	h.ok(w, http.StatusOK, "route", route)
}

func (h *Handler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	var route models.Route
	if err := decode(r, &route, false); err != nil {
		h.fail(w, "CreateRoute", err)
		return
	}
	created, err := h.Repo.AddRoute(r.Context(), route)
	if err != nil {
		h.fail(w, "CreateRoute", err)
		return
	}
	h.ok(w, http.StatusCreated, "Route added", created)
}

func (h *Handler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeId")
	h.Logger.Info("API", fmt.Sprintf("DeleteRoute: routeId=%s", routeID))
	if err := h.Repo.DeleteRoute(r.Context(), routeID); err != nil {
		h.fail(w, "DeleteRoute", err)
		return
	}
	h.ok(w, http.StatusOK, "Route deleted", nil)
}

func (h *Handler) ListBuses(w http.ResponseWriter, r *http.Request) {
	h.ok(w, http.StatusOK, "buses", listing(h, r, h.Repo.Buses(), busSearchKeys))
}

func (h *Handler) GetBus(w http.ResponseWriter, r *http.Request) {
	busID := chi.URLParam(r, "busId")
	bus, ok := h.Repo.Bus(busID)
	if !ok {
		h.fail(w, "GetBus", fmt.Errorf("bus %s: %w", busID, repository.ErrNotFound))
		return
	}
	h.ok(w, http.StatusOK, "bus", bus)
}

func (h *Handler) CreateBus(w http.ResponseWriter, r *http.Request) {
	var bus models.Bus
	if err := decode(r, &bus, false); err != nil {
		h.fail(w, "CreateBus", err)
		return
	}
	created, err := h.Repo.AddBus(r.Context(), bus)
	if err != nil {
		h.fail(w, "CreateBus", err)
		return
	}
	h.ok(w, http.StatusCreated, "Bus added", created)
}

func (h *Handler) DeleteBus(w http.ResponseWriter, r *http.Request) {
	busID := chi.URLParam(r, "busId")
	h.Logger.Info("API", fmt.Sprintf("DeleteBus: busId=%s", busID))
	if err := h.Repo.DeleteBus(r.Context(), busID); err != nil {
		h.fail(w, "DeleteBus", err)
		return
	}
	h.ok(w, http.StatusOK, "Bus deleted", nil)
}

func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	h.ok(w, http.StatusOK, "schedules", listing(h, r, h.Repo.Schedules(), scheduleSearchKeys))
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "scheduleId")
	schedule, ok := h.Repo.Schedule(scheduleID)
	if !ok {
		h.fail(w, "GetSchedule", fmt.Errorf("schedule %s: %w", scheduleID, repository.ErrNotFound))
		return
	}
	h.ok(w, http.StatusOK, "schedule", analytics.TripSummaryFor(h.Repo.Snapshot(), schedule))
}

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var schedule models.Schedule
	if err := decode(r, &schedule, false); err != nil {
		h.fail(w, "CreateSchedule", err)
		return
	}
	created, err := h.Repo.AddSchedule(r.Context(), schedule)
	if err != nil {
		h.fail(w, "CreateSchedule", err)
		return
	}
	h.ok(w, http.StatusCreated, "Schedule added", created)
}

type seriesRequest struct {
	Template models.Schedule `json:"template"`
	Days     int             `json:"days"`
}

func (h *Handler) CreateScheduleSeries(w http.ResponseWriter, r *http.Request) {
	var req seriesRequest
	if err := decode(r, &req, false); err != nil {
		h.fail(w, "CreateScheduleSeries", err)
		return
	}
	created, err := h.Repo.AddScheduleSeries(r.Context(), req.Template, req.Days)
	if err != nil && len(created) > 0 {
		h.failWith(w, "CreateScheduleSeries", err, map[string]any{"created": created})
		return
	}
	if err != nil {
		h.fail(w, "CreateScheduleSeries", err)
		return
	}
	h.ok(w, http.StatusCreated, fmt.Sprintf("%d schedules added", len(created)), created)
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "scheduleId")
	h.Logger.Info("API", fmt.Sprintf("DeleteSchedule: scheduleId=%s", scheduleID))
	if err := h.Repo.DeleteSchedule(r.Context(), scheduleID); err != nil {
		h.fail(w, "DeleteSchedule", err)
		return
	}
	h.ok(w, http.StatusOK, "Schedule deleted", nil)
}

func (h *Handler) SeatMap(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "scheduleId")
	snap := h.Repo.Snapshot()
	schedule, ok := snap.Schedule(scheduleID)
	if !ok {
		h.fail(w, "SeatMap", fmt.Errorf("schedule %s: %w", scheduleID, repository.ErrNotFound))
		return
	}
	h.ok(w, http.StatusOK, "seat map", analytics.BuildSeatMap(snap, schedule))
}

func (h *Handler) Manifest(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "scheduleId")
	snap := h.Repo.Snapshot()
	schedule, ok := snap.Schedule(scheduleID)
	if !ok {
		h.fail(w, "Manifest", fmt.Errorf("schedule %s: %w", scheduleID, repository.ErrNotFound))
		return
	}
	h.ok(w, http.StatusOK, "manifest", analytics.TripSummaryFor(snap, schedule))
}
