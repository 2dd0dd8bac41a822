package api

import (
	"net/http"

	"ms-busbooking/internal/analytics"
	"ms-busbooking/internal/insight"
)

var tripSearchKeys = []string{"route", "busName", "departureDate", "scheduleId"}

func (h *Handler) SearchTrips(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	trips := analytics.SearchTrips(h.Repo.Snapshot(), q.Get("from"), q.Get("to"), q.Get("date"))
	h.ok(w, http.StatusOK, "trips", trips)
}

func (h *Handler) Cities(w http.ResponseWriter, r *http.Request) {
	h.ok(w, http.StatusOK, "cities", analytics.Cities(h.Repo.Snapshot()))
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.ok(w, http.StatusOK, "dashboard", analytics.DashboardStats(h.Repo.Snapshot()))
}

func (h *Handler) RoutePerformance(w http.ResponseWriter, r *http.Request) {
	h.ok(w, http.StatusOK, "route performance", analytics.RoutePerformance(h.Repo.Snapshot()))
}

func (h *Handler) TripSummaries(w http.ResponseWriter, r *http.Request) {
	h.ok(w, http.StatusOK, "trips", listing(h, r, analytics.TripSummaries(h.Repo.Snapshot()), tripSearchKeys))
}

// GenerateInsight never touches the repository beyond reading a snapshot.
func (h *Handler) GenerateInsight(w http.ResponseWriter, r *http.Request) {
	if h.Insight == nil {
		h.fail(w, "GenerateInsight", insight.ErrNotConfigured)
		return
	}
	text, err := h.Insight.Generate(r.Context(), analytics.DashboardStats(h.Repo.Snapshot()))
	if err != nil {
		h.fail(w, "GenerateInsight", err)
		return
	}
	h.ok(w, http.StatusOK, "insight", map[string]string{"insight": text})
}
