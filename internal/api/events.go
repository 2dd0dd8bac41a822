package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"ms-busbooking/internal/repository"

	"github.com/go-chi/chi/v5"
)

// SeatEvents streams seat changes of one schedule as server-sent events.
func (h *Handler) SeatEvents(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "scheduleId")
	if h.Events == nil {
		http.Error(w, "Live seat events are disabled", http.StatusNotFound)
		return
	}
	if _, ok := h.Repo.Schedule(scheduleID); !ok {
		h.fail(w, "SeatEvents", fmt.Errorf("schedule %s: %w", scheduleID, repository.ErrNotFound))
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
	w.Header().Set("Connection", "keep-alive")

	ctx := r.Context()
	events := h.Events.Subscribe(ctx, scheduleID)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"scheduleId\":%q}\n\n", scheduleID)
	flusher.Flush()
	h.Logger.Info("SSE", fmt.Sprintf("Client connected to seat events for schedule: %s", scheduleID))

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize seat event: %v", err))
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			flusher.Flush()
		case <-ctx.Done():
			h.Logger.Debug("SSE", fmt.Sprintf("Client disconnected from seat events for: %s", scheduleID))
			return
		}
	}
}
