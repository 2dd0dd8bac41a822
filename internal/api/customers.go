package api

import (
	"fmt"
	"net/http"

	"ms-busbooking/internal/analytics"
	"ms-busbooking/internal/repository"

	"github.com/go-chi/chi/v5"
)

var customerSearchKeys = []string{"name", "phone", "customerId"}

type signUpRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

type loginRequest struct {
	Login string `json:"login" validate:"required"`
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	h.ok(w, http.StatusOK, "customers", listing(h, r, h.Repo.Customers(), customerSearchKeys))
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decode(r, &req, true); err != nil {
		h.fail(w, "SignUp", err)
		return
	}
	c, err := h.Repo.SignUp(r.Context(), req.Name, req.Phone)
	if err != nil {
		h.fail(w, "SignUp", err)
		return
	}
	h.ok(w, http.StatusCreated, "Account created", c)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req, true); err != nil {
		h.fail(w, "Login", err)
		return
	}
	c, ok := h.Repo.FindCustomer(req.Login)
	if !ok {
		h.fail(w, "Login", fmt.Errorf("customer %q: %w", req.Login, repository.ErrNotFound))
		return
	}
	h.ok(w, http.StatusOK, "Welcome back", c)
}

func (h *Handler) CustomerBookings(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerId")
	h.ok(w, http.StatusOK, "bookings", analytics.CustomerBookings(h.Repo.Snapshot(), customerID))
}
