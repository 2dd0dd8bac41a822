package repository

import (
	"context"
	"fmt"
	"strings"

	"ms-busbooking/internal/models"
	"ms-busbooking/internal/store"
)

// AddCustomer registers a customer with zeroed loyalty counters.
func (r *Repository) AddCustomer(ctx context.Context, c models.Customer) (models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addCustomer(ctx, c)
}

func (r *Repository) addCustomer(ctx context.Context, c models.Customer) (models.Customer, error) {
	c.CustomerID = r.ids.next(CustomerPrefix)
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.LifetimeBookings = 0
	c.LoyaltyDiscount = 0
	if err := models.Validate(c); err != nil {
		return models.Customer{}, invalid("customer", err)
	}
	if err := commit(ctx, r, store.Customers, &r.customers, appended(r.customers, c)); err != nil {
		return models.Customer{}, err
	}
	r.Logger.Info("REPOSITORY", fmt.Sprintf("Customer %s registered", c.CustomerID))
	return c, nil
}

// SignUp is AddCustomer with a unique, non-empty phone number.
func (r *Repository) SignUp(ctx context.Context, name, phone string) (models.Customer, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return models.Customer{}, fmt.Errorf("%w: customer: phone is required", ErrInvalidRecord)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.customers {
		if c.Phone == phone {
			return models.Customer{}, ErrPhoneTaken
		}
	}
	return r.addCustomer(ctx, models.Customer{Name: name, Phone: phone})
}

// FindCustomer matches login against a customer's phone or, ignoring case,
// their name.
func (r *Repository) FindCustomer(login string) (models.Customer, bool) {
	login = strings.TrimSpace(login)
	if login == "" {
		return models.Customer{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.customers {
		if c.Phone == login || strings.EqualFold(c.Name, login) {
			return c, true
		}
	}
	return models.Customer{}, false
}
