package booking

import (
	"context"
	"errors"

	"ms-busbooking/internal/models"
)

// Publishers sends every event to each publisher in turn and joins the errors.
type Publishers []EventPublisher

func (p Publishers) PublishBookingConfirmed(ctx context.Context, b models.Booking) error {
	var errs []error
	for _, pub := range p {
		errs = append(errs, pub.PublishBookingConfirmed(ctx, b))
	}
	return errors.Join(errs...)
}

func (p Publishers) PublishBookingCancelled(ctx context.Context, b models.Booking) error {
	var errs []error
	for _, pub := range p {
		errs = append(errs, pub.PublishBookingCancelled(ctx, b))
	}
	return errors.Join(errs...)
}
