package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/intelligence"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateRequest runs struct tag validation and wraps failures in
// ErrValidation with one message per field.
func validateRequest(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

// values copies pointer slices from the repositories into value slices.
func values[T any](ptrs []*T) []T {
	out := make([]T, 0, len(ptrs))
	for _, p := range ptrs {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (r GenerateDailyTasksRequest) snapshot(now time.Time, instructions string) intelligence.PipelineSnapshot {
	date := r.Date
	if date.IsZero() {
		date = startOfDay(now)
	}
	return intelligence.PipelineSnapshot{
		UserID:             r.UserID,
		UserName:           r.UserName,
		Date:               date,
		Now:                now,
		Deals:              r.Deals,
		Clients:            r.Clients,
		Activities:         r.RecentActivities,
		CompletedToday:     r.CompletedToday,
		CustomInstructions: instructions,
	}
}

func ownedBy(t *domain.Task, userID string) error {
	if t.UserID != userID {
		return fmt.Errorf("task %s: %w", t.ID, ErrForbidden)
	}
	return nil
}
