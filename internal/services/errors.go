package services

import (
	"errors"
	"fmt"

	"github.com/anonto42/nano-midea/mailer/internal/models"
)

var (
	// ErrUnknownFrequency is returned for a frequency outside instant, daily, weekly and biweekly
	ErrUnknownFrequency = errors.New("unknown notification frequency")
	// ErrRunInProgress is returned when another process holds the run lock of a tier
	ErrRunInProgress = errors.New("a run for this frequency is already in progress")
)

// ParseFrequency validates a frequency name. Names are matched exactly, as the HTTP layer does.
func ParseFrequency(s string) (models.Frequency, error) {
	f := models.Frequency(s)
	switch f {
	case models.FrequencyInstant, models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyBiweekly:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (expected instant, daily, weekly or biweekly)", ErrUnknownFrequency, s)
}
