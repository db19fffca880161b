package get_available_slots

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingWidget/pkg/types"
)

// validateRequest валидирует входные данные запроса.
// ID профессионала приводится к каноническому виду uuid.
func validateRequest(req *Request) error {
	if req.Slug == "" {
		return fmt.Errorf("%w: slug is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}

	if req.DurationMinutes >= types.MinutesPerDay {
		return fmt.Errorf("%w: duration %d exceeds a day", ErrInvalidInput, req.DurationMinutes)
	}

	if !req.IsPooled() {
		id, err := uuid.Parse(req.ProfessionalID)
		if err != nil {
			return fmt.Errorf("%w: professional id %q is not a uuid", ErrInvalidInput, req.ProfessionalID)
		}
		req.ProfessionalID = id.String()
	}

	return nil
}
