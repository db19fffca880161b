package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingWidget/internal/domain"
	"github.com/m04kA/SMC-BookingWidget/pkg/types"
)

// validateRequired проверяет наличие обязательных полей и хотя бы одной позиции
func validateRequired(req *Request) error {
	var missing []string
	if strings.TrimSpace(req.Slug) == "" {
		missing = append(missing, "slug")
	}
	if strings.TrimSpace(req.Date) == "" {
		missing = append(missing, "data")
	}
	if strings.TrimSpace(req.Time) == "" {
		missing = append(missing, "hora")
	}
	if strings.TrimSpace(req.ProfessionalID) == "" {
		missing = append(missing, "profissional_id")
	}
	if strings.TrimSpace(req.Phone) == "" {
		missing = append(missing, "telefone")
	}
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "nome")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}

	if len(req.ServiceIDs) == 0 && len(req.PackageIDs) == 0 {
		return ErrNoItemsSelected
	}

	return nil
}

// parsedRequest запрос после проверки формата
type parsedRequest struct {
	date       time.Time
	start      types.TimeString
	professionalID string
	serviceIDs     []string
	packageIDs     []string
	name       string
	notes      *string
}

// parseRequest проверяет формат даты, времени и идентификаторов
func parseRequest(req *Request) (*parsedRequest, error) {
	date, err := time.ParseInLocation(domain.DateFormat, strings.TrimSpace(req.Date), domain.BusinessLocation)
	if err != nil {
		return nil, fmt.Errorf("%w: data %q must be YYYY-MM-DD", ErrInvalidInput, req.Date)
	}

	start, err := types.NewTimeStringFromString(req.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: hora %q must be HH:MM", ErrInvalidInput, req.Time)
	}

	professionalID, err := canonicalID(req.ProfessionalID)
	if err != nil {
		return nil, fmt.Errorf("%w: profissional_id is not a uuid", ErrInvalidInput)
	}

	serviceIDs, err := uniqueIDs(req.ServiceIDs, "servicos_ids")
	if err != nil {
		return nil, err
	}

	packageIDs, err := uniqueIDs(req.PackageIDs, "pacotes_ids")
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if len([]rune(name)) > domain.MaxCustomerNameLength {
		return nil, fmt.Errorf("%w: nome longer than %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	var notes *string
	if trimmed := strings.TrimSpace(req.Notes); trimmed != "" {
		if len([]rune(trimmed)) > domain.MaxNotesLength {
			return nil, fmt.Errorf("%w: observacao longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
		}
		notes = &trimmed
	}

	return &parsedRequest{
		date:           date,
		start:          start,
		professionalID: professionalID,
		serviceIDs:     serviceIDs,
		packageIDs:     packageIDs,
		name:           name,
		notes:          notes,
	}, nil
}

// canonicalID приводит uuid к каноническому виду xxxxxxxx-xxxx-... в нижнем регистре.
// uuid.Parse принимает и формы без дефисов, {...} и urn:uuid:, а PostgreSQL отдает канонические.
func canonicalID(raw string) (string, error) {
	u, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// uniqueIDs проверяет, что все ID - uuid, и убирает повторы с сохранением порядка
func uniqueIDs(ids []string, field string) ([]string, error) {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))

	for _, raw := range ids {
		id, err := canonicalID(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s contains invalid id %q", ErrInvalidInput, field, raw)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}

	return result, nil
}
