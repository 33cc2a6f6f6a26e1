package create_appointment

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// validRequest проверенные и нормализованные поля запроса
type validRequest struct {
	clientName string
	email      string
	vehicle    string
	condition  domain.VehicleCondition
	packageID  string
	addonIDs   []string
	date       types.Date
	slot       domain.Slot
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) (*validRequest, error) {
	v := &validRequest{
		clientName: strings.TrimSpace(req.ClientName),
		email:      strings.TrimSpace(req.Email),
		vehicle:    strings.TrimSpace(req.Vehicle),
		packageID:  strings.TrimSpace(req.PackageID),
	}

	if err := requireText("name", v.clientName, domain.MaxClientNameLength); err != nil {
		return nil, err
	}

	if err := requireText("email", v.email, domain.MaxEmailLength); err != nil {
		return nil, err
	}
	addr, err := mail.ParseAddress(v.email)
	if err != nil || addr.Address != v.email {
		return nil, fmt.Errorf("%w: email %q is malformed", ErrValidationFailed, v.email)
	}

	if err := requireText("vehicle", v.vehicle, domain.MaxVehicleLength); err != nil {
		return nil, err
	}

	condition, err := domain.ParseCondition(strings.TrimSpace(req.Condition))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	v.condition = condition

	if err := requireText("package", v.packageID, domain.MaxCatalogIDLength); err != nil {
		return nil, err
	}

	if len(req.AddonIDs) > domain.MaxAddonsPerBooking {
		return nil, fmt.Errorf("%w: at most %d add-ons allowed", ErrValidationFailed, domain.MaxAddonsPerBooking)
	}
	v.addonIDs = make([]string, 0, len(req.AddonIDs))
	for _, id := range req.AddonIDs {
		id = strings.TrimSpace(id)
		if err := requireText("add-on", id, domain.MaxCatalogIDLength); err != nil {
			return nil, err
		}
		v.addonIDs = append(v.addonIDs, id)
	}

	if strings.TrimSpace(req.Date) == "" {
		return nil, fmt.Errorf("%w: date is required", ErrValidationFailed)
	}
	date, err := types.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	v.date = date

	slot, err := domain.ParseSlot(req.Slot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	v.slot = slot

	if req.AccountID != nil && strings.TrimSpace(*req.AccountID) == "" {
		return nil, fmt.Errorf("%w: account id is empty", ErrValidationFailed)
	}

	return v, nil
}

func requireText(field, value string, maxLen int) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", ErrValidationFailed, field)
	}
	if utf8.RuneCountInString(value) > maxLen {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrValidationFailed, field, maxLen)
	}
	return nil
}
