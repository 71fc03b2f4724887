package refdata

import (
	"strings"

	"github.com/customs/backend/internal/domain/shared"
)

// Tariff is one row of the CET tariff reference table.
// Rate columns are kept as strings exactly as imported; they are display
// data for officers filling declarations, not calculation inputs.
type Tariff struct {
	shared.BaseEntity
	CETCode           string
	Description       string
	SupplementaryUnit string
	ImportDuty        string
	VAT               string
	Levy              string
	Excise            string
	DOV               string
}

// NewTariff creates a tariff row from cleaned import values
func NewTariff(cetCode, description, su, id, vat, lvy, exc, dov string) (*Tariff, error) {
	cetCode = strings.TrimSpace(cetCode)
	description = strings.TrimSpace(description)

	if cetCode == "" {
		return nil, shared.NewDomainError("INVALID_CET_CODE", "CET code cannot be empty")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Tariff description cannot be empty")
	}

	return &Tariff{
		BaseEntity:        shared.NewBaseEntity(),
		CETCode:           cetCode,
		Description:       description,
		SupplementaryUnit: orZero(su),
		ImportDuty:        orZero(id),
		VAT:               orZero(vat),
		Levy:              orZero(lvy),
		Excise:            orZero(exc),
		DOV:               orZero(dov),
	}, nil
}

func orZero(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "0"
	}
	return v
}
