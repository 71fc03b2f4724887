package refdata

import (
	"strings"

	"github.com/customs/backend/internal/domain/shared"
)

// Bank is one row of the authorized dealer bank reference table
type Bank struct {
	shared.BaseEntity
	BankCode     string
	BankName     string
	BankAddress  string
	EmailAddress string
}

// NewBank creates a bank row from cleaned import values
func NewBank(bankCode, bankName, bankAddress, emailAddress string) (*Bank, error) {
	bankCode = strings.TrimSpace(bankCode)
	bankName = strings.TrimSpace(bankName)

	if bankCode == "" {
		return nil, shared.NewDomainError("INVALID_BANK_CODE", "Bank code cannot be empty")
	}
	if bankName == "" {
		return nil, shared.NewDomainError("INVALID_BANK_NAME", "Bank name cannot be empty")
	}

	return &Bank{
		BaseEntity:   shared.NewBaseEntity(),
		BankCode:     bankCode,
		BankName:     bankName,
		BankAddress:  strings.TrimSpace(bankAddress),
		EmailAddress: strings.ToLower(strings.TrimSpace(emailAddress)),
	}, nil
}
