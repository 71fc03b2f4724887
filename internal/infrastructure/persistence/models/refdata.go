package models

import (
	"github.com/customs/backend/internal/domain/refdata"
)

// TariffModel is the persistence model for one CET tariff reference row.
// Rate columns stay as text; they are imported and displayed verbatim.
type TariffModel struct {
	BaseModel
	CETCode           string `gorm:"type:varchar(20);not null;index"`
	Description       string `gorm:"type:varchar(500);not null"`
	SupplementaryUnit string `gorm:"type:varchar(20);not null;default:'0'"`
	ImportDuty        string `gorm:"type:varchar(20);not null;default:'0'"`
	VAT               string `gorm:"type:varchar(20);not null;default:'0'"`
	Levy              string `gorm:"type:varchar(20);not null;default:'0'"`
	Excise            string `gorm:"type:varchar(20);not null;default:'0'"`
	DOV               string `gorm:"type:varchar(20);not null;default:'0'"`
}

// TableName returns the table name for GORM
func (TariffModel) TableName() string {
	return "tariffs"
}

// ToDomain converts the persistence model to a domain Tariff entity.
func (m *TariffModel) ToDomain() *refdata.Tariff {
	return &refdata.Tariff{
		BaseEntity:        m.BaseModel.ToDomain(),
		CETCode:           m.CETCode,
		Description:       m.Description,
		SupplementaryUnit: m.SupplementaryUnit,
		ImportDuty:        m.ImportDuty,
		VAT:               m.VAT,
		Levy:              m.Levy,
		Excise:            m.Excise,
		DOV:               m.DOV,
	}
}

// FromDomain populates the persistence model from a domain Tariff entity.
func (m *TariffModel) FromDomain(t *refdata.Tariff) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.CETCode = t.CETCode
	m.Description = t.Description
	m.SupplementaryUnit = t.SupplementaryUnit
	m.ImportDuty = t.ImportDuty
	m.VAT = t.VAT
	m.Levy = t.Levy
	m.Excise = t.Excise
	m.DOV = t.DOV
}

// TariffModelFromDomain creates a new persistence model from a domain Tariff entity.
func TariffModelFromDomain(t *refdata.Tariff) *TariffModel {
	m := &TariffModel{}
	m.FromDomain(t)
	return m
}

// BankModel is the persistence model for one authorized dealer bank row.
type BankModel struct {
	BaseModel
	BankCode     string `gorm:"type:varchar(20);not null;index"`
	BankName     string `gorm:"type:varchar(200);not null"`
	BankAddress  string `gorm:"type:varchar(500)"`
	EmailAddress string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (BankModel) TableName() string {
	return "banks"
}

// ToDomain converts the persistence model to a domain Bank entity.
func (m *BankModel) ToDomain() *refdata.Bank {
	return &refdata.Bank{
		BaseEntity:   m.BaseModel.ToDomain(),
		BankCode:     m.BankCode,
		BankName:     m.BankName,
		BankAddress:  m.BankAddress,
		EmailAddress: m.EmailAddress,
	}
}

// FromDomain populates the persistence model from a domain Bank entity.
func (m *BankModel) FromDomain(b *refdata.Bank) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.BankCode = b.BankCode
	m.BankName = b.BankName
	m.BankAddress = b.BankAddress
	m.EmailAddress = b.EmailAddress
}

// BankModelFromDomain creates a new persistence model from a domain Bank entity.
func BankModelFromDomain(b *refdata.Bank) *BankModel {
	m := &BankModel{}
	m.FromDomain(b)
	return m
}
