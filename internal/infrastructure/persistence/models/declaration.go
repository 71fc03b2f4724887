package models

import (
	"time"

	"github.com/customs/backend/internal/domain/declaration"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeclarationModel is the persistence model for the Declaration aggregate root.
// The reference columns are nullable because STORED declarations carry no
// reference pair; the partial unique indexes still reject duplicates among
// assessed declarations.
type DeclarationModel struct {
	AuditedAggregateModel
	CustomsReferenceNumber *string                       `gorm:"type:varchar(30);uniqueIndex:idx_declarations_customs_reference"`
	AssessmentSerial       *string                       `gorm:"type:varchar(30);uniqueIndex:idx_declarations_assessment_serial"`
	Status                 declaration.DeclarationStatus `gorm:"type:varchar(20);not null;default:'STORED';index"`
	CommandLocationID      uuid.UUID                     `gorm:"type:uuid;not null;index"`
	TotalItems             int                           `gorm:"not null;default:0"`

	ModelOfDeclaration    string                    `gorm:"type:varchar(50);not null"`
	Office                string                    `gorm:"type:varchar(100);not null"`
	ReceiptNumber         string                    `gorm:"type:varchar(100)"`
	TotalGrossMass        decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	TotalNetMass          decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	RepresentativeName    string                    `gorm:"type:varchar(200);not null"`
	PassportNumber        string                    `gorm:"type:varchar(50);not null;index"`
	FirstName             string                    `gorm:"type:varchar(100);not null"`
	LastName              string                    `gorm:"type:varchar(100);not null"`
	PhoneNumber           string                    `gorm:"type:varchar(50)"`
	Email                 string                    `gorm:"type:varchar(200)"`
	Nationality           string                    `gorm:"type:varchar(100);not null"`
	Address               string                    `gorm:"type:varchar(500);not null"`
	CountryOfDeparture    string                    `gorm:"type:varchar(100);not null"`
	MotRegistrationNumber string                    `gorm:"type:varchar(100);not null"`
	ModeOfTransport       declaration.TransportMode `gorm:"type:varchar(10);not null"`
	DepartureDate         *time.Time
	ArrivalDate           *time.Time
	ModeOfPayment         string          `gorm:"type:varchar(50);not null"`
	BankName              string          `gorm:"type:varchar(200);not null"`
	BankCode              string          `gorm:"type:varchar(20);not null"`
	BankBranch            string          `gorm:"type:varchar(200);not null"`
	BankFileNumber        string          `gorm:"type:varchar(100)"`
	InvoiceValue          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	AssessedAt *time.Time `gorm:"index"`
	AssessedBy *uuid.UUID `gorm:"type:uuid"`

	AmountPaid           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentDate          *time.Time
	PaymentMethod        string `gorm:"type:varchar(20)"`
	TransactionReference string `gorm:"type:varchar(100)"`

	ExitPassNumber string `gorm:"type:varchar(100)"`
	ClearanceDate  *time.Time
	ClearedBy      *uuid.UUID `gorm:"type:uuid"`

	CancellationReason string     `gorm:"type:varchar(500)"`
	CancelledBy        *uuid.UUID `gorm:"type:uuid"`
	CancellationDate   *time.Time

	Items         []DeclarationItemModel `gorm:"foreignKey:DeclarationID;references:ID"`
	StatusHistory []StatusChangeModel    `gorm:"foreignKey:DeclarationID;references:ID"`
}

// TableName returns the table name for GORM
func (DeclarationModel) TableName() string {
	return "declarations"
}

// ToDomain converts the persistence model to a domain Declaration entity.
func (m *DeclarationModel) ToDomain() *declaration.Declaration {
	d := &declaration.Declaration{
		CustomsReferenceNumber: m.CustomsReferenceNumber,
		AssessmentSerial:       m.AssessmentSerial,
		Status:                 m.Status,
		CommandLocationID:      m.CommandLocationID,
		TotalItems:             m.TotalItems,
		Details: declaration.Details{
			ModelOfDeclaration:    m.ModelOfDeclaration,
			Office:                m.Office,
			ReceiptNumber:         m.ReceiptNumber,
			TotalGrossMass:        m.TotalGrossMass,
			TotalNetMass:          m.TotalNetMass,
			RepresentativeName:    m.RepresentativeName,
			PassportNumber:        m.PassportNumber,
			FirstName:             m.FirstName,
			LastName:              m.LastName,
			PhoneNumber:           m.PhoneNumber,
			Email:                 m.Email,
			Nationality:           m.Nationality,
			Address:               m.Address,
			CountryOfDeparture:    m.CountryOfDeparture,
			MotRegistrationNumber: m.MotRegistrationNumber,
			ModeOfTransport:       m.ModeOfTransport,
			DepartureDate:         m.DepartureDate,
			ArrivalDate:           m.ArrivalDate,
			ModeOfPayment:         m.ModeOfPayment,
			BankName:              m.BankName,
			BankCode:              m.BankCode,
			BankBranch:            m.BankBranch,
			BankFileNumber:        m.BankFileNumber,
			InvoiceValue:          m.InvoiceValue,
		},
		AssessedAt: m.AssessedAt,
		AssessedBy: m.AssessedBy,
		Payment: declaration.PaymentDetails{
			AmountPaid:           m.AmountPaid,
			PaymentDate:          m.PaymentDate,
			PaymentMethod:        declaration.PaymentMethod(m.PaymentMethod),
			TransactionReference: m.TransactionReference,
		},
		Clearance: declaration.ClearanceDetails{
			ExitPassNumber: m.ExitPassNumber,
			ClearanceDate:  m.ClearanceDate,
			ClearedBy:      m.ClearedBy,
		},
		Cancellation: declaration.CancellationDetails{
			Reason:           m.CancellationReason,
			CancelledBy:      m.CancelledBy,
			CancellationDate: m.CancellationDate,
		},
		Items:         make([]declaration.Item, len(m.Items)),
		StatusHistory: make([]declaration.StatusChange, len(m.StatusHistory)),
	}
	m.PopulateAuditedAggregateRoot(&d.AuditedAggregateRoot)
	for i, item := range m.Items {
		d.Items[i] = *item.ToDomain()
	}
	for i, change := range m.StatusHistory {
		d.StatusHistory[i] = *change.ToDomain()
	}
	return d
}

// FromDomain populates the persistence model from a domain Declaration entity.
func (m *DeclarationModel) FromDomain(d *declaration.Declaration) {
	m.FromDomainAuditedAggregateRoot(d.AuditedAggregateRoot)
	m.CustomsReferenceNumber = d.CustomsReferenceNumber
	m.AssessmentSerial = d.AssessmentSerial
	m.Status = d.Status
	m.CommandLocationID = d.CommandLocationID
	m.TotalItems = d.TotalItems
	m.ModelOfDeclaration = d.Details.ModelOfDeclaration
	m.Office = d.Details.Office
	m.ReceiptNumber = d.Details.ReceiptNumber
	m.TotalGrossMass = d.Details.TotalGrossMass
	m.TotalNetMass = d.Details.TotalNetMass
	m.RepresentativeName = d.Details.RepresentativeName
	m.PassportNumber = d.Details.PassportNumber
	m.FirstName = d.Details.FirstName
	m.LastName = d.Details.LastName
	m.PhoneNumber = d.Details.PhoneNumber
	m.Email = d.Details.Email
	m.Nationality = d.Details.Nationality
	m.Address = d.Details.Address
	m.CountryOfDeparture = d.Details.CountryOfDeparture
	m.MotRegistrationNumber = d.Details.MotRegistrationNumber
	m.ModeOfTransport = d.Details.ModeOfTransport
	m.DepartureDate = d.Details.DepartureDate
	m.ArrivalDate = d.Details.ArrivalDate
	m.ModeOfPayment = d.Details.ModeOfPayment
	m.BankName = d.Details.BankName
	m.BankCode = d.Details.BankCode
	m.BankBranch = d.Details.BankBranch
	m.BankFileNumber = d.Details.BankFileNumber
	m.InvoiceValue = d.Details.InvoiceValue
	m.AssessedAt = d.AssessedAt
	m.AssessedBy = d.AssessedBy
	m.AmountPaid = d.Payment.AmountPaid
	m.PaymentDate = d.Payment.PaymentDate
	m.PaymentMethod = string(d.Payment.PaymentMethod)
	m.TransactionReference = d.Payment.TransactionReference
	m.ExitPassNumber = d.Clearance.ExitPassNumber
	m.ClearanceDate = d.Clearance.ClearanceDate
	m.ClearedBy = d.Clearance.ClearedBy
	m.CancellationReason = d.Cancellation.Reason
	m.CancelledBy = d.Cancellation.CancelledBy
	m.CancellationDate = d.Cancellation.CancellationDate
	m.Items = make([]DeclarationItemModel, len(d.Items))
	for i, item := range d.Items {
		m.Items[i] = *DeclarationItemModelFromDomain(&item)
	}
	m.StatusHistory = make([]StatusChangeModel, len(d.StatusHistory))
	for i, change := range d.StatusHistory {
		m.StatusHistory[i] = *StatusChangeModelFromDomain(&change)
	}
}

// DeclarationModelFromDomain creates a new persistence model from a domain Declaration entity.
func DeclarationModelFromDomain(d *declaration.Declaration) *DeclarationModel {
	m := &DeclarationModel{}
	m.FromDomain(d)
	return m
}

// DeclarationItemModel is the persistence model for the declaration Item entity.
type DeclarationItemModel struct {
	ID                      uuid.UUID       `gorm:"type:uuid;primary_key"`
	DeclarationID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemNo                  int             `gorm:"not null"`
	CETCode                 string          `gorm:"type:varchar(20);not null;index"`
	CETCodeDescription      string          `gorm:"type:varchar(500);not null"`
	ItemDescription         string          `gorm:"type:varchar(500);not null"`
	CountryOfOrigin         string          `gorm:"type:varchar(100);not null"`
	PackageNumber           int             `gorm:"not null"`
	PackageKind             string          `gorm:"type:varchar(50);not null"`
	GrossMass               decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	NetMass                 decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ItemValue               decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Levy                    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Duty                    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	VAT                     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ETLS                    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CISS                    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Surcharge               decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LevyCharge              decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DutyCharge              decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	VATCharge               decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalItemValueWithTaxes decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ProcedureCode           string          `gorm:"type:varchar(20)"`
	SupplementaryUnit       string          `gorm:"type:varchar(20)"`
	SupplementaryValue1     string          `gorm:"type:varchar(50)"`
	SupplementaryValue2     string          `gorm:"type:varchar(50)"`
	CreatedAt               time.Time       `gorm:"not null"`
	UpdatedAt               time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DeclarationItemModel) TableName() string {
	return "declaration_items"
}

// ToDomain converts the persistence model to a domain Item entity.
func (m *DeclarationItemModel) ToDomain() *declaration.Item {
	return &declaration.Item{
		ID:                      m.ID,
		DeclarationID:           m.DeclarationID,
		ItemNo:                  m.ItemNo,
		CETCode:                 m.CETCode,
		CETCodeDescription:      m.CETCodeDescription,
		ItemDescription:         m.ItemDescription,
		CountryOfOrigin:         m.CountryOfOrigin,
		PackageNumber:           m.PackageNumber,
		PackageKind:             m.PackageKind,
		GrossMass:               m.GrossMass,
		NetMass:                 m.NetMass,
		ItemValue:               m.ItemValue,
		Levy:                    m.Levy,
		Duty:                    m.Duty,
		VAT:                     m.VAT,
		ETLS:                    m.ETLS,
		CISS:                    m.CISS,
		Surcharge:               m.Surcharge,
		LevyCharge:              m.LevyCharge,
		DutyCharge:              m.DutyCharge,
		VATCharge:               m.VATCharge,
		TotalItemValueWithTaxes: m.TotalItemValueWithTaxes,
		ProcedureCode:           m.ProcedureCode,
		SupplementaryUnit:       m.SupplementaryUnit,
		SupplementaryValue1:     m.SupplementaryValue1,
		SupplementaryValue2:     m.SupplementaryValue2,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Item entity.
func (m *DeclarationItemModel) FromDomain(i *declaration.Item) {
	m.ID = i.ID
	m.DeclarationID = i.DeclarationID
	m.ItemNo = i.ItemNo
	m.CETCode = i.CETCode
	m.CETCodeDescription = i.CETCodeDescription
	m.ItemDescription = i.ItemDescription
	m.CountryOfOrigin = i.CountryOfOrigin
	m.PackageNumber = i.PackageNumber
	m.PackageKind = i.PackageKind
	m.GrossMass = i.GrossMass
	m.NetMass = i.NetMass
	m.ItemValue = i.ItemValue
	m.Levy = i.Levy
	m.Duty = i.Duty
	m.VAT = i.VAT
	m.ETLS = i.ETLS
	m.CISS = i.CISS
	m.Surcharge = i.Surcharge
	m.LevyCharge = i.LevyCharge
	m.DutyCharge = i.DutyCharge
	m.VATCharge = i.VATCharge
	m.TotalItemValueWithTaxes = i.TotalItemValueWithTaxes
	m.ProcedureCode = i.ProcedureCode
	m.SupplementaryUnit = i.SupplementaryUnit
	m.SupplementaryValue1 = i.SupplementaryValue1
	m.SupplementaryValue2 = i.SupplementaryValue2
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
}

// DeclarationItemModelFromDomain creates a new persistence model from a domain Item entity.
func DeclarationItemModelFromDomain(i *declaration.Item) *DeclarationItemModel {
	m := &DeclarationItemModel{}
	m.FromDomain(i)
	return m
}

// StatusChangeModel is the persistence model for the StatusChange entity.
type StatusChangeModel struct {
	ID            uuid.UUID                     `gorm:"type:uuid;primary_key"`
	DeclarationID uuid.UUID                     `gorm:"type:uuid;not null;index"`
	FromStatus    declaration.DeclarationStatus `gorm:"type:varchar(20)"`
	ToStatus      declaration.DeclarationStatus `gorm:"type:varchar(20);not null"`
	ChangedBy     uuid.UUID                     `gorm:"type:uuid;not null"`
	ChangedAt     time.Time                     `gorm:"not null;index"`
	Note          string                        `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (StatusChangeModel) TableName() string {
	return "declaration_status_changes"
}

// ToDomain converts the persistence model to a domain StatusChange entity.
func (m *StatusChangeModel) ToDomain() *declaration.StatusChange {
	return &declaration.StatusChange{
		ID:            m.ID,
		DeclarationID: m.DeclarationID,
		FromStatus:    m.FromStatus,
		ToStatus:      m.ToStatus,
		ChangedBy:     m.ChangedBy,
		ChangedAt:     m.ChangedAt,
		Note:          m.Note,
	}
}

// StatusChangeModelFromDomain creates a new persistence model from a domain StatusChange entity.
func StatusChangeModelFromDomain(c *declaration.StatusChange) *StatusChangeModel {
	return &StatusChangeModel{
		ID:            c.ID,
		DeclarationID: c.DeclarationID,
		FromStatus:    c.FromStatus,
		ToStatus:      c.ToStatus,
		ChangedBy:     c.ChangedBy,
		ChangedAt:     c.ChangedAt,
		Note:          c.Note,
	}
}
