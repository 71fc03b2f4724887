package declaration

import (
	"encoding/json"
	"time"

	"github.com/customs/backend/internal/domain/declaration"
	"github.com/customs/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeclarationItemRequest represents a line item in a create or update request
type DeclarationItemRequest struct {
	ItemNo                  int             `json:"itemNo" binding:"required,min=1"`
	CETCode                 string          `json:"cetCode" binding:"required"`
	CETCodeDescription      string          `json:"cetCodeDescription" binding:"required"`
	ItemDescription         string          `json:"itemDescription" binding:"required"`
	CountryOfOrigin         string          `json:"countryOfOrigin" binding:"required"`
	PackageNumber           int             `json:"packageNumber" binding:"required,min=1"`
	PackageKind             string          `json:"packageKind" binding:"required"`
	GrossMass               decimal.Decimal `json:"grossMass"`
	NetMass                 decimal.Decimal `json:"netMass"`
	ItemValue               decimal.Decimal `json:"itemValue"`
	Levy                    decimal.Decimal `json:"levy"`
	Duty                    decimal.Decimal `json:"duty"`
	VAT                     decimal.Decimal `json:"vat"`
	ETLS                    decimal.Decimal `json:"etls"`
	CISS                    decimal.Decimal `json:"ciss"`
	Surcharge               decimal.Decimal `json:"surCharge"`
	LevyCharge              decimal.Decimal `json:"levyCharge"`
	DutyCharge              decimal.Decimal `json:"dutyCharge"`
	VATCharge               decimal.Decimal `json:"vatCharge"`
	TotalItemValueWithTaxes decimal.Decimal `json:"totalItemValueWithTaxes"`
	ProcedureCode           string          `json:"procedureCode"`
	SupplementaryUnit       string          `json:"supplementaryUnit"`
	SupplementaryValue1     string          `json:"supplementaryValue1"`
	SupplementaryValue2     string          `json:"supplementaryValue2"`
}

// DeclarationDetailsRequest carries the content fields shared by create and
// update requests
type DeclarationDetailsRequest struct {
	ModelOfDeclaration    string                   `json:"modelOfDeclaration" binding:"required"`
	Office                string                   `json:"office" binding:"required"`
	ReceiptNumber         string                   `json:"receiptNumber"`
	TotalGrossMass        decimal.Decimal          `json:"totalGrossMass"`
	TotalNetMass          decimal.Decimal          `json:"totalNetMass"`
	RepresentativeName    string                   `json:"representativeName" binding:"required"`
	PassportNumber        string                   `json:"passportNumber" binding:"required"`
	FirstName             string                   `json:"firstName" binding:"required"`
	LastName              string                   `json:"lastName" binding:"required"`
	PhoneNumber           string                   `json:"phoneNumber"`
	Email                 string                   `json:"email" binding:"omitempty,email"`
	Nationality           string                   `json:"nationality" binding:"required"`
	Address               string                   `json:"address" binding:"required"`
	CountryOfDeparture    string                   `json:"countryOfDeparture" binding:"required"`
	MotRegistrationNumber string                   `json:"motRegistrationNumber" binding:"required,min=5"`
	ModeOfTransport       string                   `json:"modeOfTransport" binding:"required,oneof=AIR LAND SEA"`
	DepartureDate         *time.Time               `json:"departureDate"`
	ArrivalDate           *time.Time               `json:"arrivalDate"`
	ModeOfPayment         string                   `json:"modeOfPayment" binding:"required"`
	BankName              string                   `json:"bankName" binding:"required"`
	BankCode              string                   `json:"bankCode" binding:"required"`
	BankBranch            string                   `json:"bankBranch" binding:"required"`
	BankFileNumber        string                   `json:"bankFileNumber"`
	InvoiceValue          decimal.Decimal          `json:"invoiceValue"`
	Items                 []DeclarationItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateDeclarationRequest represents a request to create a declaration.
// Status may be STORED (default) or ASSESSED; assessing at creation time
// acquires a reference pair before the declaration is persisted.
type CreateDeclarationRequest struct {
	DeclarationDetailsRequest
	Status string `json:"status" binding:"omitempty,oneof=STORED ASSESSED"`
}

// UpdateDeclarationRequest represents a content amendment. Status and
// reference numbers are not part of the payload; requests carrying them are
// rejected before binding.
type UpdateDeclarationRequest struct {
	DeclarationDetailsRequest
}

// CancelDeclarationRequest carries the reason for a cancellation
type CancelDeclarationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListDeclarationsFilter represents query options for listing declarations
type ListDeclarationsFilter struct {
	Page     int
	PageSize int
	Status   string
	Search   string
}

// Fields an update payload may never carry. Reference numbers and status are
// owned by lifecycle transitions; accepting them silently would hide audit
// problems, so their presence fails the request outright.
var forbiddenUpdateFields = []string{"status", "customsReferenceNumber", "assessmentSerial"}

// ValidateUpdatePayload rejects raw update payloads that attempt to set
// lifecycle-managed fields
func ValidateUpdatePayload(raw []byte) error {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return shared.WrapDomainError("INVALID_INPUT", "Request body must be a JSON object", err)
	}
	for _, field := range forbiddenUpdateFields {
		if _, ok := payload[field]; ok {
			return shared.NewDomainError("INVALID_INPUT", "Field '"+field+"' cannot be modified through an update")
		}
	}
	return nil
}

// toDomainDetails converts the request details to the domain representation
func (r *DeclarationDetailsRequest) toDomainDetails() declaration.Details {
	return declaration.Details{
		ModelOfDeclaration:    r.ModelOfDeclaration,
		Office:                r.Office,
		ReceiptNumber:         r.ReceiptNumber,
		TotalGrossMass:        r.TotalGrossMass,
		TotalNetMass:          r.TotalNetMass,
		RepresentativeName:    r.RepresentativeName,
		PassportNumber:        r.PassportNumber,
		FirstName:             r.FirstName,
		LastName:              r.LastName,
		PhoneNumber:           r.PhoneNumber,
		Email:                 r.Email,
		Nationality:           r.Nationality,
		Address:               r.Address,
		CountryOfDeparture:    r.CountryOfDeparture,
		MotRegistrationNumber: r.MotRegistrationNumber,
		ModeOfTransport:       declaration.TransportMode(r.ModeOfTransport),
		DepartureDate:         r.DepartureDate,
		ArrivalDate:           r.ArrivalDate,
		ModeOfPayment:         r.ModeOfPayment,
		BankName:              r.BankName,
		BankCode:              r.BankCode,
		BankBranch:            r.BankBranch,
		BankFileNumber:        r.BankFileNumber,
		InvoiceValue:          r.InvoiceValue,
	}
}

// toDomainItems converts the request items to the domain representation
func (r *DeclarationDetailsRequest) toDomainItems() []declaration.Item {
	items := make([]declaration.Item, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, declaration.Item{
			ItemNo:                  item.ItemNo,
			CETCode:                 item.CETCode,
			CETCodeDescription:      item.CETCodeDescription,
			ItemDescription:         item.ItemDescription,
			CountryOfOrigin:         item.CountryOfOrigin,
			PackageNumber:           item.PackageNumber,
			PackageKind:             item.PackageKind,
			GrossMass:               item.GrossMass,
			NetMass:                 item.NetMass,
			ItemValue:               item.ItemValue,
			Levy:                    item.Levy,
			Duty:                    item.Duty,
			VAT:                     item.VAT,
			ETLS:                    item.ETLS,
			CISS:                    item.CISS,
			Surcharge:               item.Surcharge,
			LevyCharge:              item.LevyCharge,
			DutyCharge:              item.DutyCharge,
			VATCharge:               item.VATCharge,
			TotalItemValueWithTaxes: item.TotalItemValueWithTaxes,
			ProcedureCode:           item.ProcedureCode,
			SupplementaryUnit:       item.SupplementaryUnit,
			SupplementaryValue1:     item.SupplementaryValue1,
			SupplementaryValue2:     item.SupplementaryValue2,
		})
	}
	return items
}

// DeclarationItemResponse represents a line item in a response
type DeclarationItemResponse struct {
	ID                      uuid.UUID       `json:"id"`
	ItemNo                  int             `json:"itemNo"`
	CETCode                 string          `json:"cetCode"`
	CETCodeDescription      string          `json:"cetCodeDescription"`
	ItemDescription         string          `json:"itemDescription"`
	CountryOfOrigin         string          `json:"countryOfOrigin"`
	PackageNumber           int             `json:"packageNumber"`
	PackageKind             string          `json:"packageKind"`
	GrossMass               decimal.Decimal `json:"grossMass"`
	NetMass                 decimal.Decimal `json:"netMass"`
	ItemValue               decimal.Decimal `json:"itemValue"`
	DutyCharge              decimal.Decimal `json:"dutyCharge"`
	LevyCharge              decimal.Decimal `json:"levyCharge"`
	VATCharge               decimal.Decimal `json:"vatCharge"`
	Surcharge               decimal.Decimal `json:"surCharge"`
	TotalItemValueWithTaxes decimal.Decimal `json:"totalItemValueWithTaxes"`
}

// StatusChangeResponse represents one lifecycle transition in a response
type StatusChangeResponse struct {
	FromStatus string    `json:"fromStatus,omitempty"`
	ToStatus   string    `json:"toStatus"`
	ChangedBy  uuid.UUID `json:"changedBy"`
	ChangedAt  time.Time `json:"changedAt"`
	Note       string    `json:"note,omitempty"`
}

// SequenceStatusResponse reports the year's reference counter
type SequenceStatusResponse struct {
	Year       int   `json:"year"`
	LastIssued int64 `json:"lastIssued"`
}

// DeclarationResponse represents a declaration in API responses
type DeclarationResponse struct {
	ID                     uuid.UUID                 `json:"id"`
	CustomsReferenceNumber *string                   `json:"customsReferenceNumber,omitempty"`
	AssessmentSerial       *string                   `json:"assessmentSerial,omitempty"`
	Status                 string                    `json:"status"`
	CommandLocationID      uuid.UUID                 `json:"commandLocation"`
	ModelOfDeclaration     string                    `json:"modelOfDeclaration"`
	Office                 string                    `json:"office"`
	RepresentativeName     string                    `json:"representativeName"`
	PassportNumber         string                    `json:"passportNumber"`
	FirstName              string                    `json:"firstName"`
	LastName               string                    `json:"lastName"`
	Nationality            string                    `json:"nationality"`
	Address                string                    `json:"address"`
	CountryOfDeparture     string                    `json:"countryOfDeparture"`
	ModeOfTransport        string                    `json:"modeOfTransport"`
	ModeOfPayment          string                    `json:"modeOfPayment"`
	BankName               string                    `json:"bankName"`
	BankCode               string                    `json:"bankCode"`
	InvoiceValue           decimal.Decimal           `json:"invoiceValue"`
	TotalItems             int                       `json:"totalItems"`
	TotalGrossMass         decimal.Decimal           `json:"totalGrossMass"`
	TotalNetMass           decimal.Decimal           `json:"totalNetMass"`
	Items                  []DeclarationItemResponse `json:"items"`
	StatusHistory          []StatusChangeResponse    `json:"statusHistory,omitempty"`
	CreatedBy              uuid.UUID                 `json:"createdBy"`
	LastModifiedBy         *uuid.UUID                `json:"lastModifiedBy,omitempty"`
	AssessedAt             *time.Time                `json:"assessedAt,omitempty"`
	CreatedAt              time.Time                 `json:"createdAt"`
	UpdatedAt              time.Time                 `json:"updatedAt"`
}

// ToDeclarationResponse converts a domain declaration to its API representation
func ToDeclarationResponse(d *declaration.Declaration) DeclarationResponse {
	items := make([]DeclarationItemResponse, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, DeclarationItemResponse{
			ID:                      item.ID,
			ItemNo:                  item.ItemNo,
			CETCode:                 item.CETCode,
			CETCodeDescription:      item.CETCodeDescription,
			ItemDescription:         item.ItemDescription,
			CountryOfOrigin:         item.CountryOfOrigin,
			PackageNumber:           item.PackageNumber,
			PackageKind:             item.PackageKind,
			GrossMass:               item.GrossMass,
			NetMass:                 item.NetMass,
			ItemValue:               item.ItemValue,
			DutyCharge:              item.DutyCharge,
			LevyCharge:              item.LevyCharge,
			VATCharge:               item.VATCharge,
			Surcharge:               item.Surcharge,
			TotalItemValueWithTaxes: item.TotalItemValueWithTaxes,
		})
	}

	history := make([]StatusChangeResponse, 0, len(d.StatusHistory))
	for _, change := range d.StatusHistory {
		history = append(history, StatusChangeResponse{
			FromStatus: string(change.FromStatus),
			ToStatus:   string(change.ToStatus),
			ChangedBy:  change.ChangedBy,
			ChangedAt:  change.ChangedAt,
			Note:       change.Note,
		})
	}

	return DeclarationResponse{
		ID:                     d.ID,
		CustomsReferenceNumber: d.CustomsReferenceNumber,
		AssessmentSerial:       d.AssessmentSerial,
		Status:                 string(d.Status),
		CommandLocationID:      d.CommandLocationID,
		ModelOfDeclaration:     d.Details.ModelOfDeclaration,
		Office:                 d.Details.Office,
		RepresentativeName:     d.Details.RepresentativeName,
		PassportNumber:         d.Details.PassportNumber,
		FirstName:              d.Details.FirstName,
		LastName:               d.Details.LastName,
		Nationality:            d.Details.Nationality,
		Address:                d.Details.Address,
		CountryOfDeparture:     d.Details.CountryOfDeparture,
		ModeOfTransport:        string(d.Details.ModeOfTransport),
		ModeOfPayment:          d.Details.ModeOfPayment,
		BankName:               d.Details.BankName,
		BankCode:               d.Details.BankCode,
		InvoiceValue:           d.Details.InvoiceValue,
		TotalItems:             d.TotalItems,
		TotalGrossMass:         d.Details.TotalGrossMass,
		TotalNetMass:           d.Details.TotalNetMass,
		Items:                  items,
		StatusHistory:          history,
		CreatedBy:              d.CreatedBy,
		LastModifiedBy:         d.LastModifiedBy,
		AssessedAt:             d.AssessedAt,
		CreatedAt:              d.CreatedAt,
		UpdatedAt:              d.UpdatedAt,
	}
}
