package declaration

import (
	"fmt"
	"time"

	"github.com/customs/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeclarationStatus represents the lifecycle status of a declaration
type DeclarationStatus string

const (
	StatusStored    DeclarationStatus = "STORED"
	StatusAssessed  DeclarationStatus = "ASSESSED"
	StatusPaid      DeclarationStatus = "PAID"
	StatusCancelled DeclarationStatus = "CANCELLED"
	StatusCleared   DeclarationStatus = "CLEARED"
)

// IsValid checks if the status is a valid DeclarationStatus
func (s DeclarationStatus) IsValid() bool {
	switch s {
	case StatusStored, StatusAssessed, StatusPaid, StatusCancelled, StatusCleared:
		return true
	}
	return false
}

// String returns the string representation of DeclarationStatus
func (s DeclarationStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s DeclarationStatus) CanTransitionTo(target DeclarationStatus) bool {
	switch s {
	case StatusStored:
		return target == StatusAssessed || target == StatusCancelled
	case StatusAssessed:
		return target == StatusPaid || target == StatusCancelled
	case StatusPaid:
		return target == StatusCleared
	case StatusCancelled, StatusCleared:
		return false // Terminal states
	}
	return false
}

// TransportMode represents the mode of transport for a declaration
type TransportMode string

const (
	TransportAir  TransportMode = "AIR"
	TransportLand TransportMode = "LAND"
	TransportSea  TransportMode = "SEA"
)

// IsValid checks if the transport mode is valid
func (m TransportMode) IsValid() bool {
	switch m {
	case TransportAir, TransportLand, TransportSea:
		return true
	}
	return false
}

// String returns the string representation of TransportMode
func (m TransportMode) String() string {
	return string(m)
}

// PaymentMethod represents how duty on a declaration was paid
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentCard         PaymentMethod = "CARD"
	PaymentBankTransfer PaymentMethod = "BANK-TRANSFER"
	PaymentOther        PaymentMethod = "OTHERS"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentBankTransfer, PaymentOther:
		return true
	}
	return false
}

// Item represents a line item on a declaration
type Item struct {
	ID                      uuid.UUID
	DeclarationID           uuid.UUID
	ItemNo                  int
	CETCode                 string
	CETCodeDescription      string
	ItemDescription         string
	CountryOfOrigin         string
	PackageNumber           int
	PackageKind             string
	GrossMass               decimal.Decimal
	NetMass                 decimal.Decimal
	ItemValue               decimal.Decimal
	Levy                    decimal.Decimal
	Duty                    decimal.Decimal
	VAT                     decimal.Decimal
	ETLS                    decimal.Decimal
	CISS                    decimal.Decimal
	Surcharge               decimal.Decimal
	LevyCharge              decimal.Decimal
	DutyCharge              decimal.Decimal
	VATCharge               decimal.Decimal
	TotalItemValueWithTaxes decimal.Decimal
	ProcedureCode           string
	SupplementaryUnit       string
	SupplementaryValue1     string
	SupplementaryValue2     string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Validate checks the required fields of a line item
func (i *Item) Validate() error {
	if i.ItemNo < 1 {
		return shared.NewDomainError("INVALID_ITEM_NO", "Item number must be at least 1")
	}
	if i.CETCode == "" {
		return shared.NewDomainError("INVALID_CET_CODE", "CET code cannot be empty")
	}
	if i.CETCodeDescription == "" {
		return shared.NewDomainError("INVALID_CET_CODE", "CET code description cannot be empty")
	}
	if i.ItemDescription == "" {
		return shared.NewDomainError("INVALID_ITEM_DESCRIPTION", "Item description cannot be empty")
	}
	if i.CountryOfOrigin == "" {
		return shared.NewDomainError("INVALID_COUNTRY_OF_ORIGIN", "Country of origin cannot be empty")
	}
	if i.PackageNumber < 1 {
		return shared.NewDomainError("INVALID_PACKAGE_NUMBER", "Package number must be at least 1")
	}
	if i.PackageKind == "" {
		return shared.NewDomainError("INVALID_PACKAGE_KIND", "Package kind cannot be empty")
	}
	if i.GrossMass.IsNegative() {
		return shared.NewDomainError("INVALID_GROSS_MASS", "Gross mass cannot be negative")
	}
	if i.NetMass.IsNegative() {
		return shared.NewDomainError("INVALID_NET_MASS", "Net mass cannot be negative")
	}
	if i.ItemValue.IsNegative() {
		return shared.NewDomainError("INVALID_ITEM_VALUE", "Item value cannot be negative")
	}
	return nil
}

// StatusChange records one lifecycle transition of a declaration
type StatusChange struct {
	ID            uuid.UUID
	DeclarationID uuid.UUID
	FromStatus    DeclarationStatus
	ToStatus      DeclarationStatus
	ChangedBy     uuid.UUID
	ChangedAt     time.Time
	Note          string
}

// PaymentDetails holds duty payment information recorded after assessment
type PaymentDetails struct {
	AmountPaid           decimal.Decimal
	PaymentDate          *time.Time
	PaymentMethod        PaymentMethod
	TransactionReference string
}

// ClearanceDetails holds goods clearance information
type ClearanceDetails struct {
	ExitPassNumber string
	ClearanceDate  *time.Time
	ClearedBy      *uuid.UUID
}

// CancellationDetails holds the audit trail of a cancellation
type CancellationDetails struct {
	Reason           string
	CancelledBy      *uuid.UUID
	CancellationDate *time.Time
}

// Details carries the amendable content fields of a declaration. Reference
// numbers, status, and command location are deliberately absent: they are
// managed by lifecycle transitions, never by content updates.
type Details struct {
	ModelOfDeclaration    string
	Office                string
	ReceiptNumber         string
	TotalGrossMass        decimal.Decimal
	TotalNetMass          decimal.Decimal
	RepresentativeName    string
	PassportNumber        string
	FirstName             string
	LastName              string
	PhoneNumber           string
	Email                 string
	Nationality           string
	Address               string
	CountryOfDeparture    string
	MotRegistrationNumber string
	ModeOfTransport       TransportMode
	DepartureDate         *time.Time
	ArrivalDate           *time.Time
	ModeOfPayment         string
	BankName              string
	BankCode              string
	BankBranch            string
	BankFileNumber        string
	InvoiceValue          decimal.Decimal
}

// Validate checks the required header, party, transport, and financial fields
func (d *Details) Validate() error {
	if d.ModelOfDeclaration == "" {
		return shared.NewDomainError("INVALID_MODEL", "Model of declaration cannot be empty")
	}
	if d.Office == "" {
		return shared.NewDomainError("INVALID_OFFICE", "Office cannot be empty")
	}
	if d.RepresentativeName == "" {
		return shared.NewDomainError("INVALID_REPRESENTATIVE", "Representative name cannot be empty")
	}
	if d.PassportNumber == "" {
		return shared.NewDomainError("INVALID_PASSPORT", "Passport number cannot be empty")
	}
	if d.FirstName == "" || d.LastName == "" {
		return shared.NewDomainError("INVALID_NAME", "First name and last name cannot be empty")
	}
	if d.Nationality == "" {
		return shared.NewDomainError("INVALID_NATIONALITY", "Nationality cannot be empty")
	}
	if d.Address == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot be empty")
	}
	if d.CountryOfDeparture == "" {
		return shared.NewDomainError("INVALID_COUNTRY_OF_DEPARTURE", "Country of departure cannot be empty")
	}
	if len(d.MotRegistrationNumber) < 5 {
		return shared.NewDomainError("INVALID_MOT_REGISTRATION", "Transport registration number must be at least 5 characters")
	}
	if !d.ModeOfTransport.IsValid() {
		return shared.NewDomainError("INVALID_TRANSPORT_MODE", fmt.Sprintf("Invalid mode of transport: %s", d.ModeOfTransport))
	}
	if d.ModeOfPayment == "" {
		return shared.NewDomainError("INVALID_MODE_OF_PAYMENT", "Mode of payment cannot be empty")
	}
	if d.BankName == "" || d.BankCode == "" || d.BankBranch == "" {
		return shared.NewDomainError("INVALID_BANK", "Bank name, code and branch cannot be empty")
	}
	if d.TotalGrossMass.IsNegative() || d.TotalNetMass.IsNegative() {
		return shared.NewDomainError("INVALID_MASS", "Total mass cannot be negative")
	}
	if d.InvoiceValue.IsNegative() {
		return shared.NewDomainError("INVALID_INVOICE_VALUE", "Invoice value cannot be negative")
	}
	return nil
}

// Declaration represents a customs declaration aggregate root.
// It owns the reference-number pair and the lifecycle status; both are
// assigned through explicit transitions and are immutable once set.
type Declaration struct {
	shared.AuditedAggregateRoot
	CustomsReferenceNumber *string
	AssessmentSerial       *string
	Status                 DeclarationStatus
	CommandLocationID      uuid.UUID
	Details                Details
	Items                  []Item
	TotalItems             int
	AssessedAt             *time.Time
	AssessedBy             *uuid.UUID
	Payment                PaymentDetails
	Clearance              ClearanceDetails
	Cancellation           CancellationDetails
	StatusHistory          []StatusChange
}

// NewDeclaration creates a new declaration in STORED status.
// Reference numbers are not assigned here; they are acquired when the
// declaration is assessed.
func NewDeclaration(createdBy, commandLocationID uuid.UUID, details Details, items []Item) (*Declaration, error) {
	if createdBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CREATOR", "Creator ID cannot be empty")
	}
	if commandLocationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMMAND_LOCATION", "Command location cannot be empty")
	}
	if err := details.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Declaration must have at least one item")
	}

	d := &Declaration{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		Status:               StatusStored,
		CommandLocationID:    commandLocationID,
		Details:              details,
		Items:                make([]Item, 0, len(items)),
		TotalItems:           len(items),
	}

	now := time.Now()
	for idx := range items {
		item := items[idx]
		if err := item.Validate(); err != nil {
			return nil, err
		}
		item.ID = uuid.New()
		item.DeclarationID = d.ID
		item.CreatedAt = now
		item.UpdatedAt = now
		d.Items = append(d.Items, item)
	}

	d.appendHistory("", StatusStored, createdBy, "Declaration created")
	d.AddDomainEvent(NewDeclarationCreatedEvent(d))

	return d, nil
}

// Assess transitions the declaration from STORED to ASSESSED, binding the
// reference pair. The pair must have been checked for uniqueness and is
// persisted atomically with the status change by the caller.
func (d *Declaration) Assess(by uuid.UUID, pair ReferencePair) error {
	if !d.Status.CanTransitionTo(StatusAssessed) {
		return shared.WrapDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot assess declaration in %s status", d.Status), shared.ErrInvalidTransition)
	}
	if d.CustomsReferenceNumber != nil || d.AssessmentSerial != nil {
		return shared.NewDomainError("REFERENCE_ALREADY_ASSIGNED", "Declaration already carries a reference pair")
	}
	if pair.CustomsReferenceNumber == "" || pair.AssessmentSerial == "" {
		return ErrInvalidReferenceFormat
	}

	now := time.Now()
	d.CustomsReferenceNumber = &pair.CustomsReferenceNumber
	d.AssessmentSerial = &pair.AssessmentSerial
	d.Status = StatusAssessed
	d.AssessedAt = &now
	d.AssessedBy = &by
	d.Touch(by)
	d.UpdatedAt = now

	d.appendHistory(StatusStored, StatusAssessed, by, "Declaration assessed")
	d.AddDomainEvent(NewDeclarationAssessedEvent(d))

	return nil
}

// RevertAssessment undoes an assessment whose persist lost the unique-index
// race, returning the declaration to STORED so a retry can bind a fresh
// reference pair. The history record and event appended by Assess are
// discarded with it; without that, a declaration that succeeds on retry
// would carry a duplicated STORED to ASSESSED history row and publish the
// assessed event twice.
func (d *Declaration) RevertAssessment() {
	if d.Status != StatusAssessed {
		return
	}

	d.CustomsReferenceNumber = nil
	d.AssessmentSerial = nil
	d.AssessedAt = nil
	d.AssessedBy = nil
	d.Status = StatusStored

	if n := len(d.StatusHistory); n > 0 && d.StatusHistory[n-1].ToStatus == StatusAssessed {
		d.StatusHistory = d.StatusHistory[:n-1]
	}
	d.DropLastDomainEvent()
}

// Cancel transitions the declaration to CANCELLED.
// Allowed only from STORED or ASSESSED status.
func (d *Declaration) Cancel(by uuid.UUID, reason string) error {
	if !d.Status.CanTransitionTo(StatusCancelled) {
		return shared.WrapDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot cancel declaration in %s status", d.Status), shared.ErrInvalidTransition)
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancellation reason is required")
	}

	from := d.Status
	now := time.Now()
	d.Status = StatusCancelled
	d.Cancellation = CancellationDetails{
		Reason:           reason,
		CancelledBy:      &by,
		CancellationDate: &now,
	}
	d.Touch(by)
	d.UpdatedAt = now

	d.appendHistory(from, StatusCancelled, by, reason)
	d.AddDomainEvent(NewDeclarationCancelledEvent(d, from))

	return nil
}

// Amend replaces the declaration's content fields without changing its
// status or reference numbers. Allowed while STORED or ASSESSED.
func (d *Declaration) Amend(by uuid.UUID, details Details, items []Item) error {
	if d.Status != StatusStored && d.Status != StatusAssessed {
		return shared.WrapDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot amend declaration in %s status", d.Status), shared.ErrInvalidTransition)
	}
	if err := details.Validate(); err != nil {
		return err
	}
	if len(items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Declaration must have at least one item")
	}

	now := time.Now()
	amended := make([]Item, 0, len(items))
	for idx := range items {
		item := items[idx]
		if err := item.Validate(); err != nil {
			return err
		}
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
			item.CreatedAt = now
		}
		item.DeclarationID = d.ID
		item.UpdatedAt = now
		amended = append(amended, item)
	}

	d.Details = details
	d.Items = amended
	d.TotalItems = len(amended)
	d.Touch(by)
	d.UpdatedAt = now

	d.AddDomainEvent(NewDeclarationAmendedEvent(d))

	return nil
}

// RecordPayment stores payment details and moves the declaration to PAID
func (d *Declaration) RecordPayment(by uuid.UUID, payment PaymentDetails) error {
	if !d.Status.CanTransitionTo(StatusPaid) {
		return shared.WrapDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot record payment for declaration in %s status", d.Status), shared.ErrInvalidTransition)
	}
	if payment.AmountPaid.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount paid must be positive")
	}
	if !payment.PaymentMethod.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Invalid payment method")
	}

	from := d.Status
	now := time.Now()
	if payment.PaymentDate == nil {
		payment.PaymentDate = &now
	}
	d.Payment = payment
	d.Status = StatusPaid
	d.Touch(by)
	d.UpdatedAt = now

	d.appendHistory(from, StatusPaid, by, "Payment recorded")

	return nil
}

// Clear stores clearance details and moves the declaration to CLEARED
func (d *Declaration) Clear(by uuid.UUID, exitPassNumber string) error {
	if !d.Status.CanTransitionTo(StatusCleared) {
		return shared.WrapDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot clear declaration in %s status", d.Status), shared.ErrInvalidTransition)
	}
	if exitPassNumber == "" {
		return shared.NewDomainError("INVALID_EXIT_PASS", "Exit pass number is required")
	}

	from := d.Status
	now := time.Now()
	d.Clearance = ClearanceDetails{
		ExitPassNumber: exitPassNumber,
		ClearanceDate:  &now,
		ClearedBy:      &by,
	}
	d.Status = StatusCleared
	d.Touch(by)
	d.UpdatedAt = now

	d.appendHistory(from, StatusCleared, by, "Goods cleared")

	return nil
}

// HasReferencePair returns true if both reference numbers are assigned
func (d *Declaration) HasReferencePair() bool {
	return d.CustomsReferenceNumber != nil && d.AssessmentSerial != nil
}

// IsStored returns true if the declaration is in STORED status
func (d *Declaration) IsStored() bool {
	return d.Status == StatusStored
}

// IsAssessed returns true if the declaration is in ASSESSED status
func (d *Declaration) IsAssessed() bool {
	return d.Status == StatusAssessed
}

// IsCancelled returns true if the declaration is cancelled
func (d *Declaration) IsCancelled() bool {
	return d.Status == StatusCancelled
}

// IsTerminal returns true if the declaration is in a terminal state
func (d *Declaration) IsTerminal() bool {
	return d.Status == StatusCancelled || d.Status == StatusCleared
}

// ItemCount returns the number of line items
func (d *Declaration) ItemCount() int {
	return len(d.Items)
}

// TotalTaxes returns the sum of all item tax charges
func (d *Declaration) TotalTaxes() decimal.Decimal {
	total := decimal.Zero
	for _, item := range d.Items {
		total = total.Add(item.DutyCharge).Add(item.LevyCharge).Add(item.VATCharge).Add(item.Surcharge)
	}
	return total
}

func (d *Declaration) appendHistory(from, to DeclarationStatus, by uuid.UUID, note string) {
	d.StatusHistory = append(d.StatusHistory, StatusChange{
		ID:            uuid.New(),
		DeclarationID: d.ID,
		FromStatus:    from,
		ToStatus:      to,
		ChangedBy:     by,
		ChangedAt:     time.Now(),
		Note:          note,
	})
}
