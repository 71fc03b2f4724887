package declaration

import (
	"testing"

	"github.com/customs/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func testDetails() Details {
	return Details{
		ModelOfDeclaration:    "IM4",
		Office:                "NGLOS",
		TotalGrossMass:        decimal.NewFromInt(120),
		TotalNetMass:          decimal.NewFromInt(100),
		RepresentativeName:    "Ade Balogun",
		PassportNumber:        "A01234567",
		FirstName:             "Chidi",
		LastName:              "Okafor",
		Nationality:           "Nigerian",
		Address:               "12 Marina Road, Lagos",
		CountryOfDeparture:    "GB",
		MotRegistrationNumber: "NG-4521",
		ModeOfTransport:       TransportAir,
		ModeOfPayment:         "BANK",
		BankName:              "First Bank",
		BankCode:              "011",
		BankBranch:            "Marina",
		InvoiceValue:          decimal.NewFromInt(50000),
	}
}

func testItems() []Item {
	return []Item{
		{
			ItemNo:             1,
			CETCode:            "8703.23.19",
			CETCodeDescription: "Motor vehicles",
			ItemDescription:    "Used sedan",
			CountryOfOrigin:    "DE",
			PackageNumber:      1,
			PackageKind:        "UNIT",
			GrossMass:          decimal.NewFromInt(1500),
			NetMass:            decimal.NewFromInt(1450),
			ItemValue:          decimal.NewFromInt(50000),
			DutyCharge:         decimal.NewFromInt(10000),
			VATCharge:          decimal.NewFromInt(3750),
		},
	}
}

func createTestDeclaration(t *testing.T) *Declaration {
	d, err := NewDeclaration(uuid.New(), uuid.New(), testDetails(), testItems())
	require.NoError(t, err)
	return d
}

// ============================================
// DeclarationStatus Tests
// ============================================

func TestDeclarationStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  DeclarationStatus
		isValid bool
	}{
		{StatusStored, true},
		{StatusAssessed, true},
		{StatusPaid, true},
		{StatusCancelled, true},
		{StatusCleared, true},
		{DeclarationStatus("SEIZED"), false},
		{DeclarationStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestDeclarationStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     DeclarationStatus
		to       DeclarationStatus
		canTrans bool
	}{
		// From STORED
		{StatusStored, StatusAssessed, true},
		{StatusStored, StatusCancelled, true},
		{StatusStored, StatusPaid, false},
		{StatusStored, StatusCleared, false},
		// From ASSESSED
		{StatusAssessed, StatusPaid, true},
		{StatusAssessed, StatusCancelled, true},
		{StatusAssessed, StatusStored, false},
		{StatusAssessed, StatusAssessed, false},
		// From PAID
		{StatusPaid, StatusCleared, true},
		{StatusPaid, StatusCancelled, false},
		// Terminal states
		{StatusCancelled, StatusStored, false},
		{StatusCancelled, StatusAssessed, false},
		{StatusCleared, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

// ============================================
// NewDeclaration Tests
// ============================================

func TestNewDeclaration(t *testing.T) {
	createdBy := uuid.New()
	locationID := uuid.New()

	d, err := NewDeclaration(createdBy, locationID, testDetails(), testItems())
	require.NoError(t, err)

	assert.Equal(t, StatusStored, d.Status)
	assert.Equal(t, createdBy, d.CreatedBy)
	assert.Equal(t, locationID, d.CommandLocationID)
	assert.Nil(t, d.CustomsReferenceNumber)
	assert.Nil(t, d.AssessmentSerial)
	assert.False(t, d.HasReferencePair())
	assert.Equal(t, 1, d.TotalItems)
	assert.NotEqual(t, uuid.Nil, d.Items[0].ID)
	assert.Equal(t, d.ID, d.Items[0].DeclarationID)

	require.Len(t, d.StatusHistory, 1)
	assert.Equal(t, StatusStored, d.StatusHistory[0].ToStatus)

	events := d.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeDeclarationCreated, events[0].EventType())
}

func TestNewDeclaration_ValidationFailures(t *testing.T) {
	valid := testDetails()

	tests := []struct {
		name   string
		mutate func(*Details)
	}{
		{"missing model", func(d *Details) { d.ModelOfDeclaration = "" }},
		{"missing office", func(d *Details) { d.Office = "" }},
		{"missing representative", func(d *Details) { d.RepresentativeName = "" }},
		{"missing passport", func(d *Details) { d.PassportNumber = "" }},
		{"missing first name", func(d *Details) { d.FirstName = "" }},
		{"missing nationality", func(d *Details) { d.Nationality = "" }},
		{"missing address", func(d *Details) { d.Address = "" }},
		{"short mot registration", func(d *Details) { d.MotRegistrationNumber = "AB12" }},
		{"invalid transport mode", func(d *Details) { d.ModeOfTransport = "RAIL" }},
		{"missing bank code", func(d *Details) { d.BankCode = "" }},
		{"negative invoice value", func(d *Details) { d.InvoiceValue = decimal.NewFromInt(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := valid
			tt.mutate(&details)
			_, err := NewDeclaration(uuid.New(), uuid.New(), details, testItems())
			assert.Error(t, err)
		})
	}
}

func TestNewDeclaration_RequiresItems(t *testing.T) {
	_, err := NewDeclaration(uuid.New(), uuid.New(), testDetails(), nil)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NO_ITEMS", domainErr.Code)
}

func TestNewDeclaration_InvalidItem(t *testing.T) {
	items := testItems()
	items[0].CETCode = ""

	_, err := NewDeclaration(uuid.New(), uuid.New(), testDetails(), items)
	assert.Error(t, err)
}

// ============================================
// Assess Tests
// ============================================

func TestDeclaration_Assess(t *testing.T) {
	d := createTestDeclaration(t)
	assessor := uuid.New()
	pair, err := NewReferencePair(1, 2024)
	require.NoError(t, err)

	err = d.Assess(assessor, pair)
	require.NoError(t, err)

	assert.Equal(t, StatusAssessed, d.Status)
	require.NotNil(t, d.CustomsReferenceNumber)
	require.NotNil(t, d.AssessmentSerial)
	assert.Equal(t, "P12024", *d.CustomsReferenceNumber)
	assert.Equal(t, "L12024", *d.AssessmentSerial)
	assert.True(t, d.HasReferencePair())
	require.NotNil(t, d.AssessedBy)
	assert.Equal(t, assessor, *d.AssessedBy)
	assert.NotNil(t, d.AssessedAt)

	require.Len(t, d.StatusHistory, 2)
	assert.Equal(t, StatusStored, d.StatusHistory[1].FromStatus)
	assert.Equal(t, StatusAssessed, d.StatusHistory[1].ToStatus)
}

func TestDeclaration_Assess_OnlyOnce(t *testing.T) {
	d := createTestDeclaration(t)
	pair, _ := NewReferencePair(1, 2024)
	require.NoError(t, d.Assess(uuid.New(), pair))

	second, _ := NewReferencePair(2, 2024)
	err := d.Assess(uuid.New(), second)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)

	// The original pair must be untouched
	assert.Equal(t, "P12024", *d.CustomsReferenceNumber)
	assert.Equal(t, "L12024", *d.AssessmentSerial)
}

func TestDeclaration_Assess_CancelledFails(t *testing.T) {
	d := createTestDeclaration(t)
	require.NoError(t, d.Cancel(uuid.New(), "entered in error"))

	pair, _ := NewReferencePair(1, 2024)
	err := d.Assess(uuid.New(), pair)
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)
}

func TestDeclaration_Assess_EmptyPair(t *testing.T) {
	d := createTestDeclaration(t)
	err := d.Assess(uuid.New(), ReferencePair{})
	assert.ErrorIs(t, err, ErrInvalidReferenceFormat)
}

func TestDeclaration_RevertAssessment(t *testing.T) {
	d := createTestDeclaration(t)
	assessor := uuid.New()
	pair, _ := NewReferencePair(5, 2024)
	require.NoError(t, d.Assess(assessor, pair))

	d.RevertAssessment()

	assert.Equal(t, StatusStored, d.Status)
	assert.Nil(t, d.CustomsReferenceNumber)
	assert.Nil(t, d.AssessmentSerial)
	assert.Nil(t, d.AssessedAt)
	assert.Nil(t, d.AssessedBy)

	// The history row and event appended by Assess are gone, so a second
	// Assess leaves exactly one of each
	require.Len(t, d.StatusHistory, 1)
	assert.Equal(t, StatusStored, d.StatusHistory[0].ToStatus)

	second, _ := NewReferencePair(6, 2024)
	require.NoError(t, d.Assess(assessor, second))

	require.Len(t, d.StatusHistory, 2)
	assessedEvents := 0
	for _, event := range d.GetDomainEvents() {
		if event.EventType() == EventTypeDeclarationAssessed {
			assessedEvents++
		}
	}
	assert.Equal(t, 1, assessedEvents)
	assert.Equal(t, "P62024", *d.CustomsReferenceNumber)
}

func TestDeclaration_RevertAssessment_StoredNoop(t *testing.T) {
	d := createTestDeclaration(t)

	d.RevertAssessment()

	assert.Equal(t, StatusStored, d.Status)
	require.Len(t, d.StatusHistory, 1)
	assert.Len(t, d.GetDomainEvents(), 1, "the created event stays pending")
}

// ============================================
// Cancel Tests
// ============================================

func TestDeclaration_Cancel_FromStored(t *testing.T) {
	d := createTestDeclaration(t)
	officer := uuid.New()

	err := d.Cancel(officer, "duplicate entry")
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, d.Status)
	assert.Equal(t, "duplicate entry", d.Cancellation.Reason)
	require.NotNil(t, d.Cancellation.CancelledBy)
	assert.Equal(t, officer, *d.Cancellation.CancelledBy)
	assert.NotNil(t, d.Cancellation.CancellationDate)
}

func TestDeclaration_Cancel_FromAssessed(t *testing.T) {
	d := createTestDeclaration(t)
	pair, _ := NewReferencePair(3, 2024)
	require.NoError(t, d.Assess(uuid.New(), pair))

	err := d.Cancel(uuid.New(), "importer withdrew")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, d.Status)

	// Reference pair survives cancellation
	assert.Equal(t, "P32024", *d.CustomsReferenceNumber)
}

func TestDeclaration_Cancel_AlreadyCancelled(t *testing.T) {
	d := createTestDeclaration(t)
	require.NoError(t, d.Cancel(uuid.New(), "first"))

	err := d.Cancel(uuid.New(), "second")
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)
}

func TestDeclaration_Cancel_RequiresReason(t *testing.T) {
	d := createTestDeclaration(t)
	err := d.Cancel(uuid.New(), "")
	assert.Error(t, err)
	assert.Equal(t, StatusStored, d.Status)
}

// ============================================
// Amend Tests
// ============================================

func TestDeclaration_Amend_WhileStored(t *testing.T) {
	d := createTestDeclaration(t)
	editor := uuid.New()

	details := testDetails()
	details.Address = "45 Broad Street, Lagos"
	items := testItems()
	items = append(items, Item{
		ItemNo:             2,
		CETCode:            "8528.72.00",
		CETCodeDescription: "Reception apparatus",
		ItemDescription:    "Television set",
		CountryOfOrigin:    "KR",
		PackageNumber:      2,
		PackageKind:        "CARTON",
		GrossMass:          decimal.NewFromInt(40),
	})

	err := d.Amend(editor, details, items)
	require.NoError(t, err)

	assert.Equal(t, "45 Broad Street, Lagos", d.Details.Address)
	assert.Equal(t, 2, d.TotalItems)
	assert.Equal(t, StatusStored, d.Status)
	require.NotNil(t, d.LastModifiedBy)
	assert.Equal(t, editor, *d.LastModifiedBy)
}

func TestDeclaration_Amend_WhileAssessed_KeepsReferences(t *testing.T) {
	d := createTestDeclaration(t)
	pair, _ := NewReferencePair(9, 2024)
	require.NoError(t, d.Assess(uuid.New(), pair))

	err := d.Amend(uuid.New(), testDetails(), testItems())
	require.NoError(t, err)

	assert.Equal(t, StatusAssessed, d.Status)
	assert.Equal(t, "P92024", *d.CustomsReferenceNumber)
	assert.Equal(t, "L92024", *d.AssessmentSerial)
}

func TestDeclaration_Amend_CancelledFails(t *testing.T) {
	d := createTestDeclaration(t)
	require.NoError(t, d.Cancel(uuid.New(), "withdrawn"))

	err := d.Amend(uuid.New(), testDetails(), testItems())
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)
}

// ============================================
// Payment and Clearance Tests
// ============================================

func TestDeclaration_RecordPayment(t *testing.T) {
	d := createTestDeclaration(t)
	pair, _ := NewReferencePair(5, 2024)
	require.NoError(t, d.Assess(uuid.New(), pair))

	err := d.RecordPayment(uuid.New(), PaymentDetails{
		AmountPaid:           decimal.NewFromInt(13750),
		PaymentMethod:        PaymentBankTransfer,
		TransactionReference: "TXN-0001",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPaid, d.Status)
	assert.NotNil(t, d.Payment.PaymentDate)
}

func TestDeclaration_RecordPayment_StoredFails(t *testing.T) {
	d := createTestDeclaration(t)
	err := d.RecordPayment(uuid.New(), PaymentDetails{
		AmountPaid:    decimal.NewFromInt(100),
		PaymentMethod: PaymentCash,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)
}

func TestDeclaration_Clear(t *testing.T) {
	d := createTestDeclaration(t)
	pair, _ := NewReferencePair(5, 2024)
	require.NoError(t, d.Assess(uuid.New(), pair))
	require.NoError(t, d.RecordPayment(uuid.New(), PaymentDetails{
		AmountPaid:    decimal.NewFromInt(13750),
		PaymentMethod: PaymentCard,
	}))

	err := d.Clear(uuid.New(), "EXIT-778")
	require.NoError(t, err)
	assert.Equal(t, StatusCleared, d.Status)
	assert.True(t, d.IsTerminal())
}

// ============================================
// VisibilityScope Tests
// ============================================

func TestVisibilityScope_Allows(t *testing.T) {
	creator := uuid.New()
	locationID := uuid.New()
	d, err := NewDeclaration(creator, locationID, testDetails(), testItems())
	require.NoError(t, err)

	assert.True(t, Unrestricted().Allows(d))
	assert.True(t, ScopedToCreator(creator).Allows(d))
	assert.False(t, ScopedToCreator(uuid.New()).Allows(d))
	assert.True(t, ScopedToLocation(locationID).Allows(d))
	assert.False(t, ScopedToLocation(uuid.New()).Allows(d))
}
