package refdata

import (
	"context"
	"io"
	"strings"

	"github.com/customs/backend/internal/domain/identity"
	"github.com/customs/backend/internal/domain/refdata"
	"github.com/customs/backend/internal/domain/shared"
	csvimport "github.com/customs/backend/internal/infrastructure/import"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Column names expected in uploaded reference files. These match the export
// format of the tariff book and the dealer bank register.
var (
	tariffColumns = []string{"cetCode", "description"}
	bankColumns   = []string{"bankCode", "bankName"}
)

// Field rules applied when a file is validated before import. The rate
// columns are optional because older tariff book exports omit them.
var (
	tariffFieldRules = []csvimport.FieldRule{
		csvimport.Field("cetCode").Required().MaxLength(20).Unique().Build(),
		csvimport.Field("description").Required().MaxLength(500).Build(),
		csvimport.Field("su").Decimal().Build(),
		csvimport.Field("id").Decimal().Build(),
		csvimport.Field("vat").Decimal().Build(),
		csvimport.Field("lvy").Decimal().Build(),
		csvimport.Field("exc").Decimal().Build(),
		csvimport.Field("dov").Decimal().Build(),
	}
	bankFieldRules = []csvimport.FieldRule{
		csvimport.Field("bankCode").Required().MaxLength(20).Unique().Build(),
		csvimport.Field("bankName").Required().MaxLength(200).Build(),
		csvimport.Field("emailAddress").Email().Build(),
	}
)

// ImportResult summarizes a reference data import
type ImportResult struct {
	Imported int   `json:"imported"`
	Replaced int64 `json:"replaced"`
	Skipped  int   `json:"skipped"`
}

// ReferenceDataService manages the tariff and bank lookup tables. Imports
// replace the whole table so the reference data always reflects exactly one
// uploaded file.
type ReferenceDataService struct {
	tariffs refdata.TariffRepository
	banks   refdata.BankRepository
	logger  *zap.Logger
}

// NewReferenceDataService creates a new reference data service
func NewReferenceDataService(tariffs refdata.TariffRepository, banks refdata.BankRepository, logger *zap.Logger) *ReferenceDataService {
	return &ReferenceDataService{
		tariffs: tariffs,
		banks:   banks,
		logger:  logger,
	}
}

// ImportTariffs replaces the tariff table with the rows of the uploaded CSV.
// Rows without a CET code or description are skipped, not fatal.
func (s *ReferenceDataService) ImportTariffs(ctx context.Context, actor identity.Actor, reader io.Reader) (*ImportResult, error) {
	if !actor.Role.IsAdministrative() {
		return nil, shared.NewDomainError("FORBIDDEN", "Administrative role required")
	}

	rows, err := parseRows(reader, tariffColumns)
	if err != nil {
		return nil, err
	}

	tariffs := make([]refdata.Tariff, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		tariff, err := refdata.NewTariff(
			row.Get("cetCode"),
			row.Get("description"),
			row.GetOrDefault("su", "0"),
			row.GetOrDefault("id", "0"),
			row.GetOrDefault("vat", "0"),
			row.GetOrDefault("lvy", "0"),
			row.GetOrDefault("exc", "0"),
			row.GetOrDefault("dov", "0"),
		)
		if err != nil {
			s.logger.Warn("Skipping invalid tariff row",
				zap.Int("line", row.LineNumber),
				zap.Error(err))
			skipped++
			continue
		}
		tariffs = append(tariffs, *tariff)
	}
	if len(tariffs) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "File contains no usable tariff rows")
	}

	replaced, err := s.tariffs.ReplaceAll(ctx, tariffs)
	if err != nil {
		s.logger.Error("Tariff import failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Tariff table replaced",
		zap.Int("imported", len(tariffs)),
		zap.Int64("replaced", replaced),
		zap.Int("skipped", skipped),
		zap.String("imported_by", actor.ServiceNumber))

	return &ImportResult{Imported: len(tariffs), Replaced: replaced, Skipped: skipped}, nil
}

// ImportBanks replaces the bank table with the rows of the uploaded CSV
func (s *ReferenceDataService) ImportBanks(ctx context.Context, actor identity.Actor, reader io.Reader) (*ImportResult, error) {
	if !actor.Role.IsAdministrative() {
		return nil, shared.NewDomainError("FORBIDDEN", "Administrative role required")
	}

	rows, err := parseRows(reader, bankColumns)
	if err != nil {
		return nil, err
	}

	banks := make([]refdata.Bank, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		bank, err := refdata.NewBank(
			row.Get("bankCode"),
			row.Get("bankName"),
			row.Get("bankAddress"),
			row.Get("emailAddress"),
		)
		if err != nil {
			s.logger.Warn("Skipping invalid bank row",
				zap.Int("line", row.LineNumber),
				zap.Error(err))
			skipped++
			continue
		}
		banks = append(banks, *bank)
	}
	if len(banks) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "File contains no usable bank rows")
	}

	replaced, err := s.banks.ReplaceAll(ctx, banks)
	if err != nil {
		s.logger.Error("Bank import failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Bank table replaced",
		zap.Int("imported", len(banks)),
		zap.Int64("replaced", replaced),
		zap.Int("skipped", skipped),
		zap.String("imported_by", actor.ServiceNumber))

	return &ImportResult{Imported: len(banks), Replaced: replaced, Skipped: skipped}, nil
}

// ValidateTariffFile checks an uploaded tariff CSV without touching the
// table. It reports per-row errors and a small preview so the file can be
// reviewed before running the import.
func (s *ReferenceDataService) ValidateTariffFile(ctx context.Context, actor identity.Actor, reader io.Reader) (*csvimport.ValidationResult, error) {
	if !actor.Role.IsAdministrative() {
		return nil, shared.NewDomainError("FORBIDDEN", "Administrative role required")
	}
	return validateFile(reader, tariffColumns, tariffFieldRules)
}

// ValidateBankFile checks an uploaded bank CSV without touching the table
func (s *ReferenceDataService) ValidateBankFile(ctx context.Context, actor identity.Actor, reader io.Reader) (*csvimport.ValidationResult, error) {
	if !actor.Role.IsAdministrative() {
		return nil, shared.NewDomainError("FORBIDDEN", "Administrative role required")
	}
	return validateFile(reader, bankColumns, bankFieldRules)
}

// SearchTariffs looks up tariff rows by CET code or description prefix.
// Results are capped so autocomplete queries stay small.
func (s *ReferenceDataService) SearchTariffs(ctx context.Context, query string) ([]refdata.Tariff, error) {
	if query == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Search query cannot be empty")
	}
	return s.tariffs.Search(ctx, query)
}

// SearchBanks looks up bank rows by code or name
func (s *ReferenceDataService) SearchBanks(ctx context.Context, query string) ([]refdata.Bank, error) {
	if query == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Search query cannot be empty")
	}
	return s.banks.Search(ctx, query)
}

// TariffCount returns the number of tariff rows currently loaded
func (s *ReferenceDataService) TariffCount(ctx context.Context) (int64, error) {
	return s.tariffs.Count(ctx)
}

// BankCount returns the number of bank rows currently loaded
func (s *ReferenceDataService) BankCount(ctx context.Context) (int64, error) {
	return s.banks.Count(ctx)
}

// parseRows parses the upload and checks the required columns are present
func parseRows(reader io.Reader, required []string) ([]*csvimport.Row, error) {
	parser, err := csvimport.NewCSVParser(reader)
	if err != nil {
		return nil, shared.WrapDomainError("INVALID_INPUT", "Could not parse uploaded file", err)
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, shared.WrapDomainError("INVALID_INPUT", "Could not read file header", err)
	}
	if missing := parser.ValidateHeaders(required); len(missing) > 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "File is missing required columns: "+strings.Join(missing, ", "))
	}

	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, shared.WrapDomainError("INVALID_INPUT", "Could not read file rows", err)
	}
	return rows, nil
}

// validateFile runs field validation over every row and collects the result
func validateFile(reader io.Reader, required []string, rules []csvimport.FieldRule) (*csvimport.ValidationResult, error) {
	parser, err := csvimport.NewCSVParser(reader)
	if err != nil {
		return nil, shared.WrapDomainError("INVALID_INPUT", "Could not parse uploaded file", err)
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, shared.WrapDomainError("INVALID_INPUT", "Could not read file header", err)
	}
	if missing := parser.ValidateHeaders(required); len(missing) > 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "File is missing required columns: "+strings.Join(missing, ", "))
	}

	validator := csvimport.NewFieldValidator(rules, 100)
	result := csvimport.NewValidationResult(uuid.New().String())

	total, valid, errored := 0, 0, 0
	for {
		row, err := parser.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			validator.Errors().Add(csvimport.NewRowError(parser.CurrentRow(), "", csvimport.ErrCodeImportCSVParsing, err.Error()))
			errored++
			continue
		}
		if row.IsEmpty() {
			continue
		}
		total++
		if validator.ValidateRow(row) {
			valid++
			preview := make(map[string]any, len(row.Data))
			for k, v := range row.Data {
				preview[k] = v
			}
			result.AddPreview(preview)
		} else {
			errored++
		}
	}

	result.SetCounts(total, valid, errored)
	result.SetErrors(validator.Errors())
	return result, nil
}
