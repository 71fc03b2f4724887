package csvimport

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tariffRow(line int, cetCode, description, vat string) *Row {
	return &Row{
		LineNumber: line,
		Data:       map[string]string{"cetCode": cetCode, "description": description, "vat": vat},
	}
}

func TestFieldRuleBuilder(t *testing.T) {
	t.Run("tariff rate rule", func(t *testing.T) {
		minVal := decimal.NewFromInt(0)
		maxVal := decimal.NewFromInt(100)

		rule := Field("vat").
			Required().
			Decimal().
			MinValue(minVal).
			MaxValue(maxVal).
			Build()

		assert.Equal(t, "vat", rule.Column)
		assert.True(t, rule.Required)
		assert.Equal(t, TypeDecimal, rule.Type)
		assert.Equal(t, &minVal, rule.MinValue)
		assert.Equal(t, &maxVal, rule.MaxValue)
		assert.False(t, rule.Unique)
	})

	t.Run("code rule with length and uniqueness", func(t *testing.T) {
		rule := Field("cetCode").
			Required().
			MinLength(4).
			MaxLength(20).
			Unique().
			Build()

		assert.Equal(t, TypeString, rule.Type)
		assert.Equal(t, 4, rule.MinLength)
		assert.Equal(t, 20, rule.MaxLength)
		assert.True(t, rule.Unique)
	})

	t.Run("pattern rule", func(t *testing.T) {
		rule := Field("bankCode").
			Pattern(`^\d{3}$`, "three digit bank code").
			Build()

		assert.NotNil(t, rule.Pattern)
		assert.Equal(t, "three digit bank code", rule.PatternDesc)
	})

	t.Run("date rule with custom layout", func(t *testing.T) {
		rule := Field("effectiveDate").
			Date().
			DateFormat("02/01/2006").
			Build()

		assert.Equal(t, TypeDate, rule.Type)
		assert.Equal(t, "02/01/2006", rule.DateFormat)
	})

	t.Run("type setters", func(t *testing.T) {
		assert.Equal(t, TypeString, Field("f").Build().Type)
		assert.Equal(t, TypeInt, Field("f").Int().Build().Type)
		assert.Equal(t, TypeDecimal, Field("f").Decimal().Build().Type)
		assert.Equal(t, TypeDate, Field("f").Date().Build().Type)
		assert.Equal(t, TypeEmail, Field("f").Email().Build().Type)
	})

	t.Run("custom function", func(t *testing.T) {
		rule := Field("cetCode").Custom(func(string) error { return nil }).Build()
		assert.NotNil(t, rule.CustomFunc)
	})
}

func TestFieldValidator(t *testing.T) {
	t.Run("required columns", func(t *testing.T) {
		rules := []FieldRule{
			Field("cetCode").Required().Build(),
			Field("description").Required().Build(),
			Field("vat").Build(),
		}
		validator := NewFieldValidator(rules, 10)

		assert.True(t, validator.ValidateRow(tariffRow(2, "0101210000", "Pure-bred breeding horses", "")))

		assert.False(t, validator.ValidateRow(tariffRow(3, "", "Other live horses", "7.5")))

		errs := validator.Errors().Errors()
		require.Len(t, errs, 1)
		assert.Equal(t, ErrCodeImportRequiredField, errs[0].Code)
		assert.Equal(t, "cetCode", errs[0].Column)
		assert.Equal(t, 3, errs[0].Row)
	})

	t.Run("integer values", func(t *testing.T) {
		rules := []FieldRule{Field("packages").Int().Build()}
		validator := NewFieldValidator(rules, 10)

		assert.True(t, validator.ValidateRow(&Row{LineNumber: 2, Data: map[string]string{"packages": "12"}}))
		assert.False(t, validator.ValidateRow(&Row{LineNumber: 3, Data: map[string]string{"packages": "a dozen"}}))
	})

	t.Run("decimal rates", func(t *testing.T) {
		rules := []FieldRule{Field("vat").Decimal().Build()}
		validator := NewFieldValidator(rules, 10)

		for _, val := range []string{"7.5", "0", "0.01", "35"} {
			validator.Reset()
			assert.True(t, validator.ValidateRow(tariffRow(2, "0101210000", "x", val)), "should accept rate %s", val)
		}

		validator.Reset()
		assert.False(t, validator.ValidateRow(tariffRow(2, "0101210000", "x", "five percent")))
		errs := validator.Errors().Errors()
		require.Len(t, errs, 1)
		assert.Equal(t, ErrCodeImportInvalidType, errs[0].Code)
		assert.Equal(t, "five percent", errs[0].Value)
	})

	t.Run("dates", func(t *testing.T) {
		rules := []FieldRule{Field("effectiveDate").Date().Build()}
		validator := NewFieldValidator(rules, 10)

		assert.True(t, validator.ValidateRow(&Row{LineNumber: 2, Data: map[string]string{"effectiveDate": "2026-01-01"}}))
		assert.False(t, validator.ValidateRow(&Row{LineNumber: 3, Data: map[string]string{"effectiveDate": "01/01/2026"}}))
	})

	t.Run("email addresses", func(t *testing.T) {
		rules := []FieldRule{Field("emailAddress").Email().Build()}
		validator := NewFieldValidator(rules, 10)

		assert.True(t, validator.ValidateRow(&Row{LineNumber: 2, Data: map[string]string{"emailAddress": "ops@accessbank.example"}}))
		assert.False(t, validator.ValidateRow(&Row{LineNumber: 3, Data: map[string]string{"emailAddress": "not-an-address"}}))
	})

	t.Run("length bounds", func(t *testing.T) {
		rules := []FieldRule{Field("bankCode").MinLength(3).MaxLength(10).Build()}
		validator := NewFieldValidator(rules, 10)

		assert.False(t, validator.ValidateRow(&Row{LineNumber: 2, Data: map[string]string{"bankCode": "44"}}))

		validator.Reset()
		assert.False(t, validator.ValidateRow(&Row{LineNumber: 3, Data: map[string]string{"bankCode": "04400000001"}}))

		validator.Reset()
		assert.True(t, validator.ValidateRow(&Row{LineNumber: 4, Data: map[string]string{"bankCode": "044"}}))
	})

	t.Run("rate range", func(t *testing.T) {
		rules := []FieldRule{
			Field("vat").Decimal().
				MinValue(decimal.NewFromInt(0)).
				MaxValue(decimal.NewFromInt(100)).
				Build(),
		}
		validator := NewFieldValidator(rules, 10)

		assert.False(t, validator.ValidateRow(tariffRow(2, "x", "x", "-1")))

		validator.Reset()
		assert.False(t, validator.ValidateRow(tariffRow(3, "x", "x", "101")))
		errs := validator.Errors().Errors()
		require.Len(t, errs, 1)
		assert.Equal(t, ErrCodeImportInvalidRange, errs[0].Code)

		validator.Reset()
		assert.True(t, validator.ValidateRow(tariffRow(4, "x", "x", "35")))
	})

	t.Run("pattern", func(t *testing.T) {
		rules := []FieldRule{Field("bankCode").Pattern(`^\d+$`, "numeric bank code").Build()}
		validator := NewFieldValidator(rules, 10)

		assert.True(t, validator.ValidateRow(&Row{LineNumber: 2, Data: map[string]string{"bankCode": "044"}}))
		assert.False(t, validator.ValidateRow(&Row{LineNumber: 3, Data: map[string]string{"bankCode": "O44"}}))
	})

	t.Run("duplicate codes within file", func(t *testing.T) {
		rules := []FieldRule{Field("cetCode").Unique().Build()}
		validator := NewFieldValidator(rules, 10)

		assert.True(t, validator.ValidateRow(tariffRow(2, "0101210000", "", "")))
		assert.True(t, validator.ValidateRow(tariffRow(3, "2203001000", "", "")))
		assert.False(t, validator.ValidateRow(tariffRow(4, "0101210000", "", "")))

		errs := validator.Errors().Errors()
		require.Len(t, errs, 1)
		assert.Equal(t, ErrCodeImportDuplicateInFile, errs[0].Code)
		assert.Contains(t, errs[0].Message, "first seen in row 2")
	})

	t.Run("custom check", func(t *testing.T) {
		chapterCheck := func(value string) error {
			if value[0] == '9' {
				return fmt.Errorf("chapter 9x codes are reserved")
			}
			return nil
		}
		rules := []FieldRule{Field("cetCode").Custom(chapterCheck).Build()}
		validator := NewFieldValidator(rules, 10)

		assert.True(t, validator.ValidateRow(tariffRow(2, "0101210000", "", "")))
		assert.False(t, validator.ValidateRow(tariffRow(3, "9801000000", "", "")))
	})

	t.Run("blank optional fields pass", func(t *testing.T) {
		rules := []FieldRule{Field("emailAddress").Email().Build()}
		validator := NewFieldValidator(rules, 10)

		assert.True(t, validator.ValidateRow(&Row{LineNumber: 2, Data: map[string]string{"emailAddress": ""}}))
		assert.False(t, validator.Errors().HasErrors())
	})

	t.Run("errors come out in rule order", func(t *testing.T) {
		rules := []FieldRule{
			Field("cetCode").Required().Build(),
			Field("description").Required().Build(),
		}
		validator := NewFieldValidator(rules, 10)

		validator.ValidateRow(tariffRow(2, "", "", ""))

		errs := validator.Errors().Errors()
		require.Len(t, errs, 2)
		assert.Equal(t, "cetCode", errs[0].Column)
		assert.Equal(t, "description", errs[1].Column)
	})

	t.Run("reset clears uniqueness state", func(t *testing.T) {
		rules := []FieldRule{Field("cetCode").Unique().Build()}
		validator := NewFieldValidator(rules, 10)

		validator.ValidateRow(tariffRow(2, "0101210000", "", ""))
		validator.Reset()

		assert.True(t, validator.ValidateRow(tariffRow(3, "0101210000", "", "")))
		assert.False(t, validator.Errors().HasErrors())
	})
}
