package csvimport

import (
	"net/mail"
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// FieldType names how a column value must parse before any other checks run.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInt     FieldType = "int"
	TypeDecimal FieldType = "decimal"
	TypeDate    FieldType = "date"
	TypeEmail   FieldType = "email"
)

// FieldRule is the full set of checks applied to one column. Build rules with
// Field rather than constructing this struct directly.
type FieldRule struct {
	Column      string
	Type        FieldType
	Required    bool
	MinLength   int
	MaxLength   int
	MinValue    *decimal.Decimal
	MaxValue    *decimal.Decimal
	Pattern     *regexp.Regexp
	PatternDesc string
	DateFormat  string
	Unique      bool
	CustomFunc  func(value string) error
}

// FieldRuleBuilder assembles a FieldRule through chained calls.
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field starts a rule for the named column. The type defaults to string.
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{
		rule: FieldRule{
			Column:     column,
			Type:       TypeString,
			DateFormat: "2006-01-02",
		},
	}
}

// Required rejects rows where the column is blank
func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

// Int requires the value to parse as an integer
func (b *FieldRuleBuilder) Int() *FieldRuleBuilder {
	b.rule.Type = TypeInt
	return b
}

// Decimal requires the value to parse as a decimal number
func (b *FieldRuleBuilder) Decimal() *FieldRuleBuilder {
	b.rule.Type = TypeDecimal
	return b
}

// Date requires the value to parse as a date in the configured format
func (b *FieldRuleBuilder) Date() *FieldRuleBuilder {
	b.rule.Type = TypeDate
	return b
}

// DateFormat overrides the default 2006-01-02 date layout
func (b *FieldRuleBuilder) DateFormat(format string) *FieldRuleBuilder {
	b.rule.DateFormat = format
	return b
}

// Email requires the value to parse as an email address
func (b *FieldRuleBuilder) Email() *FieldRuleBuilder {
	b.rule.Type = TypeEmail
	return b
}

// MinLength sets a lower bound on the value length
func (b *FieldRuleBuilder) MinLength(n int) *FieldRuleBuilder {
	b.rule.MinLength = n
	return b
}

// MaxLength sets an upper bound on the value length
func (b *FieldRuleBuilder) MaxLength(n int) *FieldRuleBuilder {
	b.rule.MaxLength = n
	return b
}

// MinValue sets a lower bound for numeric columns
func (b *FieldRuleBuilder) MinValue(v decimal.Decimal) *FieldRuleBuilder {
	b.rule.MinValue = &v
	return b
}

// MaxValue sets an upper bound for numeric columns
func (b *FieldRuleBuilder) MaxValue(v decimal.Decimal) *FieldRuleBuilder {
	b.rule.MaxValue = &v
	return b
}

// Pattern requires the value to match a regular expression. The description
// is what clients see in the error, so phrase it for a reader of the file.
func (b *FieldRuleBuilder) Pattern(pattern, description string) *FieldRuleBuilder {
	b.rule.Pattern = regexp.MustCompile(pattern)
	b.rule.PatternDesc = description
	return b
}

// Unique rejects values repeated within the same file. CET codes and bank
// codes carry this rule; the database unique index is the final arbiter,
// but catching repeats here lets a dry-run validation report them.
func (b *FieldRuleBuilder) Unique() *FieldRuleBuilder {
	b.rule.Unique = true
	return b
}

// Custom attaches an arbitrary validation function, run after all built-in
// checks pass
func (b *FieldRuleBuilder) Custom(fn func(value string) error) *FieldRuleBuilder {
	b.rule.CustomFunc = fn
	return b
}

// Build returns the assembled rule
func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// FieldValidator applies a rule set row by row, collecting errors as it goes.
// Rules run in declaration order so errors come out in a stable column order.
type FieldValidator struct {
	rules     []FieldRule
	firstSeen map[string]map[string]int
	errors    *ErrorCollection
}

// NewFieldValidator creates a validator that records at most maxErrors errors
func NewFieldValidator(rules []FieldRule, maxErrors int) *FieldValidator {
	return &FieldValidator{
		rules:     rules,
		firstSeen: make(map[string]map[string]int),
		errors:    NewErrorCollection(maxErrors),
	}
}

// ValidateRow checks every rule against the row and reports whether it passed.
// Errors accumulate in the collection either way, so a caller can validate a
// whole file and read them out at the end.
func (v *FieldValidator) ValidateRow(row *Row) bool {
	ok := true

	for _, rule := range v.rules {
		value := row.Get(rule.Column)

		if value == "" {
			if rule.Required {
				v.errors.AddRequiredError(row.LineNumber, rule.Column)
				ok = false
			}
			// Blank optional fields pass; GetOrDefault supplies the
			// fallback at import time.
			continue
		}

		if !v.checkType(value, rule) {
			v.errors.AddTypeError(row.LineNumber, rule.Column, string(rule.Type), value)
			ok = false
			continue
		}

		if (rule.MinLength > 0 && len(value) < rule.MinLength) ||
			(rule.MaxLength > 0 && len(value) > rule.MaxLength) {
			v.errors.AddLengthError(row.LineNumber, rule.Column, rule.MinLength, rule.MaxLength)
			ok = false
		}

		if !v.checkRange(row.LineNumber, value, rule) {
			ok = false
		}

		if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
			v.errors.AddPatternError(row.LineNumber, rule.Column, rule.PatternDesc, value)
			ok = false
		}

		if rule.Unique && !v.checkUnique(row.LineNumber, rule.Column, value) {
			ok = false
		}

		if rule.CustomFunc != nil {
			if err := rule.CustomFunc(value); err != nil {
				v.errors.AddValidationError(row.LineNumber, rule.Column, ErrCodeImportValidation, err.Error())
				ok = false
			}
		}
	}

	return ok
}

func (v *FieldValidator) checkType(value string, rule FieldRule) bool {
	switch rule.Type {
	case TypeInt:
		_, err := strconv.ParseInt(value, 10, 64)
		return err == nil
	case TypeDecimal:
		_, err := decimal.NewFromString(value)
		return err == nil
	case TypeDate:
		_, err := time.Parse(rule.DateFormat, value)
		return err == nil
	case TypeEmail:
		_, err := mail.ParseAddress(value)
		return err == nil
	default:
		return true
	}
}

func (v *FieldValidator) checkRange(line int, value string, rule FieldRule) bool {
	if rule.MinValue == nil && rule.MaxValue == nil {
		return true
	}
	if rule.Type != TypeInt && rule.Type != TypeDecimal {
		return true
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return true // already reported as a type error
	}

	if (rule.MinValue != nil && d.LessThan(*rule.MinValue)) ||
		(rule.MaxValue != nil && d.GreaterThan(*rule.MaxValue)) {
		minFloat, maxFloat := 0.0, 0.0
		if rule.MinValue != nil {
			minFloat, _ = rule.MinValue.Float64()
		}
		if rule.MaxValue != nil {
			maxFloat, _ = rule.MaxValue.Float64()
		}
		v.errors.AddRangeError(line, rule.Column, minFloat, maxFloat)
		return false
	}
	return true
}

func (v *FieldValidator) checkUnique(line int, column, value string) bool {
	if v.firstSeen[column] == nil {
		v.firstSeen[column] = make(map[string]int)
	}
	if firstRow, dup := v.firstSeen[column][value]; dup {
		v.errors.AddDuplicateError(line, column, value, firstRow)
		return false
	}
	v.firstSeen[column][value] = line
	return true
}

// Errors returns the accumulated error collection
func (v *FieldValidator) Errors() *ErrorCollection {
	return v.errors
}

// Reset clears accumulated errors and uniqueness state so the validator can
// run against another file
func (v *FieldValidator) Reset() {
	v.firstSeen = make(map[string]map[string]int)
	v.errors.Clear()
}
