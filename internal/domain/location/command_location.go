package location

import (
	"regexp"
	"strings"
	"time"

	"github.com/customs/backend/internal/domain/shared"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9-]+$`)

// CommandLocation represents an organizational unit scoping officer
// authority and declaration visibility
type CommandLocation struct {
	shared.BaseAggregateRoot
	Name string
	Code string
}

// NewCommandLocation creates a new command location.
// The code is uppercased and must contain only letters, numbers, and hyphens.
func NewCommandLocation(name, code string) (*CommandLocation, error) {
	name = strings.TrimSpace(name)
	code = strings.ToUpper(strings.TrimSpace(code))

	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Command location name cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Command location code cannot be empty")
	}
	if !codePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_CODE", "Code must contain only letters, numbers, and hyphens")
	}

	return &CommandLocation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Code:              code,
	}, nil
}

// Rename changes the location's display name
func (c *CommandLocation) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Command location name cannot be empty")
	}

	c.Name = name
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}
