package models

import (
	"github.com/customs/backend/internal/domain/location"
)

// CommandLocationModel is the persistence model for the CommandLocation aggregate root.
type CommandLocationModel struct {
	AggregateModel
	Name string `gorm:"type:varchar(200);not null"`
	Code string `gorm:"type:varchar(50);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (CommandLocationModel) TableName() string {
	return "command_locations"
}

// ToDomain converts the persistence model to a domain CommandLocation entity.
func (m *CommandLocationModel) ToDomain() *location.CommandLocation {
	loc := &location.CommandLocation{
		Name: m.Name,
		Code: m.Code,
	}
	m.PopulateAggregateRoot(&loc.BaseAggregateRoot)
	return loc
}

// FromDomain populates the persistence model from a domain CommandLocation entity.
func (m *CommandLocationModel) FromDomain(l *location.CommandLocation) {
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.Name = l.Name
	m.Code = l.Code
}

// CommandLocationModelFromDomain creates a new persistence model from a domain CommandLocation entity.
func CommandLocationModelFromDomain(l *location.CommandLocation) *CommandLocationModel {
	m := &CommandLocationModel{}
	m.FromDomain(l)
	return m
}
