package refdata

import (
	"context"
)

// SearchLimit caps the number of rows returned by reference-data searches
const SearchLimit = 30

// TariffRepository defines the interface for tariff reference data.
// ReplaceAll swaps the entire table in one transaction during import.
type TariffRepository interface {
	ReplaceAll(ctx context.Context, tariffs []Tariff) (deleted int64, err error)
	Search(ctx context.Context, query string) ([]Tariff, error)
	Count(ctx context.Context) (int64, error)
}

// BankRepository defines the interface for bank reference data
type BankRepository interface {
	ReplaceAll(ctx context.Context, banks []Bank) (deleted int64, err error)
	Search(ctx context.Context, query string) ([]Bank, error)
	Count(ctx context.Context) (int64, error)
}
