package shared

// Filter carries listing options through repository FindAll calls. OrderBy
// values are whitelisted in the persistence layer, and Filters holds
// column-equality conditions such as a status or command location scope.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}
