package entity

// Category is a garment type with its measurement field labels.
// AccountID is empty for system categories visible to every tenant.
type Category struct {
	ID        string
	AccountID string
	Name      string
	Gender    string // male, female
	IsCustom  bool
	Fields    []string
}

// System reports whether the category is a shared system default.
func (c *Category) System() bool { return c.AccountID == "" }
