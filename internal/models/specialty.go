package models

// Specialty is one node of the two-level specialty taxonomy
// (e.g. "Furniture" -> "Georgian furniture"). A nil ParentID marks a main
// category; otherwise the node is a sub-category of that parent.
type Specialty struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Slug     string `json:"slug" db:"slug"`
	ParentID *int64 `json:"parent_id" db:"parent_id"`
}

// IsMainCategory reports whether s sits at the top of the taxonomy.
func (s *Specialty) IsMainCategory() bool { return s.ParentID == nil }

// SpecialtyTree is a main category with its sub-categories, as rendered by
// the filter sidebar and the admin taxonomy page.
type SpecialtyTree struct {
	Specialty
	Children []Specialty `json:"children,omitempty"`
}
