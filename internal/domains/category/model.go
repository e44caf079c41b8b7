package category

// Category groups posts. Slug is the primary key posts reference.
type Category struct {
	Slug  string `db:"slug" json:"slug"`
	Title string `db:"title" json:"title"`
}
