package tag

// Tag labels posts. A post may carry many tags.
type Tag struct {
	Slug  string `db:"slug" json:"slug"`
	Title string `db:"title" json:"title"`
}
