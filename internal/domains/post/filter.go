package post

import (
	"fmt"

	"blog-backend/internal/shared/utils"
)

// PostFilter holds the optional list filters. Empty fields are ignored.
type PostFilter struct {
	Category string
	Tag      string
	Q        string
}

// BuildPostFilter renders the WHERE clause for f over posts aliased as p.
// Placeholders start at $argStart. It returns "" when no filter is set.
func BuildPostFilter(f PostFilter, argStart int) (string, []any) {
	var conditions []string
	var args []any
	argPos := argStart

	if f.Category != "" {
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argPos))
		args = append(args, f.Category)
		argPos++
	}

	// Semi-join: a post appears once however it relates to the tag
	if f.Tag != "" {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM post_tag pt WHERE pt.post_id = p.id AND pt.tag_id = $%d)", argPos))
		args = append(args, f.Tag)
		argPos++
	}

	// q is matched verbatim, surrounding whitespace included
	if f.Q != "" {
		conditions = append(conditions, fmt.Sprintf("(p.title ILIKE $%d OR p.text ILIKE $%d)", argPos, argPos))
		args = append(args, utils.ContainsPattern(f.Q))
	}

	if len(conditions) == 0 {
		return "", nil
	}

	return "WHERE " + utils.JoinWithAnd(conditions), args
}
