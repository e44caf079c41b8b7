package post

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"blog-backend/internal/shared/pagination"
)

const maxTitleLength = 100

// ListPostsRequest is bound from the /posts/ query string.
type ListPostsRequest struct {
	Category string `form:"category"`
	Tag      string `form:"tag"`
	Q        string `form:"q"`
	pagination.Params
}

func (r ListPostsRequest) Filter() PostFilter {
	return PostFilter{
		Category: strings.TrimSpace(r.Category),
		Tag:      strings.TrimSpace(r.Tag),
		Q:        r.Q,
	}
}

type CreatePostRequest struct {
	Title    string   `json:"title"`
	Text     string   `json:"text"`
	Category *string  `json:"category"`
	Tags     []string `json:"tags"`
}

func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(0, maxTitleLength).Error("title must be at most 100 characters"),
		),
		validation.Field(&r.Text, validation.Required.Error("text is required")),
		validation.Field(&r.Category, validation.NilOrNotEmpty.Error("category must not be empty")),
		validation.Field(&r.Tags, validation.Each(validation.Required.Error("tag must not be empty"))),
	)
}

// Normalize trims input and removes duplicate tags, keeping first-seen order.
func (r *CreatePostRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	if r.Category != nil {
		c := strings.TrimSpace(*r.Category)
		r.Category = &c
	}
	r.Tags = dedupe(r.Tags)
}

// UpdatePostRequest is a partial update: only fields present in the body apply.
// An empty category string detaches the post from its category.
type UpdatePostRequest struct {
	Title    Optional[string]   `json:"title"`
	Text     Optional[string]   `json:"text"`
	Category Optional[string]   `json:"category"`
	Tags     Optional[[]string] `json:"tags"`
}

func (r UpdatePostRequest) Validate() error {
	return validation.Errors{
		"title": whenSet(r.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(0, maxTitleLength).Error("title must be at most 100 characters"),
		),
		"text": whenSet(r.Text, validation.Required.Error("text is required")),
		"tags": whenSet(r.Tags, validation.Each(validation.Required.Error("tag must not be empty"))),
	}.Filter()
}

func (r *UpdatePostRequest) Normalize() {
	if r.Title.Set {
		r.Title.Value = strings.TrimSpace(r.Title.Value)
	}
	if r.Category.Set {
		r.Category.Value = strings.TrimSpace(r.Category.Value)
	}
	if r.Tags.Set {
		r.Tags.Value = dedupe(r.Tags.Value)
	}
}

// IsEmpty reports whether no field was provided.
func (r UpdatePostRequest) IsEmpty() bool {
	return !r.Title.Set && !r.Text.Set && !r.Category.Set && !r.Tags.Set
}

// ApplyTo merges the provided fields into p and reports whether the tag set was replaced.
func (r UpdatePostRequest) ApplyTo(p *Post) (tagsReplaced bool) {
	if r.Title.Set {
		p.Title = r.Title.Value
	}
	if r.Text.Set {
		p.Text = r.Text.Value
	}
	if r.Category.Set {
		if r.Category.Value == "" {
			p.CategoryID = nil
		} else {
			c := r.Category.Value
			p.CategoryID = &c
		}
	}
	if r.Tags.Set {
		p.Tags = r.Tags.Value
		if p.Tags == nil {
			p.Tags = []string{}
		}
		return true
	}
	return false
}

func whenSet[T any](o Optional[T], rules ...validation.Rule) error {
	if !o.Set {
		return nil
	}
	return validation.Validate(o.Value, rules...)
}

func dedupe(values []string) []string {
	if values == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
