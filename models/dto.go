package models

// ImageUpload carries the raw bytes of a multipart image field together
// with the size and media type the client declared for it.
type ImageUpload struct {
	Content     []byte
	ContentType string
	Size        int64
}

type CreatePostRequest struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Tags        string `form:"tags"` // comma-separated tag names
}

type UpdatePostRequest struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Tags        string `form:"tags"`
}

type CreateTagRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// PostListParams holds raw listing input. Normalize replaces anything
// unusable with the documented defaults instead of rejecting it.
type PostListParams struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	Tags      string // comma-separated tag slugs
}

var sortColumns = map[string]string{
	"createdAt":  "created_at",
	"created_at": "created_at",
	"updatedAt":  "updated_at",
	"updated_at": "updated_at",
	"title":      "title",
}

func (p *PostListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if col, ok := sortColumns[p.SortBy]; ok {
		p.SortBy = col
	} else {
		p.SortBy = "created_at"
	}
	// Anything other than the literal "asc" sorts descending.
	if p.SortOrder != "asc" {
		p.SortOrder = "desc"
	}
}

func (p PostListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

type SearchParams struct {
	Query string
	Page  int
	Limit int
}

func (p *SearchParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
}

func (p SearchParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
