// Package page defines the domain model for rendered website snapshots
// and the filter, sort, and pagination inputs accepted by the API.
package page

// Type enumerates the supported snapshot artifact formats.
type Type string

const (
	TypePDF  Type = "PDF"
	TypePNG  Type = "PNG"
	TypeJPEG Type = "JPEG"
	TypeWEBP Type = "WEBP"
)

// ContentType returns the MIME type of the rendered artifact.
func (t Type) ContentType() string {
	switch t {
	case TypePDF:
		return "application/pdf"
	case TypePNG:
		return "image/png"
	case TypeJPEG:
		return "image/jpeg"
	case TypeWEBP:
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// Page is a stored rendered snapshot of a website at a point in time.
// Date carries no time component (YYYY-MM-DD). File is the opaque
// storage key of the rendered artifact; it is rewritten to a fetchable
// URL at the API boundary, never here.
type Page struct {
	ID   string
	Type Type
	Date string
	Site string
	File string
}

// DateRangeFilter bounds the page date. At most one lower-bound and one
// upper-bound operator take effect per filter: the inclusive operator
// wins when both inclusive and exclusive forms are present.
type DateRangeFilter struct {
	Gt  *string
	Gte *string
	Lt  *string
	Lte *string
}

// TypeFilter restricts pages by artifact type. Operators are mutually
// exclusive; the first present in priority order eq, ne, in, nin is used.
type TypeFilter struct {
	Eq  *Type
	Ne  *Type
	In  []Type
	Nin []Type
}

// Filter combines the per-field filters of a pages query.
type Filter struct {
	Date *DateRangeFilter
	Type *TypeFilter
}

// SortField names the sortable page columns.
type SortField string

const (
	SortByDate SortField = "date"
	SortByFile SortField = "file"
	SortBySite SortField = "site"
	SortByType SortField = "type"
)

// SortOrder is the requested sort direction.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// Sort is an explicit ordering request. When absent the store's default
// order (id ascending) applies.
type Sort struct {
	Field SortField
	Order SortOrder
}

// ListParams holds the cursor-pagination arguments of a pages query.
// After and Before are page ids; First and Last bound the window size.
type ListParams struct {
	First  *int
	Last   *int
	After  *string
	Before *string
	Filter *Filter
	Sort   *Sort
}

// Edge pairs a page with its pagination cursor (the page id).
type Edge struct {
	Cursor string
	Node   *Page
}

// PageInfo describes the current window relative to the filtered set.
type PageInfo struct {
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     *string
	EndCursor       *string
}

// Connection is the windowed slice of the filtered, sorted result set.
type Connection struct {
	Edges    []Edge
	PageInfo PageInfo
}

// CreateInput holds the fields required to create a page.
type CreateInput struct {
	Site string
	Type Type
}
