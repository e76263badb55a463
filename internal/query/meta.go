package query

// ListMeta is the pagination envelope on authenticated list endpoints.
type ListMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// NewListMeta derives the authenticated metadata shape:
// page = floor(offset/limit) + 1, total_pages = ceil(total/limit).
func NewListMeta(total int64, page Page) ListMeta {
	return ListMeta{
		Total:      total,
		Page:       page.Offset/page.Limit + 1,
		Limit:      page.Limit,
		TotalPages: int((total + int64(page.Limit) - 1) / int64(page.Limit)),
	}
}

// PublicMeta is the pagination envelope on the public read surface. It is a
// different shape from ListMeta and the two are not interchangeable.
type PublicMeta struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// NewPublicMeta derives the public metadata shape:
// has_more = offset + limit < total.
func NewPublicMeta(total int64, page Page) PublicMeta {
	return PublicMeta{
		Total:   total,
		Limit:   page.Limit,
		Offset:  page.Offset,
		HasMore: int64(page.Offset+page.Limit) < total,
	}
}
