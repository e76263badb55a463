// Package query turns optional filter fields and pagination parameters into
// a deterministic, bounded fetch plan and executes it. The count query and
// the page query share one composed predicate and run concurrently; there is
// no transactional snapshot between them, so slight staleness is accepted.
package query

import (
	"strconv"

	"cms-service/internal/model"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	// DefaultLimit applies when the caller supplies no limit.
	DefaultLimit = 10
	// PublicMaxLimit caps page size on the unauthenticated surface.
	PublicMaxLimit = 100
)

// Sort orders are fixed per entity. The id tiebreak keeps pages stable when
// rows share a timestamp.
const (
	SortNewestFirst        = "created_at DESC, id DESC"
	SortRecentlyPublished  = "published_at DESC, id DESC"
	SortNameAscending      = "name ASC"
)

// Page bounds a result set.
type Page struct {
	Limit  int
	Offset int
}

// ParsePage reads limit/offset query parameters, applying defaults and
// discarding negative values.
func ParsePage(c echo.Context) Page {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = DefaultLimit
	}

	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	return Page{Limit: limit, Offset: offset}
}

// ClampPublic restricts the page to the public surface's bounds.
func (p Page) ClampPublic() Page {
	if p.Limit < 1 {
		p.Limit = 1
	}
	if p.Limit > PublicMaxLimit {
		p.Limit = PublicMaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// ContentFilter is the set of optional content list filters. ContentTypeID
// and Status are equality predicates; CategoryID and TagID test membership
// in the respective join table.
type ContentFilter struct {
	ContentTypeID uint
	Status        string
	CategoryID    uint
	TagID         uint
}

// ParseContentFilter reads the filter fields from query parameters.
func ParseContentFilter(c echo.Context) ContentFilter {
	var f ContentFilter
	if v, err := strconv.ParseUint(c.QueryParam("content_type_id"), 10, 32); err == nil {
		f.ContentTypeID = uint(v)
	}
	f.Status = c.QueryParam("status")
	if v, err := strconv.ParseUint(c.QueryParam("category_id"), 10, 32); err == nil {
		f.CategoryID = uint(v)
	}
	if v, err := strconv.ParseUint(c.QueryParam("tag_id"), 10, 32); err == nil {
		f.TagID = uint(v)
	}
	return f
}

// Apply composes the filter predicate onto the query, always in the same
// order so identical filters yield identical plans.
func (f ContentFilter) Apply(db *gorm.DB) *gorm.DB {
	if f.ContentTypeID != 0 {
		db = db.Where("content_type_id = ?", f.ContentTypeID)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.CategoryID != 0 {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Model(&model.ContentCategory{}).
			Select("content_id").
			Where("category_id = ?", f.CategoryID)
		db = db.Where("id IN (?)", sub)
	}
	if f.TagID != 0 {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Model(&model.ContentTag{}).
			Select("content_id").
			Where("tag_id = ?", f.TagID)
		db = db.Where("id IN (?)", sub)
	}
	return db
}

// FindPage runs the count query and the page query for one composed
// predicate. The two queries execute concurrently on independent sessions;
// either both results are returned or the first error wins and no partial
// state reaches the caller.
func FindPage(base *gorm.DB, mdl interface{}, order string, page Page, dest interface{}) (int64, error) {
	var total int64

	countDB := base.Session(&gorm.Session{})
	pageDB := base.Session(&gorm.Session{})

	var g errgroup.Group
	g.Go(func() error {
		return countDB.Model(mdl).Count(&total).Error
	})
	g.Go(func() error {
		return pageDB.Order(order).Limit(page.Limit).Offset(page.Offset).Find(dest).Error
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return total, nil
}
