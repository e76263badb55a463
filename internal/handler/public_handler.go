package handler

import (
	"net/http"

	"cms-service/internal/query"
	"cms-service/internal/repository"
	"cms-service/pkg/database"
	"cms-service/pkg/logger"
	"cms-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PublicListContent serves published content for an organization resolved
// by slug. No authentication: every row matching the narrowed predicate is
// visible to any caller.
func PublicListContent(c echo.Context) error {
	log := logger.FromContext(c)

	orgSlug := c.Param("orgSlug")
	orgs := repository.NewOrganizationRepository(database.GetDB())
	org, err := orgs.GetActiveBySlug(orgSlug)
	if err != nil {
		return fail(c, log, err)
	}

	prometheus.PublicReadsCounter.WithLabelValues(org.Slug).Inc()

	// No status filter exists on this surface; the predicate is always
	// narrowed to published rows.
	filter := query.ParseContentFilter(c)
	page := query.ParsePage(c).ClampPublic()

	contents := repository.NewContentRepository(database.GetDB())
	list, total, err := contents.ListPublished(org.ID, filter, page)
	if err != nil {
		return fail(c, log, err)
	}

	log.Debug("Public content served",
		zap.String("organization", org.Slug),
		zap.Int("count", len(list)),
		zap.Int64("total", total))

	return c.JSON(http.StatusOK, echo.Map{
		"content":    list,
		"pagination": query.NewPublicMeta(total, page),
	})
}

// PublicGetContent serves one published content record by slug.
func PublicGetContent(c echo.Context) error {
	log := logger.FromContext(c)

	orgSlug := c.Param("orgSlug")
	orgs := repository.NewOrganizationRepository(database.GetDB())
	org, err := orgs.GetActiveBySlug(orgSlug)
	if err != nil {
		return fail(c, log, err)
	}

	prometheus.PublicReadsCounter.WithLabelValues(org.Slug).Inc()

	contents := repository.NewContentRepository(database.GetDB())
	content, err := contents.GetPublishedBySlug(c.Param("slug"), org.ID)
	if err != nil {
		return fail(c, log, err)
	}

	return c.JSON(http.StatusOK, content)
}
