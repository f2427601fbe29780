// Ops read-model handlers.
//
// This file exposes REST endpoints over the durable archive and the in-memory
// aggregates:
//   - GET /api/v1/suggestions   (list archived suggestions, paginated)
//   - GET /api/v1/stats         (rolling window summary + daily histogram)
//
// Handlers are transport-thin: they validate and clamp query inputs, read from
// the repository or the aggregator, and shape the JSON envelope.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/suggestbot/go-suggest-backend/internal/domain"
	"github.com/suggestbot/go-suggest-backend/internal/engine"
	"github.com/suggestbot/go-suggest-backend/internal/repo"
	"github.com/suggestbot/go-suggest-backend/internal/stats"
	"github.com/suggestbot/go-suggest-backend/internal/utils"
)

// Handlers bundles the dependencies shared by all HTTP endpoints.
type Handlers struct {
	eng      *engine.Engine
	db       *gorm.DB
	agg      *stats.Aggregator
	botToken string
}

// New constructs a Handlers instance bound to the engine, archive store and
// aggregator. db may be nil when row persistence is disabled.
func New(eng *engine.Engine, db *gorm.DB, agg *stats.Aggregator, botToken string) *Handlers {
	return &Handlers{eng: eng, db: db, agg: agg, botToken: botToken}
}

//
// DTOs
//

// Pagination carries paging metadata alongside any list response.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListSuggestionsResponse wraps a page of archived suggestions.
type ListSuggestionsResponse struct {
	Suggestions []domain.Suggestion `json:"suggestions"`
	Pagination  Pagination          `json:"pagination"`
}

// StatsResponse combines the rolling-window summary with the daily histogram.
type StatsResponse struct {
	Summary   stats.Summary    `json:"summary"`
	Histogram []stats.DayCount `json:"histogram"`
}

// clampPagination parses page/page_size from query parameters, applies sane
// defaults and caps, and returns the validated (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.ClampInt(utils.AtoiDefault(c.Query("page"), defaultPage), 1, 1<<30)
	pageSize = utils.ClampInt(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}

//
// Handlers
//

// ListSuggestions godoc
// @ID          listSuggestions
// @Summary     List archived suggestions
// @Description Returns a paginated list of suggestions persisted to the archive
// @Description store, oldest first.
// @Tags        Suggestions
// @Produce     json
//
// @Param       page       query  int  false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListSuggestionsResponse
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /suggestions [get]
func (h *Handlers) ListSuggestions(c *gin.Context) {
	ctx := c.Request.Context()

	if h.db == nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "archive store disabled")
		return
	}

	page, pageSize := clampPagination(c)

	total, err := repo.CountSuggestions(ctx, h.db)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	items, err := repo.ListSuggestionsPage(ctx, h.db, (page-1)*pageSize, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListSuggestionsResponse{
		Suggestions: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// Stats godoc
// @ID          stats
// @Summary     Submission statistics
// @Description Returns total/unique counters, rolling 24h/7d/30d windows and a
// @Description 7-day daily histogram computed from the in-memory ledger.
// @Tags        Stats
// @Produce     json
//
// @Success     200  {object}  handlers.StatsResponse
// @Router      /stats [get]
func (h *Handlers) Stats(c *gin.Context) {
	now := time.Now()
	ok(c, http.StatusOK, StatsResponse{
		Summary:   h.agg.Summarize(now),
		Histogram: h.agg.DailyHistogram(now, 7),
	})
}
