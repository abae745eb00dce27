// Archive read endpoints.
//
// This file exposes the paginated read API over the record store:
//   - GET /api/v1/messages  (archived channel messages, newest first)
//   - GET /api/v1/members   (archived members, most recently updated first)
//
// The archive is append-only, so these handlers never mutate; they validate
// pagination input, delegate to the ArchiveService, and shape the page
// envelope.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nvoss/slack-archive-backend/internal/domain"
	"github.com/nvoss/slack-archive-backend/internal/services"
	"github.com/nvoss/slack-archive-backend/internal/utils"
)

// Handlers bundles the dependencies of all HTTP endpoints.
type Handlers struct {
	archive *services.ArchiveService
	queue   TaskEnqueuer
}

// New constructs the handler set.
func New(archive *services.ArchiveService, queue TaskEnqueuer) *Handlers {
	return &Handlers{archive: archive, queue: queue}
}

// Pagination is the standard page metadata block.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListMessagesResponse contains a page of archived messages.
type ListMessagesResponse struct {
	Messages   []domain.MessageRecord `json:"messages"`
	Pagination Pagination             `json:"pagination"`
}

// ListMembersResponse contains a page of archived members.
type ListMembersResponse struct {
	Members    []domain.MemberRecord `json:"members"`
	Pagination Pagination            `json:"pagination"`
}

// clampPagination parses page/page_size from query parameters, applying sane
// defaults and caps.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 50
		maxPageSize     = 200
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// paginationFor computes the metadata block for a page.
func paginationFor(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// ListMessages returns a page of archived messages, newest first.
func (h *Handlers) ListMessages(c *gin.Context) {
	page, pageSize := clampPagination(c)

	res, err := h.archive.Messages(c.Request.Context(), (page-1)*pageSize, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListMessagesResponse{
		Messages:   res.Items,
		Pagination: paginationFor(page, pageSize, res.Total),
	})
}

// ListMembers returns a page of archived members, most recently updated first.
func (h *Handlers) ListMembers(c *gin.Context) {
	page, pageSize := clampPagination(c)

	res, err := h.archive.Members(c.Request.Context(), (page-1)*pageSize, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListMembersResponse{
		Members:    res.Items,
		Pagination: paginationFor(page, pageSize, res.Total),
	})
}
