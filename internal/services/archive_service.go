package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/nvoss/slack-archive-backend/internal/domain"
	"github.com/nvoss/slack-archive-backend/internal/repo"
)

// ArchiveService serves read-side queries over the record store.
type ArchiveService struct {
	DB *gorm.DB
}

// MessagePage is one page of archived messages plus the table total.
type MessagePage struct {
	Items []domain.MessageRecord
	Total int64
}

// MemberPage is one page of archived members plus the table total.
type MemberPage struct {
	Items []domain.MemberRecord
	Total int64
}

// Messages returns a newest-first page of archived messages.
func (s *ArchiveService) Messages(ctx context.Context, offset, limit int) (*MessagePage, error) {
	tr := otel.Tracer("services/ArchiveService")
	ctx, span := tr.Start(ctx, "Messages")
	defer span.End()
	span.SetAttributes(attribute.Int("offset", offset), attribute.Int("limit", limit))

	total, err := repo.CountMessages(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	items, err := repo.ListMessagesPage(ctx, s.DB, offset, limit)
	if err != nil {
		return nil, err
	}
	return &MessagePage{Items: items, Total: total}, nil
}

// Members returns a most-recently-updated-first page of archived members.
func (s *ArchiveService) Members(ctx context.Context, offset, limit int) (*MemberPage, error) {
	tr := otel.Tracer("services/ArchiveService")
	ctx, span := tr.Start(ctx, "Members")
	defer span.End()
	span.SetAttributes(attribute.Int("offset", offset), attribute.Int("limit", limit))

	total, err := repo.CountMembers(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	items, err := repo.ListMembersPage(ctx, s.DB, offset, limit)
	if err != nil {
		return nil, err
	}
	return &MemberPage{Items: items, Total: total}, nil
}
