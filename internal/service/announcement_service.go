package service

import (
	"context"
	"strings"

	"github.com/maxelo/hr-portal/internal/domain"
	"github.com/maxelo/hr-portal/internal/repository"
	apperrors "github.com/maxelo/hr-portal/pkg/util"
)

// AnnouncementService manages company-wide notices.
type AnnouncementService struct {
	announcements repository.AnnouncementRepository
}

// NewAnnouncementService builds the service.
func NewAnnouncementService(announcements repository.AnnouncementRepository) *AnnouncementService {
	return &AnnouncementService{announcements: announcements}
}

// Create publishes a new active announcement.
func (s *AnnouncementService) Create(ctx context.Context, adminID, title, content string) (*domain.Announcement, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, apperrors.NewValidationError("title and content are required", nil)
	}

	announcement := &domain.Announcement{
		AdminID: adminID,
		Title:   title,
		Content: content,
		Active:  true,
	}
	if err := s.announcements.Create(ctx, announcement); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return announcement, nil
}

// SetActive shows or hides an announcement on employee dashboards.
func (s *AnnouncementService) SetActive(ctx context.Context, id string, active bool) error {
	if err := s.announcements.SetActive(ctx, id, active); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// ListAll returns every announcement for admin management.
func (s *AnnouncementService) ListAll(ctx context.Context) ([]domain.Announcement, error) {
	announcements, err := s.announcements.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return announcements, nil
}
