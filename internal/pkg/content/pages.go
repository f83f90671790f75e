package content

import (
	"context"
	"fmt"
	"regexp"

	"github.com/samber/lo"

	"github.com/fielmedina/backend/app/models"
	"github.com/fielmedina/backend/internal/pkg/upload"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// GetPage returns an active page by slug.
func (s *Service) GetPage(slug string) (*models.Page, error) {
	page, err := s.repos.Page.GetBySlug(slug)
	if err != nil {
		return nil, notFound("page", slug, err)
	}
	return page, nil
}

// ListPages returns all active pages.
func (s *Service) ListPages() ([]models.Page, error) {
	return s.repos.Page.GetActive()
}

func (s *Service) CreatePage(_ context.Context, in PageInput) (*models.Page, error) {
	page := &models.Page{}
	if err := s.checkPage(&in, page); err != nil {
		return nil, err
	}
	if err := s.repos.Page.Create(page); err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return page, nil
}

func (s *Service) UpdatePage(_ context.Context, id uint, in PageInput) (*models.Page, error) {
	page, err := s.repos.Page.GetByID(id)
	if err != nil {
		return nil, notFound("page", id, err)
	}
	if err := s.checkPage(&in, page); err != nil {
		return nil, err
	}
	if err := s.repos.Page.Update(page); err != nil {
		return nil, fmt.Errorf("update page %d: %w", id, err)
	}
	return page, nil
}

func (s *Service) DeletePages(_ context.Context, ids ...uint) (*DeleteResult, error) {
	deleted, err := s.repos.Page.DeleteByIDs(lo.Uniq(ids))
	if err != nil {
		return nil, fmt.Errorf("delete pages %v: %w", ids, err)
	}
	return &DeleteResult{Deleted: deleted}, nil
}

// checkPage validates in and applies it to page.
func (s *Service) checkPage(in *PageInput, page *models.Page) error {
	if err := upload.ValidateInput(in); err != nil {
		return err
	}
	next := *page
	in.apply(&next)
	if !slugPattern.MatchString(next.Slug) {
		return &upload.ValidationError{Field: "slug", Message: "Enter a valid slug consisting of lowercase letters, numbers or hyphens"}
	}
	taken, err := s.repos.Page.SlugExistsExceptID(next.Slug, page.ID)
	if err != nil {
		return fmt.Errorf("check slug %q: %w", next.Slug, err)
	}
	if taken {
		return &upload.ValidationError{Field: "slug", Message: "Page with this URL slug already exists"}
	}
	*page = next
	return nil
}
