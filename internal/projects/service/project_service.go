package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pinmark/pinmark-backend/internal/access"
	"github.com/pinmark/pinmark-backend/internal/apperr"
	fdomain "github.com/pinmark/pinmark-backend/internal/folders/domain"
	idomain "github.com/pinmark/pinmark-backend/internal/images/domain"
	"github.com/pinmark/pinmark-backend/internal/logging"
	"github.com/pinmark/pinmark-backend/internal/projects/domain"
)

type ProjectStore interface {
	Create(ctx context.Context, ownerID, name, description string, public bool) (*domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Project, error)
	Update(ctx context.Context, p domain.Project) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

type FolderCleaner interface {
	DeleteProjectFolders(ctx context.Context, projectID string) (*fdomain.DeleteReport, error)
}

type RootImageCleaner interface {
	DeleteRootImages(ctx context.Context, projectID string) (*idomain.DeleteReport, error)
}

// ProjectService handles project-related business logic
type ProjectService struct {
	repo    ProjectStore
	roles   access.Roler
	folders FolderCleaner
	images  RootImageCleaner
}

// NewProjectService creates a new project service
func NewProjectService(repo ProjectStore, roles access.Roler, folders FolderCleaner, images RootImageCleaner) *ProjectService {
	return &ProjectService{repo: repo, roles: roles, folders: folders, images: images}
}

// Create creates a new project owned by userID
func (s *ProjectService) Create(ctx context.Context, userID, name, description string, public bool) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if !domain.ValidName(name) {
		return nil, fmt.Errorf("project name must be 1-%d characters: %w", domain.MaxNameLen, apperr.ErrInvalidInput)
	}
	if !domain.ValidDescription(description) {
		return nil, fmt.Errorf("description is longer than %d characters: %w", domain.MaxDescriptionLen, apperr.ErrInvalidInput)
	}

	p, err := s.repo.Create(ctx, userID, name, strings.TrimSpace(description), public)
	if err != nil {
		return nil, err
	}
	p.Role = string(access.RoleOwner)
	return p, nil
}

// List returns owned and shared projects for a user
func (s *ProjectService) List(ctx context.Context, userID string) ([]domain.Project, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *ProjectService) Get(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	role, err := access.Require(ctx, s.roles, userID, projectID, access.Role.CanView)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	p.Role = string(role)
	return p, nil
}

func (s *ProjectService) Update(ctx context.Context, userID, projectID string, upd domain.Update) (*domain.Project, error) {
	role, err := access.Require(ctx, s.roles, userID, projectID, access.Role.CanManage)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		p.Name = strings.TrimSpace(*upd.Name)
		if !domain.ValidName(p.Name) {
			return nil, fmt.Errorf("project name must be 1-%d characters: %w", domain.MaxNameLen, apperr.ErrInvalidInput)
		}
	}
	if upd.Description != nil {
		if !domain.ValidDescription(*upd.Description) {
			return nil, fmt.Errorf("description is longer than %d characters: %w", domain.MaxDescriptionLen, apperr.ErrInvalidInput)
		}
		p.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.IsPublic != nil {
		p.IsPublic = *upd.IsPublic
	}

	out, err := s.repo.Update(ctx, *p)
	if err != nil {
		return nil, err
	}
	out.Role = string(role)
	return out, nil
}

// Delete tears a project down: every root folder through the recursive folder deletion,
// then the images at project root, then the project row.
func (s *ProjectService) Delete(ctx context.Context, userID, projectID string) (*domain.DeleteReport, error) {
	if _, err := access.Require(ctx, s.roles, userID, projectID, access.Role.CanManage); err != nil {
		return nil, err
	}

	report := &domain.DeleteReport{FailedObjects: []string{}, FailedFolders: []string{}}

	folders, err := s.folders.DeleteProjectFolders(ctx, projectID)
	if err != nil {
		return report, err
	}
	report.FoldersDeleted = folders.FoldersDeleted
	report.ImagesDeleted = folders.ImagesDeleted
	report.FailedObjects = append(report.FailedObjects, folders.FailedObjects...)
	report.FailedFolders = append(report.FailedFolders, folders.FailedFolders...)

	images, err := s.images.DeleteRootImages(ctx, projectID)
	if err != nil {
		return report, err
	}
	report.ImagesDeleted += images.Deleted
	report.FailedObjects = append(report.FailedObjects, images.Failed...)

	if err := s.repo.Delete(ctx, projectID); err != nil {
		return report, err
	}

	if len(report.FailedObjects) > 0 || len(report.FailedFolders) > 0 {
		logging.FromContext(ctx).Warn("project deleted with leftovers",
			zap.String("project_id", projectID),
			zap.Strings("failed_objects", report.FailedObjects),
			zap.Strings("failed_folders", report.FailedFolders),
		)
	}
	return report, nil
}
