package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pinmark/pinmark-backend/internal/access"
	"github.com/pinmark/pinmark-backend/internal/apperr"
	"github.com/pinmark/pinmark-backend/internal/folders/domain"
	idomain "github.com/pinmark/pinmark-backend/internal/images/domain"
	"github.com/pinmark/pinmark-backend/internal/logging"
)

type FolderStore interface {
	Create(ctx context.Context, projectID, parentID, name string) (*domain.Folder, error)
	Get(ctx context.Context, id string) (*domain.Folder, error)
	ListAll(ctx context.Context, projectID string) ([]domain.Folder, error)
	ListChildren(ctx context.Context, projectID, parentID string) ([]domain.Folder, error)
	Children(ctx context.Context, folderID string) ([]domain.Folder, error)
	Path(ctx context.Context, id string) ([]domain.Folder, error)
	Update(ctx context.Context, id, name, parentID string) (*domain.Folder, error)
	Delete(ctx context.Context, id string) error
}

// ImageCleaner removes the images stored directly inside a folder.
type ImageCleaner interface {
	DeleteFolderImages(ctx context.Context, folderID string) (*idomain.DeleteReport, error)
}

// FolderService handles the folder hierarchy and its recursive deletion
type FolderService struct {
	repo   FolderStore
	roles  access.Roler
	images ImageCleaner
}

func NewFolderService(repo FolderStore, roles access.Roler, images ImageCleaner) *FolderService {
	return &FolderService{repo: repo, roles: roles, images: images}
}

func (s *FolderService) Create(ctx context.Context, userID, projectID, parentID, name string) (*domain.Folder, error) {
	name = strings.TrimSpace(name)
	if !domain.ValidName(name) {
		return nil, fmt.Errorf("folder name must be 1-%d characters: %w", domain.MaxNameLen, apperr.ErrInvalidInput)
	}
	if _, err := access.Require(ctx, s.roles, userID, projectID, access.Role.CanContribute); err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, projectID, parentID); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, projectID, parentID, name)
}

// List returns all folders of a project when parentID is nil, otherwise the children of *parentID
// (root folders for an empty string).
func (s *FolderService) List(ctx context.Context, userID, projectID string, parentID *string) ([]domain.Folder, error) {
	if _, err := access.Require(ctx, s.roles, userID, projectID, access.Role.CanView); err != nil {
		return nil, err
	}
	if parentID == nil {
		return s.repo.ListAll(ctx, projectID)
	}
	return s.repo.ListChildren(ctx, projectID, *parentID)
}

// Update renames and/or moves a folder. A folder cannot move under itself or one of its descendants.
func (s *FolderService) Update(ctx context.Context, userID, folderID string, upd domain.Update) (*domain.Folder, error) {
	f, err := s.repo.Get(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if _, err := access.Require(ctx, s.roles, userID, f.ProjectID, access.Role.CanContribute); err != nil {
		return nil, err
	}

	name := f.Name
	if upd.Name != nil {
		name = strings.TrimSpace(*upd.Name)
		if !domain.ValidName(name) {
			return nil, fmt.Errorf("folder name must be 1-%d characters: %w", domain.MaxNameLen, apperr.ErrInvalidInput)
		}
	}

	parentID := ""
	if f.ParentID != nil {
		parentID = *f.ParentID
	}
	if upd.ParentID != nil && *upd.ParentID != parentID {
		parentID = *upd.ParentID
		if err := s.checkParent(ctx, f.ProjectID, parentID); err != nil {
			return nil, err
		}
		if err := s.checkNotBelow(ctx, folderID, parentID); err != nil {
			return nil, err
		}
	}

	return s.repo.Update(ctx, folderID, name, parentID)
}

// Path returns breadcrumbs from the project root down to the folder.
func (s *FolderService) Path(ctx context.Context, userID, folderID string) ([]domain.Folder, error) {
	f, err := s.repo.Get(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if _, err := access.Require(ctx, s.roles, userID, f.ProjectID, access.Role.CanView); err != nil {
		return nil, err
	}
	return s.repo.Path(ctx, folderID)
}

// ProjectOf returns the project a folder belongs to. Callers must check access themselves.
func (s *FolderService) ProjectOf(ctx context.Context, folderID string) (string, error) {
	f, err := s.repo.Get(ctx, folderID)
	if err != nil {
		return "", err
	}
	return f.ProjectID, nil
}

// Delete removes a folder with everything under it. Only the project owner may do so.
func (s *FolderService) Delete(ctx context.Context, userID, folderID string) (*domain.DeleteReport, error) {
	f, err := s.repo.Get(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if _, err := access.Require(ctx, s.roles, userID, f.ProjectID, access.Role.CanManage); err != nil {
		return nil, err
	}

	report := domain.NewDeleteReport()
	if err := s.deleteTree(ctx, folderID, map[string]bool{}, report); err != nil {
		return report, err
	}
	return report, nil
}

// DeleteProjectFolders runs the recursive deletion on every root folder of a project.
// Failed subtrees are recorded in the report and skipped. It performs no access check.
func (s *FolderService) DeleteProjectFolders(ctx context.Context, projectID string) (*domain.DeleteReport, error) {
	roots, err := s.repo.ListChildren(ctx, projectID, "")
	if err != nil {
		return nil, err
	}

	report := domain.NewDeleteReport()
	visited := map[string]bool{}
	for _, root := range roots {
		if err := s.deleteTree(ctx, root.ID, visited, report); err != nil {
			logging.FromContext(ctx).Warn("delete folder failed", zap.String("folder_id", root.ID), zap.Error(err))
			report.FailedFolders = append(report.FailedFolders, root.ID)
		}
	}
	return report, nil
}

// deleteTree deletes children first, then the folder's images, then the folder row.
// A failing child is logged and skipped; the walk carries on with its siblings.
// A folder reached twice means the stored hierarchy has a cycle and is reported as failed.
func (s *FolderService) deleteTree(ctx context.Context, folderID string, visited map[string]bool, report *domain.DeleteReport) error {
	if visited[folderID] {
		return fmt.Errorf("folder %s reached twice, hierarchy has a cycle: %w", folderID, apperr.ErrConflict)
	}
	visited[folderID] = true

	children, err := s.repo.Children(ctx, folderID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := s.deleteTree(ctx, child.ID, visited, report); err != nil {
			logging.FromContext(ctx).Warn("delete subfolder failed",
				zap.String("folder_id", child.ID), zap.String("parent_id", folderID), zap.Error(err))
			report.FailedFolders = append(report.FailedFolders, child.ID)
		}
	}

	imgs, err := s.images.DeleteFolderImages(ctx, folderID)
	if imgs != nil {
		report.ImagesDeleted += imgs.Deleted
		report.FailedObjects = append(report.FailedObjects, imgs.Failed...)
	}
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, folderID); err != nil {
		// already removed by the cascade of a folder deleted further down the walk
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		return err
	}
	report.FoldersDeleted++
	return nil
}

func (s *FolderService) checkParent(ctx context.Context, projectID, parentID string) error {
	if parentID == "" {
		return nil
	}
	parent, err := s.repo.Get(ctx, parentID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return fmt.Errorf("parent folder %s: %w", parentID, apperr.ErrInvalidInput)
		}
		return err
	}
	if parent.ProjectID != projectID {
		return fmt.Errorf("parent folder belongs to another project: %w", apperr.ErrInvalidInput)
	}
	return nil
}

func (s *FolderService) checkNotBelow(ctx context.Context, folderID, newParentID string) error {
	if newParentID == "" {
		return nil
	}
	if newParentID == folderID {
		return fmt.Errorf("a folder cannot be its own parent: %w", apperr.ErrInvalidInput)
	}
	path, err := s.repo.Path(ctx, newParentID)
	if err != nil {
		return err
	}
	for _, f := range path {
		if f.ID == folderID {
			return fmt.Errorf("a folder cannot move into its own subfolder: %w", apperr.ErrInvalidInput)
		}
	}
	return nil
}
