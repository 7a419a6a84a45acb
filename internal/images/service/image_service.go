package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pinmark/pinmark-backend/internal/access"
	"github.com/pinmark/pinmark-backend/internal/apperr"
	"github.com/pinmark/pinmark-backend/internal/images/domain"
	"github.com/pinmark/pinmark-backend/internal/logging"
	"github.com/pinmark/pinmark-backend/internal/metrics"
	pdomain "github.com/pinmark/pinmark-backend/internal/profiles/domain"
	"github.com/pinmark/pinmark-backend/internal/storage/objectstore"
)

const backgroundTimeout = 10 * time.Second

type ImageStore interface {
	Insert(ctx context.Context, img domain.Image) (*domain.Image, error)
	Get(ctx context.Context, id string) (*domain.Image, error)
	List(ctx context.Context, projectID, folderID string) ([]domain.Image, error)
	ListRoot(ctx context.Context, projectID string) ([]domain.Image, error)
	ListByFolder(ctx context.Context, folderID string) ([]domain.Image, error)
	Update(ctx context.Context, id, name, folderID string) (*domain.Image, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) ([]domain.Removed, error)
}

type ObjectStore interface {
	PresignPut(ctx context.Context, key, contentType string, size int64, ttl time.Duration) (*objectstore.PresignedURL, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (*objectstore.PresignedURL, error)
	Head(ctx context.Context, key string) (*objectstore.ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}

// QuotaKeeper reads and adjusts per-user storage usage.
type QuotaKeeper interface {
	CheckQuota(ctx context.Context, userID string, additional int64) (*pdomain.Quota, error)
	AdjustStorage(ctx context.Context, userID string, delta int64) (int64, error)
}

// FolderLocator resolves the project a folder belongs to.
type FolderLocator interface {
	ProjectOf(ctx context.Context, folderID string) (string, error)
}

type Options struct {
	UploadURLTTL   time.Duration
	ViewURLTTL     time.Duration
	MaxUploadBytes int64
}

// ImageService handles uploads, image metadata and object lifecycle
type ImageService struct {
	repo    ImageStore
	roles   access.Roler
	folders FolderLocator
	objects ObjectStore
	quota   QuotaKeeper
	opts    Options

	// async runs post-commit bookkeeping. Tests replace it to run inline.
	async func(func())
}

func NewImageService(repo ImageStore, roles access.Roler, folders FolderLocator, objects ObjectStore, quota QuotaKeeper, opts Options) *ImageService {
	return &ImageService{
		repo:    repo,
		roles:   roles,
		folders: folders,
		objects: objects,
		quota:   quota,
		opts:    opts,
		async:   func(f func()) { go f() },
	}
}

// RequestUpload checks permissions and quota, then issues a pre-signed PUT for a fresh key.
func (s *ImageService) RequestUpload(ctx context.Context, userID string, req domain.UploadRequest) (*domain.UploadTicket, error) {
	req.FileName = strings.TrimSpace(req.FileName)
	if req.FileName == "" || req.ProjectID == "" {
		return nil, fmt.Errorf("fileName and projectId are required: %w", apperr.ErrInvalidInput)
	}
	if !domain.IsImageType(req.FileType) {
		return nil, fmt.Errorf("file type %q is not an image: %w", req.FileType, apperr.ErrInvalidInput)
	}
	if req.FileSize <= 0 || req.FileSize > s.opts.MaxUploadBytes {
		return nil, fmt.Errorf("file size must be between 1 and %d bytes: %w", s.opts.MaxUploadBytes, apperr.ErrInvalidInput)
	}

	if _, err := access.Require(ctx, s.roles, userID, req.ProjectID, access.Role.CanContribute); err != nil {
		return nil, err
	}
	if err := s.checkFolder(ctx, req.ProjectID, req.FolderID); err != nil {
		return nil, err
	}

	if _, err := s.quota.CheckQuota(ctx, userID, req.FileSize); err != nil {
		if errors.Is(err, apperr.ErrQuotaExceeded) {
			metrics.RecordQuotaRejection()
		}
		return nil, err
	}

	key := objectstore.NewKey(userID, req.ProjectID, req.FolderID, req.FileName).String()
	signed, err := s.objects.PresignPut(ctx, key, req.FileType, req.FileSize, s.opts.UploadURLTTL)
	if err != nil {
		return nil, err
	}
	metrics.RecordUploadURL()

	return &domain.UploadTicket{
		UploadURL: signed.URL,
		Key:       key,
		Headers:   signed.Headers,
		ExpiresAt: signed.ExpiresAt,
	}, nil
}

// SaveMetadata records an uploaded object. The stored size is the object's real size.
func (s *ImageService) SaveMetadata(ctx context.Context, userID string, req domain.SaveRequest) (*domain.Image, error) {
	name := strings.TrimSpace(req.FileName)
	if !domain.ValidName(name) || req.ProjectID == "" || req.Key == "" {
		return nil, fmt.Errorf("key, fileName and projectId are required: %w", apperr.ErrInvalidInput)
	}
	if !domain.IsImageType(req.FileType) {
		return nil, fmt.Errorf("file type %q is not an image: %w", req.FileType, apperr.ErrInvalidInput)
	}

	if _, err := access.Require(ctx, s.roles, userID, req.ProjectID, access.Role.CanContribute); err != nil {
		return nil, err
	}

	if !strings.HasPrefix(req.Key, objectstore.Prefix(userID, req.ProjectID)) {
		return nil, fmt.Errorf("key does not belong to this user and project: %w", apperr.ErrForbidden)
	}
	key, err := objectstore.ParseKey(req.Key)
	if err != nil {
		return nil, err
	}
	if key.FolderID != req.FolderID {
		return nil, fmt.Errorf("key folder does not match folderId: %w", apperr.ErrInvalidInput)
	}
	if err := s.checkFolder(ctx, req.ProjectID, req.FolderID); err != nil {
		return nil, err
	}

	info, err := s.objects.Head(ctx, req.Key)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("object was not uploaded: %w", apperr.ErrInvalidInput)
		}
		return nil, err
	}

	row := domain.Image{
		ProjectID:   req.ProjectID,
		UploaderID:  userID,
		Name:        name,
		StorageKey:  req.Key,
		Size:        info.Size,
		ContentType: req.FileType,
	}
	if req.FolderID != "" {
		row.FolderID = &req.FolderID
	}

	img, err := s.repo.Insert(ctx, row)
	if err != nil {
		return nil, err
	}

	s.adjustLater(ctx, userID, img.Size)
	s.attachURL(ctx, img)
	return img, nil
}

func (s *ImageService) Get(ctx context.Context, userID, imageID string) (*domain.Image, error) {
	img, err := s.repo.Get(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if _, err := access.Require(ctx, s.roles, userID, img.ProjectID, access.Role.CanView); err != nil {
		return nil, err
	}
	s.attachURL(ctx, img)
	return img, nil
}

// ProjectOf returns the project an image belongs to. Callers must check access themselves.
func (s *ImageService) ProjectOf(ctx context.Context, imageID string) (string, error) {
	img, err := s.repo.Get(ctx, imageID)
	if err != nil {
		return "", err
	}
	return img.ProjectID, nil
}

// List returns the images in a folder, or at project root when folderID is empty.
func (s *ImageService) List(ctx context.Context, userID, projectID, folderID string) ([]domain.Image, error) {
	if _, err := access.Require(ctx, s.roles, userID, projectID, access.Role.CanView); err != nil {
		return nil, err
	}
	if err := s.checkFolder(ctx, projectID, folderID); err != nil {
		return nil, err
	}
	out, err := s.repo.List(ctx, projectID, folderID)
	if err != nil {
		return nil, err
	}
	for i := range out {
		s.attachURL(ctx, &out[i])
	}
	return out, nil
}

func (s *ImageService) Update(ctx context.Context, userID, imageID string, upd domain.Update) (*domain.Image, error) {
	img, err := s.repo.Get(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if _, err := access.Require(ctx, s.roles, userID, img.ProjectID, access.Role.CanContribute); err != nil {
		return nil, err
	}

	name := img.Name
	if upd.Name != nil {
		name = strings.TrimSpace(*upd.Name)
		if !domain.ValidName(name) {
			return nil, fmt.Errorf("name must be 1-%d characters: %w", domain.MaxNameLen, apperr.ErrInvalidInput)
		}
	}

	folderID := ""
	if img.FolderID != nil {
		folderID = *img.FolderID
	}
	if upd.FolderID != nil {
		folderID = *upd.FolderID
		if err := s.checkFolder(ctx, img.ProjectID, folderID); err != nil {
			return nil, err
		}
	}

	out, err := s.repo.Update(ctx, imageID, name, folderID)
	if err != nil {
		return nil, err
	}
	s.attachURL(ctx, out)
	return out, nil
}

// DeleteImage removes an image. Only its uploader or the project owner may do so.
// Object and usage cleanup failures are logged and do not fail the call.
func (s *ImageService) DeleteImage(ctx context.Context, userID, imageID string) error {
	img, err := s.repo.Get(ctx, imageID)
	if err != nil {
		return err
	}
	role, err := access.Require(ctx, s.roles, userID, img.ProjectID, access.Role.CanView)
	if err != nil {
		return err
	}
	if !role.CanManage() && img.UploaderID != userID {
		return fmt.Errorf("only the uploader or project owner can delete an image: %w", apperr.ErrForbidden)
	}

	log := logging.FromContext(ctx)
	err = s.objects.Delete(ctx, img.StorageKey)
	metrics.RecordObjectDelete(err)
	if err != nil {
		log.Warn("delete object failed", zap.String("image_id", img.ID), zap.String("key", img.StorageKey), zap.Error(err))
	}

	if err := s.repo.Delete(ctx, img.ID); err != nil {
		return err
	}

	if _, err := s.quota.AdjustStorage(ctx, img.UploaderID, -img.Size); err != nil {
		log.Warn("decrement storage usage failed", zap.String("user_id", img.UploaderID), zap.Error(err))
	}
	return nil
}

// DeleteFolderImagesFor deletes the images directly inside a folder on behalf of the project owner.
func (s *ImageService) DeleteFolderImagesFor(ctx context.Context, userID, folderID string) (*domain.DeleteReport, error) {
	projectID, err := s.folders.ProjectOf(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if _, err := access.Require(ctx, s.roles, userID, projectID, access.Role.CanManage); err != nil {
		return nil, err
	}
	return s.DeleteFolderImages(ctx, folderID)
}

// DeleteFolderImages removes every image directly inside folderID. It performs no access check.
func (s *ImageService) DeleteFolderImages(ctx context.Context, folderID string) (*domain.DeleteReport, error) {
	imgs, err := s.repo.ListByFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	return s.deleteAll(ctx, imgs)
}

// DeleteRootImages removes every image at the root of projectID. It performs no access check.
func (s *ImageService) DeleteRootImages(ctx context.Context, projectID string) (*domain.DeleteReport, error) {
	imgs, err := s.repo.ListRoot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.deleteAll(ctx, imgs)
}

// deleteAll removes objects one by one, collecting failures, then drops all rows
// and gives back to each uploader the bytes of the rows that were actually removed.
func (s *ImageService) deleteAll(ctx context.Context, imgs []domain.Image) (*domain.DeleteReport, error) {
	report := &domain.DeleteReport{Failed: []string{}}
	if len(imgs) == 0 {
		return report, nil
	}

	log := logging.FromContext(ctx)
	ids := make([]string, 0, len(imgs))
	for _, img := range imgs {
		err := s.objects.Delete(ctx, img.StorageKey)
		metrics.RecordObjectDelete(err)
		if err != nil {
			log.Warn("delete object failed", zap.String("image_id", img.ID), zap.String("key", img.StorageKey), zap.Error(err))
			report.Failed = append(report.Failed, img.StorageKey)
		}
		ids = append(ids, img.ID)
	}

	removed, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return report, err
	}
	report.Deleted = len(removed)

	freed := make(map[string]int64)
	for _, rm := range removed {
		freed[rm.UploaderID] += rm.Size
	}

	for uploader, bytes := range freed {
		if _, err := s.quota.AdjustStorage(ctx, uploader, -bytes); err != nil {
			log.Warn("decrement storage usage failed", zap.String("user_id", uploader), zap.Int64("bytes", bytes), zap.Error(err))
		}
	}
	return report, nil
}

func (s *ImageService) checkFolder(ctx context.Context, projectID, folderID string) error {
	if folderID == "" {
		return nil
	}
	owner, err := s.folders.ProjectOf(ctx, folderID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return fmt.Errorf("folder %s: %w", folderID, apperr.ErrInvalidInput)
		}
		return err
	}
	if owner != projectID {
		return fmt.Errorf("folder does not belong to the project: %w", apperr.ErrInvalidInput)
	}
	return nil
}

func (s *ImageService) adjustLater(ctx context.Context, userID string, delta int64) {
	bg := context.WithoutCancel(ctx)
	s.async(func() {
		ctx, cancel := context.WithTimeout(bg, backgroundTimeout)
		defer cancel()
		if _, err := s.quota.AdjustStorage(ctx, userID, delta); err != nil {
			logging.FromContext(ctx).Error("increment storage usage failed",
				zap.String("user_id", userID), zap.Int64("bytes", delta), zap.Error(err))
		}
	})
}

func (s *ImageService) attachURL(ctx context.Context, img *domain.Image) {
	signed, err := s.objects.PresignGet(ctx, img.StorageKey, s.opts.ViewURLTTL)
	if err != nil {
		logging.FromContext(ctx).Warn("presign view url failed", zap.String("image_id", img.ID), zap.Error(err))
		return
	}
	img.URL = signed.URL
}
