package bootstrap

import (
	"context"
	"database/sql"

	"github.com/pinmark/pinmark-backend/config"
	"github.com/pinmark/pinmark-backend/internal/access"
	"github.com/pinmark/pinmark-backend/internal/billing"
	commentrepo "github.com/pinmark/pinmark-backend/internal/comments/repository"
	commentsvc "github.com/pinmark/pinmark-backend/internal/comments/service"
	folderrepo "github.com/pinmark/pinmark-backend/internal/folders/repository"
	foldersvc "github.com/pinmark/pinmark-backend/internal/folders/service"
	imagerepo "github.com/pinmark/pinmark-backend/internal/images/repository"
	imagesvc "github.com/pinmark/pinmark-backend/internal/images/service"
	markrepo "github.com/pinmark/pinmark-backend/internal/marks/repository"
	marksvc "github.com/pinmark/pinmark-backend/internal/marks/service"
	"github.com/pinmark/pinmark-backend/internal/notifications/mailer"
	notifrepo "github.com/pinmark/pinmark-backend/internal/notifications/repository"
	notifsvc "github.com/pinmark/pinmark-backend/internal/notifications/service"
	pdomain "github.com/pinmark/pinmark-backend/internal/profiles/domain"
	profilerepo "github.com/pinmark/pinmark-backend/internal/profiles/repository"
	profilesvc "github.com/pinmark/pinmark-backend/internal/profiles/service"
	projectrepo "github.com/pinmark/pinmark-backend/internal/projects/repository"
	projectsvc "github.com/pinmark/pinmark-backend/internal/projects/service"
	sharerepo "github.com/pinmark/pinmark-backend/internal/shares/repository"
	sharesvc "github.com/pinmark/pinmark-backend/internal/shares/service"
)

// Services holds every domain service of the API process.
type Services struct {
	Roles         *access.Checker
	Profiles      *profilesvc.ProfileService
	Projects      *projectsvc.ProjectService
	Folders       *foldersvc.FolderService
	Images        *imagesvc.ImageService
	Comments      *commentsvc.CommentService
	Marks         *marksvc.MarkService
	Shares        *sharesvc.ShareService
	Notifications *notifsvc.NotificationService
	Billing       *billing.Service
}

// NewServices wires repositories and services together.
func NewServices(cfg *config.Config, db *sql.DB, objects imagesvc.ObjectStore, m mailer.Mailer) *Services {
	roles := access.NewChecker(db)

	profiles := profilesvc.NewProfileService(
		profilerepo.NewProfileRepository(db),
		pdomain.PlanLimits{FreeBytes: cfg.Quota.FreeBytes, ProBytes: cfg.Quota.ProBytes},
	)

	folderRepo := folderrepo.NewFolderRepository(db)
	images := imagesvc.NewImageService(
		imagerepo.NewImageRepository(db),
		roles,
		folderRepo,
		objects,
		profiles,
		imagesvc.Options{
			UploadURLTTL:   cfg.Storage.UploadURLTTL,
			ViewURLTTL:     cfg.Storage.ViewURLTTL,
			MaxUploadBytes: cfg.Storage.MaxUploadBytes,
		},
	)
	folders := foldersvc.NewFolderService(folderRepo, roles, images)
	projects := projectsvc.NewProjectService(projectrepo.NewProjectRepository(db), roles, folders, images)

	notifications := notifsvc.NewNotificationService(
		notifrepo.NewNotificationRepository(db),
		roles,
		m,
		mailer.NewRenderer(cfg.Mail.AppURL),
		cfg.Mail.NotifyCooldown,
	)

	return &Services{
		Roles:         roles,
		Profiles:      profiles,
		Projects:      projects,
		Folders:       folders,
		Images:        images,
		Comments:      commentsvc.NewCommentService(commentrepo.NewCommentRepository(db), roles, images, notifications),
		Marks:         marksvc.NewMarkService(markrepo.NewMarkRepository(db), roles, images, notifications),
		Shares:        sharesvc.NewShareService(sharerepo.NewShareRepository(db), roles, profiles, notifications),
		Notifications: notifications,
		Billing:       billing.NewService(cfg.Billing, profiles),
	}
}

// EnsureProfile adapts the profile service to the auth middleware hook.
func (s *Services) EnsureProfile(ctx context.Context, userID, email string) error {
	_, err := s.Profiles.EnsureProfile(ctx, userID, email)
	return err
}
