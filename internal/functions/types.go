// Package functions serves the serverless-style endpoints under /functions.
// Request and response bodies use camelCase JSON.
package functions

import (
	"context"

	idomain "github.com/pinmark/pinmark-backend/internal/images/domain"
	ndomain "github.com/pinmark/pinmark-backend/internal/notifications/domain"
)

type imageFunctions interface {
	RequestUpload(ctx context.Context, userID string, req idomain.UploadRequest) (*idomain.UploadTicket, error)
	SaveMetadata(ctx context.Context, userID string, req idomain.SaveRequest) (*idomain.Image, error)
	DeleteImage(ctx context.Context, userID, imageID string) error
	DeleteFolderImagesFor(ctx context.Context, userID, folderID string) (*idomain.DeleteReport, error)
}

type activitySender interface {
	SendActivityFor(ctx context.Context, userID, imageID string, kind ndomain.Kind) (*ndomain.Result, error)
}

type inviteSender interface {
	ResendInvite(ctx context.Context, userID, shareID string) error
}

type checkoutCreator interface {
	CreateCheckout(ctx context.Context, userID, email, plan string) (string, error)
}

// Handler bundles the services behind the function endpoints.
type Handler struct {
	images   imageFunctions
	notify   activitySender
	invites  inviteSender
	checkout checkoutCreator
}

func New(images imageFunctions, notify activitySender, invites inviteSender, checkout checkoutCreator) *Handler {
	return &Handler{images: images, notify: notify, invites: invites, checkout: checkout}
}
