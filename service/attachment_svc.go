package service

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	_ "github.com/gen2brain/avif"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/nakamauwu/casa/auth"
	"github.com/nakamauwu/casa/types"
	"github.com/nicolasparada/go-errs"
	_ "golang.org/x/image/webp"
)

// AttachmentsBucket holds every chat attachment.
const AttachmentsBucket = "chat-attachments"

// UploadAttachment checks in against its constraints and only then
// transfers the file. The returned reference can be sent along a message.
func (svc *Service) UploadAttachment(ctx context.Context, in types.UploadAttachment) (types.AttachmentRef, error) {
	var out types.AttachmentRef

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetUploaderID(loggedInUser.ID)

	r := in.Reader()
	if in.MIMEType == "" {
		mimeType, err := detectContentType(r)
		if err != nil {
			return out, err
		}

		if err := in.Constraints.Check(in.Size, mimeType); err != nil {
			return out, err
		}

		in.MIMEType = mimeType
	}

	out = types.AttachmentRef{
		FileName:  in.FileName,
		MIMEType:  in.MIMEType,
		SizeBytes: in.Size,
	}

	if out.IsImage() {
		out.Width, out.Height = imageDimensions(r)
	}

	objectName, err := gonanoid.New()
	if err != nil {
		return types.AttachmentRef{}, fmt.Errorf("generate attachment object name: %w", err)
	}

	out.StoragePath = path.Join(sanitizeFileName(in.UploaderID()), objectName+"-"+sanitizeFileName(in.FileName))

	err = svc.Blob.Upload(ctx, out.StoragePath, r, in.Size, out.MIMEType)
	if err != nil {
		return types.AttachmentRef{}, types.AttachmentServiceFailure(fmt.Errorf("upload attachment: %w", err))
	}

	svc.Metrics.attachmentUploaded(in.Size)

	return out, nil
}

// AttachmentURL is where a client can display or fetch ref from.
func (svc *Service) AttachmentURL(ref types.AttachmentRef) string {
	return svc.Blob.PublicURL(ref.StoragePath)
}

// DownloadAttachment streams a file the logged in user uploaded or can see
// in one of their conversations. The caller must close the returned object.
func (svc *Service) DownloadAttachment(ctx context.Context, in types.DownloadAttachment) (types.BlobObject, error) {
	var out types.BlobObject

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	if !strings.HasPrefix(in.StoragePath, sanitizeFileName(loggedInUser.ID)+"/") {
		visible, err := svc.Store.AttachmentVisible(ctx, in.StoragePath, loggedInUser.ID)
		if err != nil {
			return out, err
		}

		if !visible {
			return out, types.ErrAttachmentNotFound
		}
	}

	out, err := svc.Blob.Download(ctx, in.StoragePath)
	if err != nil {
		return out, types.AttachmentServiceFailure(fmt.Errorf("download attachment: %w", err))
	}

	return out, nil
}

// maxOrientedPixels caps the images fully decoded to honor their EXIF
// orientation. Bigger ones report the dimensions of their header.
const maxOrientedPixels = 24_000_000

// imageDimensions reads the image header of r and rewinds it.
// Undecodable images report zero dimensions.
func imageDimensions(r io.ReadSeeker) (uint32, uint32) {
	defer func() {
		_, _ = r.Seek(0, io.SeekStart)
	}()

	cfg, format, err := image.DecodeConfig(r)
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0
	}

	// Only JPEG carries an EXIF orientation that can swap the sides.
	if format != "jpeg" || cfg.Width*cfg.Height > maxOrientedPixels {
		return uint32(cfg.Width), uint32(cfg.Height)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return uint32(cfg.Width), uint32(cfg.Height)
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return uint32(cfg.Width), uint32(cfg.Height)
	}

	b := img.Bounds()
	return uint32(b.Dx()), uint32(b.Dy())
}
