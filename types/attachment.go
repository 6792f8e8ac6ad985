package types

import (
	"io"
	"path"
	"strings"

	"github.com/nakamauwu/casa/validator"
)

// AttachmentRef points to a previously uploaded file.
// StoragePath is opaque to everything but the blob storage.
type AttachmentRef struct {
	StoragePath string `json:"storagePath"`
	FileName    string `json:"fileName"`
	MIMEType    string `json:"mimeType"`
	SizeBytes   int64  `json:"sizeBytes"`
	Width       uint32 `json:"width,omitempty"`
	Height      uint32 `json:"height,omitempty"`
}

func (a AttachmentRef) IsImage() bool {
	return strings.HasPrefix(a.MIMEType, "image/")
}

func (a AttachmentRef) validate(v *validator.Validator) {
	if strings.TrimSpace(a.StoragePath) == "" {
		v.AddError("Attachment", "Attachment storage path is required")
	}
	if strings.TrimSpace(a.FileName) == "" {
		v.AddError("Attachment", "Attachment file name is required")
	}
	if strings.TrimSpace(a.MIMEType) == "" {
		v.AddError("Attachment", "Attachment MIME type is required")
	}
	if a.SizeBytes < 0 {
		v.AddError("Attachment", "Attachment size cannot be negative")
	}
}

// UploadConstraints limit what an upload accepts.
// An empty AllowedMIMEPrefixes means any type is accepted.
type UploadConstraints struct {
	MaxBytes            int64    `json:"maxBytes"`
	AllowedMIMEPrefixes []string `json:"allowedMIMEPrefixes"`
}

var (
	ChatImageConstraints = UploadConstraints{
		MaxBytes:            5 << 20, // 5MB
		AllowedMIMEPrefixes: []string{"image/"},
	}
	ChatFileConstraints = UploadConstraints{
		MaxBytes: 10 << 20, // 10MB
	}
	ListingImageConstraints = UploadConstraints{
		MaxBytes:            10 << 20, // 10MB
		AllowedMIMEPrefixes: []string{"image/"},
	}
	ListingVideoConstraints = UploadConstraints{
		MaxBytes:            100 << 20, // 100MB
		AllowedMIMEPrefixes: []string{"video/"},
	}
)

var uploadProfiles = map[string]UploadConstraints{
	"chat_image":    ChatImageConstraints,
	"chat_file":     ChatFileConstraints,
	"listing_image": ListingImageConstraints,
	"listing_video": ListingVideoConstraints,
}

// UploadProfileByName returns the named constraints profile.
func UploadProfileByName(name string) (UploadConstraints, bool) {
	c, ok := uploadProfiles[name]
	return c, ok
}

// Check fails with [ErrFileTooLarge] or [ErrUnsupportedType].
func (c UploadConstraints) Check(size int64, mimeType string) error {
	if c.MaxBytes > 0 && size > c.MaxBytes {
		return ErrFileTooLarge
	}

	if len(c.AllowedMIMEPrefixes) == 0 {
		return nil
	}

	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	for _, prefix := range c.AllowedMIMEPrefixes {
		if strings.HasPrefix(mimeType, strings.ToLower(prefix)) {
			return nil
		}
	}

	return ErrUnsupportedType
}

type UploadAttachment struct {
	FileName    string
	MIMEType    string
	Size        int64
	Constraints UploadConstraints

	reader     io.ReadSeeker
	uploaderID string
}

func (in *UploadAttachment) SetReader(r io.ReadSeeker) {
	in.reader = r
}

func (in UploadAttachment) Reader() io.ReadSeeker {
	return in.reader
}

func (in *UploadAttachment) SetUploaderID(userID string) {
	in.uploaderID = userID
}

func (in UploadAttachment) UploaderID() string {
	return in.uploaderID
}

// Validate checks everything that can be known before transferring
// a single byte. The MIME type is checked only when declared.
func (in *UploadAttachment) Validate() error {
	in.FileName = strings.TrimSpace(in.FileName)
	in.MIMEType = strings.TrimSpace(in.MIMEType)

	v := validator.New()
	if in.reader == nil {
		v.AddError("File", "File is required")
	}
	if in.FileName == "" {
		v.AddError("FileName", "File name is required")
	}
	if in.Size <= 0 {
		v.AddError("Size", "File cannot be empty")
	}
	if err := v.AsError(); err != nil {
		return err
	}

	if in.MIMEType == "" {
		if in.Constraints.MaxBytes > 0 && in.Size > in.Constraints.MaxBytes {
			return ErrFileTooLarge
		}
		return nil
	}

	return in.Constraints.Check(in.Size, in.MIMEType)
}

// BlobObject is a stored file being read. Size and ContentType come from
// the blob storage, never from the caller.
type BlobObject struct {
	io.ReadCloser
	Size        int64
	ContentType string
}

type DownloadAttachment struct {
	StoragePath string
	// FileName is only used to name the download.
	FileName string
}

func (in *DownloadAttachment) Validate() error {
	in.StoragePath = strings.TrimSpace(in.StoragePath)
	in.FileName = strings.TrimSpace(in.FileName)

	clean := path.Clean(in.StoragePath) == in.StoragePath &&
		!path.IsAbs(in.StoragePath) &&
		!strings.HasPrefix(in.StoragePath, "..")

	v := validator.New()
	v.Check(in.StoragePath != "", "StoragePath", "Storage path is required")
	v.Check(in.StoragePath == "" || clean, "StoragePath", "Storage path is invalid")
	return v.AsError()
}

// DownloadName is the file name offered to the browser.
func (in DownloadAttachment) DownloadName() string {
	if in.FileName != "" {
		return in.FileName
	}

	return path.Base(in.StoragePath)
}
