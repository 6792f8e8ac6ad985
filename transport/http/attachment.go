package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"syscall"

	"github.com/nakamauwu/casa/types"
	"github.com/nicolasparada/go-errs"
)

const (
	defaultUploadProfile = "chat_file"
	storeInMemoryUntil   = 1 << 20 // 1MB
	// multipartOverhead leaves room for the form boundaries and headers.
	multipartOverhead = 1 << 20 // 1MB
)

var errUnknownUploadProfile = errs.InvalidArgumentError("unknown upload profile")

// Attachment is an uploaded file along its public URL.
type Attachment struct {
	types.AttachmentRef
	URL string `json:"url"`
}

func (h *Handler) uploadAttachment(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	profile := r.URL.Query().Get("profile")
	if profile == "" {
		profile = defaultUploadProfile
	}

	constraints, ok := types.UploadProfileByName(profile)
	if !ok {
		h.respondErr(w, errUnknownUploadProfile)
		return
	}

	if constraints.MaxBytes > 0 {
		if r.ContentLength > constraints.MaxBytes+multipartOverhead {
			h.respondErr(w, types.ErrFileTooLarge)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, constraints.MaxBytes+multipartOverhead)
	}

	if err := r.ParseMultipartForm(storeInMemoryUntil); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErr(w, types.ErrFileTooLarge)
			return
		}

		h.respondErr(w, errBadRequest)
		return
	}

	defer r.MultipartForm.RemoveAll()

	f, header, err := r.FormFile("file")
	if err != nil {
		h.respondErr(w, errBadRequest)
		return
	}

	defer f.Close()

	in := types.UploadAttachment{
		FileName:    header.Filename,
		MIMEType:    declaredMIMEType(header.Header.Get("Content-Type")),
		Size:        header.Size,
		Constraints: constraints,
	}
	in.SetReader(f)

	ref, err := h.Service.UploadAttachment(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, Attachment{
		AttachmentRef: ref,
		URL:           h.Service.AttachmentURL(ref),
	}, http.StatusCreated)
}

// downloadAttachment always serves the file as a download with the
// metadata recorded by the blob storage.
func (h *Handler) downloadAttachment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	in := types.DownloadAttachment{
		StoragePath: q.Get("path"),
		FileName:    q.Get("name"),
	}

	obj, err := h.Service.DownloadAttachment(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	defer obj.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	disposition := mime.FormatMediaType("attachment", map[string]string{
		"filename": in.DownloadName(),
	})
	if disposition == "" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Disposition", disposition)
	if obj.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}

	_, err = io.Copy(w, obj)
	if err != nil && !errors.Is(err, syscall.EPIPE) {
		h.Logger.Error("could not copy attachment to http response", "err", err)
	}
}

// declaredMIMEType drops the generic type browsers send for unknown
// files so the content is sniffed instead.
func declaredMIMEType(s string) string {
	mediaType, _, err := mime.ParseMediaType(s)
	if err != nil || mediaType == "application/octet-stream" {
		return ""
	}

	return mediaType
}
