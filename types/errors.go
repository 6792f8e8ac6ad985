package types

import (
	"errors"

	"github.com/nicolasparada/go-errs"
)

var (
	ErrSelfConversation      = coded(CodeSelfConversation, errs.InvalidArgumentError("cannot start a conversation with yourself"))
	ErrNotAParticipant       = coded(CodeNotAParticipant, errs.PermissionDeniedError("not a participant of this conversation"))
	ErrEmptyMessage          = coded(CodeEmptyMessage, errs.InvalidArgumentError("message requires content or an attachment"))
	ErrFileTooLarge          = coded(CodeFileTooLarge, errs.InvalidArgumentError("file too large"))
	ErrUnsupportedType       = coded(CodeUnsupportedType, errs.InvalidArgumentError("unsupported file type"))
	ErrSupportTargetNotFound = coded(CodeSupportTargetNotFound, errs.NotFoundError("no support administrator available"))
	ErrConversationNotFound  = coded(CodeConversationNotFound, errs.NotFoundError("conversation not found"))
	ErrUserNotFound          = coded(CodeUserNotFound, errs.NotFoundError("user not found"))
	ErrInvalidCursor         = coded(CodeInvalidCursor, errs.InvalidArgumentError("invalid cursor"))
	ErrAttachmentNotFound    = coded(CodeAttachmentNotFound, errs.NotFoundError("attachment not found"))
)

// CodedError gives a go-errs error a stable code. Each sentinel is its
// own pointer so [errors.Is] never confuses two errors of the same kind.
type CodedError struct {
	Code string
	Err  error
}

func coded(code string, err error) *CodedError {
	return &CodedError{Code: code, Err: err}
}

func (e *CodedError) Error() string {
	return e.Err.Error()
}

func (e *CodedError) Unwrap() error {
	return e.Err
}

var (
	// ErrStoreUnavailable is matched with [errors.Is] by callers that
	// want to offer a retry. It never comes alone, see [StoreUnavailable].
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrAttachmentService = errors.New("attachment service unavailable")
)

// UnavailableError is an infrastructure failure. Kind is either
// [ErrStoreUnavailable] or [ErrAttachmentService].
type UnavailableError struct {
	Kind error
	Err  error
}

func StoreUnavailable(err error) error {
	return &UnavailableError{Kind: ErrStoreUnavailable, Err: err}
}

func AttachmentServiceFailure(err error) error {
	return &UnavailableError{Kind: ErrAttachmentService, Err: err}
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *UnavailableError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrAttachmentService)
}

// Stable error codes shared by the HTTP API and its client.
const (
	CodeSelfConversation      = "self_conversation"
	CodeNotAParticipant       = "not_a_participant"
	CodeEmptyMessage          = "empty_message"
	CodeFileTooLarge          = "file_too_large"
	CodeUnsupportedType       = "unsupported_type"
	CodeSupportTargetNotFound = "support_target_not_found"
	CodeConversationNotFound  = "conversation_not_found"
	CodeUserNotFound          = "user_not_found"
	CodeInvalidContext        = "invalid_context"
	CodeInvalidCursor         = "invalid_cursor"
	CodeAttachmentNotFound    = "attachment_not_found"
	CodeStoreUnavailable      = "store_unavailable"
	CodeAttachmentService     = "attachment_service_error"
)

var codeErrors = map[string]error{
	CodeSelfConversation:      ErrSelfConversation,
	CodeNotAParticipant:       ErrNotAParticipant,
	CodeEmptyMessage:          ErrEmptyMessage,
	CodeFileTooLarge:          ErrFileTooLarge,
	CodeUnsupportedType:       ErrUnsupportedType,
	CodeSupportTargetNotFound: ErrSupportTargetNotFound,
	CodeConversationNotFound:  ErrConversationNotFound,
	CodeUserNotFound:          ErrUserNotFound,
	CodeInvalidContext:        ErrInvalidContext,
	CodeInvalidCursor:         ErrInvalidCursor,
	CodeAttachmentNotFound:    ErrAttachmentNotFound,
}

// ErrorCode returns the stable code of a known error, or an empty string.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrStoreUnavailable):
		return CodeStoreUnavailable
	case errors.Is(err, ErrAttachmentService):
		return CodeAttachmentService
	}

	var codedErr *CodedError
	if errors.As(err, &codedErr) {
		return codedErr.Code
	}

	return ""
}

// ErrorFromCode rebuilds an error received through the API so callers
// can keep matching it with [errors.Is].
func ErrorFromCode(code, message string) error {
	switch code {
	case CodeStoreUnavailable:
		return StoreUnavailable(errors.New(message))
	case CodeAttachmentService:
		return AttachmentServiceFailure(errors.New(message))
	}

	if err, ok := codeErrors[code]; ok {
		return err
	}

	return nil
}
