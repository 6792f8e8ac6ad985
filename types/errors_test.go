package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nicolasparada/go-errs"
)

func TestErrorCode(t *testing.T) {
	tt := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "unknown", err: errors.New("boom"), want: ""},
		{name: "self", err: ErrSelfConversation, want: CodeSelfConversation},
		{name: "wrapped", err: fmt.Errorf("resolve: %w", ErrFileTooLarge), want: CodeFileTooLarge},
		{name: "same_kind_distinct", err: ErrUnsupportedType, want: CodeUnsupportedType},
		{name: "invalid_context", err: ErrInvalidContext, want: CodeInvalidContext},
		{name: "store", err: StoreUnavailable(errors.New("dial tcp")), want: CodeStoreUnavailable},
		{name: "attachment", err: AttachmentServiceFailure(errors.New("put object")), want: CodeAttachmentService},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := ErrorCode(tc.err); got != tc.want {
				t.Fatalf("expected code %q, got %q", tc.want, got)
			}
		})
	}
}

func TestErrorFromCode(t *testing.T) {
	for code, want := range codeErrors {
		t.Run(code, func(t *testing.T) {
			got := ErrorFromCode(code, "msg")
			if !errors.Is(got, want) {
				t.Fatalf("expected %v, got %v", want, got)
			}
			if ErrorCode(got) != code {
				t.Fatalf("expected round trip code %q, got %q", code, ErrorCode(got))
			}
		})
	}

	if err := ErrorFromCode("", "msg"); err != nil {
		t.Fatalf("expected nil for empty code, got %v", err)
	}

	err := ErrorFromCode(CodeStoreUnavailable, "timeout")
	if !errors.Is(err, ErrStoreUnavailable) || !IsRetryable(err) {
		t.Fatalf("expected retryable store error, got %v", err)
	}
}

func TestCodedErrorKeepsKind(t *testing.T) {
	if !errors.Is(ErrConversationNotFound, errs.NotFound) {
		t.Fatal("expected not found kind")
	}
	if !errors.Is(ErrNotAParticipant, errs.PermissionDenied) {
		t.Fatal("expected permission denied kind")
	}
	if IsRetryable(ErrConversationNotFound) {
		t.Fatal("not found must not be retryable")
	}
}
