package types

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/nicolasparada/go-errs"
)

var ErrInvalidContext = coded(CodeInvalidContext, errs.InvalidArgumentError("invalid conversation context"))

type ContextKind string

const (
	ContextKindNone         ContextKind = "none"
	ContextKindAdminSupport ContextKind = "admin_support"
	ContextKindListing      ContextKind = "listing"
	ContextKindRequest      ContextKind = "request"
)

// ConversationContext narrows the dedup scope of a conversation.
// Its canonical text form is one of "none", "admin_support",
// "listing:<id>" or "request:<id>".
type ConversationContext struct {
	Kind ContextKind
	Ref  string
}

var (
	NoContext           = ConversationContext{Kind: ContextKindNone}
	AdminSupportContext = ConversationContext{Kind: ContextKindAdminSupport}
)

func ListingContext(listingID string) ConversationContext {
	return ConversationContext{Kind: ContextKindListing, Ref: listingID}
}

func RequestContext(requestID string) ConversationContext {
	return ConversationContext{Kind: ContextKindRequest, Ref: requestID}
}

func ParseConversationContext(s string) (ConversationContext, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoContext, nil
	}

	kind, ref, hasRef := strings.Cut(s, ":")
	c := ConversationContext{Kind: ContextKind(kind), Ref: ref}
	if hasRef && ref == "" {
		return c, ErrInvalidContext
	}

	return c, c.Validate()
}

func (c ConversationContext) IsZero() bool {
	return c.Kind == "" && c.Ref == ""
}

func (c ConversationContext) Validate() error {
	switch c.Kind {
	case ContextKindNone, ContextKindAdminSupport:
		if c.Ref != "" {
			return ErrInvalidContext
		}
	case ContextKindListing, ContextKindRequest:
		if strings.TrimSpace(c.Ref) == "" || strings.Contains(c.Ref, ":") {
			return ErrInvalidContext
		}
	default:
		return ErrInvalidContext
	}

	return nil
}

func (c ConversationContext) String() string {
	if c.Ref == "" {
		return string(c.Kind)
	}

	return string(c.Kind) + ":" + c.Ref
}

func (c ConversationContext) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ConversationContext) UnmarshalText(b []byte) error {
	parsed, err := ParseConversationContext(string(b))
	if err != nil {
		return err
	}

	*c = parsed
	return nil
}

func (c ConversationContext) Value() (driver.Value, error) {
	return c.String(), nil
}

func (c *ConversationContext) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("scan conversation context: unsupported type %T", src)
	}

	parsed, err := ParseConversationContext(s)
	if err != nil {
		return fmt.Errorf("scan conversation context %q: %w", s, err)
	}

	*c = parsed
	return nil
}
