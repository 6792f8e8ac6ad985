// Package client talks to the chat HTTP API on behalf of a user
// already signed in by the identity collaborator.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nakamauwu/casa/chatsession"
	httptransport "github.com/nakamauwu/casa/transport/http"
	"github.com/nakamauwu/casa/types"
	"github.com/nicolasparada/go-errs"
)

var _ chatsession.Backend = (*Client)(nil)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	user       types.User
}

// New client for the API at baseURL acting as user.
// If httpClient is nil, a default client with a 15s timeout is used.
func New(baseURL string, user types.User, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return &Client{
		baseURL:    u,
		httpClient: httpClient,
		user:       user,
	}, nil
}

func (c *Client) ResolveConversation(ctx context.Context, in types.ResolveConversation) (types.Conversation, error) {
	var out types.Conversation
	err := c.doJSON(ctx, http.MethodPost, "/api/conversations", nil, in, &out)
	return out, err
}

func (c *Client) Conversation(ctx context.Context, conversationID string) (types.Conversation, error) {
	var out types.Conversation
	err := c.doJSON(ctx, http.MethodGet, "/api/conversations/"+url.PathEscape(conversationID), nil, nil, &out)
	return out, err
}

func (c *Client) Conversations(ctx context.Context, first uint, after *string) (types.Page[types.Conversation], error) {
	var out types.Page[types.Conversation]

	q := url.Values{}
	if first > 0 {
		q.Set("first", strconv.FormatUint(uint64(first), 10))
	}
	if after != nil {
		q.Set("after", *after)
	}

	err := c.doJSON(ctx, http.MethodGet, "/api/conversations", q, nil, &out)
	return out, err
}

func (c *Client) SupportConversation(ctx context.Context, subject string) (types.SupportConversation, error) {
	var out types.SupportConversation
	err := c.doJSON(ctx, http.MethodPost, "/api/support_conversation", nil, map[string]string{
		"subject": subject,
	}, &out)
	return out, err
}

func (c *Client) Messages(ctx context.Context, conversationID string, after *string) (chatsession.MessagesPage, error) {
	var out chatsession.MessagesPage

	q := url.Values{}
	if after != nil {
		q.Set("after", *after)
	}

	var page httptransport.MessagesPage
	err := c.doJSON(ctx, http.MethodGet, "/api/conversations/"+url.PathEscape(conversationID)+"/messages", q, nil, &page)
	if err != nil {
		return out, err
	}

	out.Items = make([]chatsession.Message, len(page.Items))
	for i, m := range page.Items {
		out.Items[i] = message(m)
	}
	out.NextCursor = page.NextCursor

	return out, nil
}

func (c *Client) CreateMessage(ctx context.Context, in types.CreateMessage) (chatsession.Message, error) {
	var out httptransport.Message
	err := c.doJSON(ctx, http.MethodPost, "/api/conversations/"+url.PathEscape(in.ConversationID)+"/messages", nil, in, &out)
	if err != nil {
		return chatsession.Message{}, err
	}

	return message(out), nil
}

func (c *Client) UploadAttachment(ctx context.Context, f chatsession.File) (types.AttachmentRef, error) {
	var out httptransport.Attachment

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", multipartFileDisposition(f.Name))
	if f.MIMEType != "" {
		header.Set("Content-Type", f.MIMEType)
	}

	part, err := mw.CreatePart(header)
	if err != nil {
		return out.AttachmentRef, fmt.Errorf("create multipart file part: %w", err)
	}

	if _, err := io.Copy(part, f.Content); err != nil {
		return out.AttachmentRef, fmt.Errorf("copy attachment into multipart body: %w", err)
	}

	if err := mw.Close(); err != nil {
		return out.AttachmentRef, fmt.Errorf("close multipart body: %w", err)
	}

	q := url.Values{}
	if f.Profile != "" {
		q.Set("profile", f.Profile)
	}

	err = c.do(ctx, http.MethodPost, "/api/attachments", q, &body, mw.FormDataContentType(), &out)
	if err != nil {
		return out.AttachmentRef, err
	}

	return out.AttachmentRef, nil
}

// DownloadAttachment streams the contents of ref.
// The caller must close the returned reader.
func (c *Client) DownloadAttachment(ctx context.Context, ref types.AttachmentRef) (io.ReadCloser, error) {
	q := url.Values{}
	q.Set("path", ref.StoragePath)
	q.Set("name", ref.FileName)

	resp, err := c.send(ctx, http.MethodGet, "/api/attachments/download", q, nil, "")
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out httptransport.UnreadCount
	err := c.doJSON(ctx, http.MethodGet, "/api/unread_count", nil, nil, &out)
	return out.UnreadCount, err
}

func (c *Client) MarkRead(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/mark_read", nil, nil, nil)
}

func (c *Client) MarkConversationRead(ctx context.Context, conversationID string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/conversations/"+url.PathEscape(conversationID)+"/read", nil, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, q url.Values, in, out any) error {
	var body io.Reader
	var contentType string
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("json marshal request body: %w", err)
		}

		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	return c.do(ctx, method, path, q, body, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body io.Reader, contentType string, out any) error {
	resp, err := c.send(ctx, method, path, q, body, contentType)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("json decode %s %s response: %w", method, path, err)
	}

	return nil
}

// send returns the response only for a successful status code.
// Transport failures are reported as [types.ErrAttachmentService] on the
// attachment endpoints and as [types.ErrStoreUnavailable] elsewhere.
func (c *Client) send(ctx context.Context, method, path string, q url.Values, body io.Reader, contentType string) (*http.Response, error) {
	u := c.baseURL.JoinPath(path)
	if len(q) != 0 {
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	c.setIdentity(req.Header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("http %s %s: %w", method, path, err)
		if isUnavailable(err) {
			return nil, unavailable(path, err)
		}
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()

	return nil, responseErr(resp)
}

func (c *Client) setIdentity(h http.Header) {
	if c.user.ID == "" {
		return
	}

	h.Set(httptransport.HeaderUserID, c.user.ID)
	if c.user.Role != "" {
		h.Set(httptransport.HeaderUserRole, c.user.Role.String())
	}
	if c.user.FullName != nil {
		h.Set(httptransport.HeaderUserName, *c.user.FullName)
	}
	if c.user.Email != nil {
		h.Set(httptransport.HeaderUserEmail, *c.user.Email)
	}
}

// responseErr rebuilds the error behind a failed response so callers
// can match it with [errors.Is].
func responseErr(resp *http.Response) error {
	var body httptransport.ErrorBody
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(b, &body); err != nil || body.Error == "" {
		body.Error = fmt.Sprintf("http status %d: %s", resp.StatusCode, bytes.TrimSpace(b))
	}

	if err := types.ErrorFromCode(body.Code, body.Error); err != nil {
		return err
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return errs.InvalidArgumentError(body.Error)
	case http.StatusUnauthorized:
		return errs.Unauthenticated
	case http.StatusForbidden:
		return errs.PermissionDeniedError(body.Error)
	case http.StatusNotFound:
		return errs.NotFoundError(body.Error)
	case http.StatusConflict:
		return errs.ConflictError(body.Error)
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return types.StoreUnavailable(errors.New(body.Error))
	}

	return errors.New(body.Error)
}

func unavailable(path string, err error) error {
	if strings.HasPrefix(path, "/api/attachments") {
		return types.AttachmentServiceFailure(err)
	}

	return types.StoreUnavailable(err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func message(m httptransport.Message) chatsession.Message {
	return chatsession.Message{
		Message:       m.Message,
		SenderName:    m.SenderName,
		AttachmentURL: m.AttachmentURL,
	}
}

func multipartFileDisposition(fileName string) string {
	return `form-data; name="file"; filename="` + quoteEscaper.Replace(fileName) + `"`
}
