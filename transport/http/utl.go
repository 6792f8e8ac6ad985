package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"syscall"

	"github.com/nakamauwu/casa/types"
	"github.com/nicolasparada/go-errs"
	"github.com/nicolasparada/go-errs/httperrs"
)

var (
	errBadRequest = errors.New("bad request")
	errNotFound   = errs.NotFoundError("not found")
)

// ErrorBody is the JSON body of every failed response.
// Code is one of the stable codes from [types.ErrorCode]; it is empty
// for errors without one.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *Handler) respond(w http.ResponseWriter, v any, statusCode int) {
	b, err := json.Marshal(v)
	if err != nil {
		h.respondErr(w, fmt.Errorf("could not json marshal http response body: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err = w.Write(b)
	if err != nil && !errors.Is(err, syscall.EPIPE) && !errors.Is(err, context.Canceled) {
		h.Logger.Error("could not write down http response", "err", err)
	}
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	statusCode := err2code(err)
	body := ErrorBody{
		Error: err.Error(),
		Code:  types.ErrorCode(err),
	}

	switch statusCode {
	case http.StatusInternalServerError:
		if !errors.Is(err, context.Canceled) {
			h.Logger.Error("internal server error", "err", err)
		}
		body.Error = "internal server error"
	case http.StatusServiceUnavailable:
		h.Logger.Error("service unavailable", "err", err)
		body.Error = "service unavailable"
	}

	h.respond(w, body, statusCode)
}

func err2code(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case types.IsRetryable(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, types.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, types.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, errs.InvalidArgument):
		return http.StatusBadRequest
	}

	return httperrs.Code(err)
}

func emptyStrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parsePageArgs(q url.Values) (types.PageArgs, error) {
	var pageArgs types.PageArgs

	if q.Has("first") {
		first, err := strconv.ParseUint(q.Get("first"), 10, 64)
		if err != nil {
			return pageArgs, errs.InvalidArgumentError("invalid first page arg")
		}

		pageArgs.First = new(uint(first))
	}

	if q.Has("after") {
		pageArgs.After = new(q.Get("after"))
	}

	if q.Has("last") {
		last, err := strconv.ParseUint(q.Get("last"), 10, 64)
		if err != nil {
			return pageArgs, errs.InvalidArgumentError("invalid last page arg")
		}

		pageArgs.Last = new(uint(last))
	}

	if q.Has("before") {
		pageArgs.Before = new(q.Get("before"))
	}

	return pageArgs, nil
}
