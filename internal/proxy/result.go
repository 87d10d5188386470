package proxy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dankservices/blog-site/internal/domain"
	"github.com/dankservices/blog-site/internal/upstream"
)

// MsgInternal is the generic body for every non-404 failure.
const MsgInternal = "Internal server error"

// Result is a client-facing reply: a status and a JSON body.
type Result struct {
	Status int
	Body   []byte
}

// Message is the error envelope returned to clients.
type Message struct {
	Message string `json:"message"`
}

// WriteTo writes r as an application/json response.
func (r Result) WriteTo(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(r.Status)
	_, _ = w.Write(r.Body)
}

// OK reports a 200 result.
func (r Result) OK() bool { return r.Status == http.StatusOK }

// MessageResult is a reply carrying the {"message": "..."} envelope.
func MessageResult(status int, msg string) Result {
	body, _ := marshal(Message{Message: msg})
	return Result{Status: status, Body: body}
}

// InternalError is the uniform 500 reply.
func InternalError() Result { return MessageResult(http.StatusInternalServerError, MsgInternal) }

// NotFound is the resource-specific 404 reply.
func NotFound(msg string) Result { return MessageResult(http.StatusNotFound, msg) }

// MapStatus turns one upstream outcome into a client reply:
//
//	200 with a JSON body -> 200, same bytes
//	404                  -> 404, notFound message
//	anything else        -> 500, generic message
//
// The returned error is nil only for the 200 path and explains the failure
// otherwise, for logging.
func MapStatus(resp *upstream.Response, err error, notFound string) (Result, error) {
	if err != nil {
		return InternalError(), err
	}

	switch resp.Status {
	case http.StatusOK:
		if !json.Valid(resp.Body) {
			return InternalError(), fmt.Errorf("%w: 200 with non-JSON body", domain.ErrUpstreamStatus)
		}
		return Result{Status: http.StatusOK, Body: resp.Body}, nil
	case http.StatusNotFound:
		return NotFound(notFound), domain.ErrNotFound
	default:
		return InternalError(), fmt.Errorf("%w: %d", domain.ErrUpstreamStatus, resp.Status)
	}
}

// IsClientError reports whether err describes an expected outcome (404)
// rather than an upstream or transport failure.
func IsClientError(err error) bool { return errors.Is(err, domain.ErrNotFound) }

// marshal encodes v without HTML escaping so forwarded upstream lists keep
// their exact text.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
