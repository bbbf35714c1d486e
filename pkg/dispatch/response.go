package dispatch

import (
	"net/http"
	"strconv"
)

// Content type values for synthesized responses.
const (
	contentTypePlain = "text/plain; charset=utf-8"
	contentTypeHTML  = "text/html; charset=utf-8"
)

// Response is the terminal outcome of a dispatch call. Exactly one Response
// is produced per call; the engine returns it and never retains it.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Header holds the response headers.
	Header http.Header

	// Body is the response body.
	Body []byte
}

// NewResponse constructs a Response from a body, status code, and optional
// headers. A zero status defaults to 200.
func NewResponse(body []byte, status int, header http.Header) *Response {
	if status == 0 {
		status = http.StatusOK
	}
	if header == nil {
		header = http.Header{}
	}
	return &Response{
		StatusCode: status,
		Header:     header,
		Body:       body,
	}
}

// plainText synthesizes a text/plain response. All diagnostic, error, and
// fallback bodies go through here.
func plainText(status int, body string) *Response {
	h := http.Header{}
	h.Set("Content-Type", contentTypePlain)
	return NewResponse([]byte(body), status, h)
}

// htmlResponse wraps resolved page content in a text/html response with the
// given default status.
func htmlResponse(status int, body []byte) *Response {
	h := http.Header{}
	h.Set("Content-Type", contentTypeHTML)
	return NewResponse(body, status, h)
}

// Write sends the response on a net/http ResponseWriter.
func (r *Response) Write(w http.ResponseWriter) error {
	for key, values := range r.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	if w.Header().Get("Content-Length") == "" {
		w.Header().Set("Content-Length", strconv.Itoa(len(r.Body)))
	}
	w.WriteHeader(r.StatusCode)
	_, err := w.Write(r.Body)
	return err
}
