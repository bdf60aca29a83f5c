package errresponse

import (
	"net/http"

	"github.com/go-chi/render"
)

// Application error codes carried in ErrResponse.AppCode.
const (
	CodeInvalidRequest int64 = 1000 + iota
	CodeBackend
	CodeRender
	CodeTooLarge
)

// ErrResponse renderer type for handling all sorts of errors.
//
// Err keeps the low-level error for logging; only ErrorText reaches the client.
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	Success    bool   `json:"success"`
	StatusText string `json:"status"`          // user-level status message
	AppCode    int64  `json:"code,omitempty"`  // application-specific error code
	ErrorText  string `json:"error,omitempty"` // application-level error message, for debugging
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)

	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		AppCode:        CodeInvalidRequest,
		ErrorText:      err.Error(),
	}
}

// ErrBackend reports a key-value backend failure.
func ErrBackend(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Backend unavailable.",
		AppCode:        CodeBackend,
		ErrorText:      err.Error(),
	}
}

// ErrTooLarge reports an article the request or the backend cannot hold.
func ErrTooLarge(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusRequestEntityTooLarge,
		StatusText:     "Article too large.",
		AppCode:        CodeTooLarge,
		ErrorText:      err.Error(),
	}
}

func ErrRender(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnprocessableEntity,
		StatusText:     "Error rendering response.",
		AppCode:        CodeRender,
		ErrorText:      err.Error(),
	}
}

var ErrNotFound = &ErrResponse{HTTPStatusCode: http.StatusNotFound, StatusText: "Resource not found."}
