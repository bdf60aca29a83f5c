package articlerequest

import (
	"errors"
	"net/http"
)

// ArticleRequest is the JSON payload accepted by PUT /api/article/{title}.
// The title always comes from the path.
type ArticleRequest struct {
	Body *string `json:"body"`
}

// Bind runs after decoding. Body must be present, though it may be empty.
func (a *ArticleRequest) Bind(r *http.Request) error {
	if a.Body == nil {
		return errors.New("missing required body field")
	}

	return nil
}
