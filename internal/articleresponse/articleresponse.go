package articleresponse

import (
	"net/http"
)

// SuccessResponse acknowledges a write. It never echoes the stored article.
type SuccessResponse struct {
	Success bool `json:"success"`
}

func NewSuccessResponse() *SuccessResponse {
	return &SuccessResponse{}
}

func (rd *SuccessResponse) Render(w http.ResponseWriter, r *http.Request) error {
	rd.Success = true

	return nil
}

// ArticleListResponse is the payload of GET /api/articles.
type ArticleListResponse struct {
	Success  bool     `json:"success"`
	Articles []string `json:"articles"`
}

func NewArticleListResponse(titles []string) *ArticleListResponse {
	return &ArticleListResponse{Articles: titles}
}

func (rd *ArticleListResponse) Render(w http.ResponseWriter, r *http.Request) error {
	// encode an empty store as [] rather than null
	if rd.Articles == nil {
		rd.Articles = []string{}
	}
	rd.Success = true

	return nil
}
