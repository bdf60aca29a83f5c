package model

// Article data model. The title is not part of the record; it lives in the
// storage key.
type Article struct {
	Body string `json:"body"`
}
