package dto

// ErrorResponse is the only failure shape the API exposes. Detail strings
// are category-level; raw upstream errors stay in the server logs.
type ErrorResponse struct {
	Error string `json:"error"`
}
