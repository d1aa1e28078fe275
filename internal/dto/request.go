package dto

type SignUpRequest struct {
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateNoticeRequest comes from a multipart form; the image part is handled
// separately by the handler.
type CreateNoticeRequest struct {
	Title       string
	Description string
	Category    string
	PostedBy    string
}

// UpdateNoticeRequest carries only the fields the form actually supplied.
type UpdateNoticeRequest struct {
	Title       *string
	Description *string
	Category    *string
	PostedBy    *string
	IsArchived  *bool
}
