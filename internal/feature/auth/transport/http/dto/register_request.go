package dto

// FullnameReq is the nested name object of a registration request.
type FullnameReq struct {
	Firstname string `json:"firstname" binding:"required,min=3"`
	Lastname  string `json:"lastname" binding:"omitempty,min=3"`
}

// RegisterReq represents the request body for the /register endpoint.
// Binding checks presence and length only; the email format is checked after
// the usecase trims and lower-cases it.
type RegisterReq struct {
	Fullname FullnameReq `json:"fullname"`
	Email    string      `json:"email" binding:"required"`
	Password string      `json:"password" binding:"required,min=6,max=72"`
}
