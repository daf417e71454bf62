package models

type UpdateUserRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
	Role     *Role   `json:"role"`
}

type UpdatePasswordRequest struct {
	Password string `json:"password"`
}
