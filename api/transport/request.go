package transport

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateTaskRequest uses pointers so a missing code can be told apart from 0.
type CreateTaskRequest struct {
	Code     *int   `json:"code"`
	Name     string `json:"name"`
	UserCode *int   `json:"user_code"`
}

type StatusRequest struct {
	Status *int `json:"status"`
}
