package transport

// Auth requests.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileUpdateRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// Apartment requests.
type CreateApartmentRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type JoinApartmentRequest struct {
	Code string `json:"code"`
}

type SetCodeRequest struct {
	Code string `json:"code"`
}

// Board requests.
type TaskRequest struct {
	Title      string `json:"title"`
	AssignedTo string `json:"assigned_to"`
	DueDate    string `json:"due_date"`
	Status     string `json:"status"`
}

type TaskBatchRequest struct {
	Tasks []TaskRequest `json:"tasks"`
}

type ExpenseRequest struct {
	Title  string  `json:"title"`
	Amount float64 `json:"amount"`
	PaidBy string  `json:"paid_by"`
	Date   string  `json:"date"`
	Status string  `json:"status"`
}

type AssignRequest struct {
	MemberID string `json:"member_id"`
}

// Rating requests.
type RatingRequest struct {
	UserID  string `json:"user_id"`
	Stars   int    `json:"stars"`
	Comment string `json:"comment"`
}
