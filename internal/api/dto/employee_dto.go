package dto

// CreateEmployeeRequest payload for a new roster entry.
type CreateEmployeeRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Phone      string `json:"phone" validate:"max=40"`
	Department string `json:"department" validate:"max=120"`
	Position   string `json:"position" validate:"max=120"`
	HireDate   string `json:"hire_date"`
}

// UpdateEmployeeRequest payload; empty fields keep their stored value.
type UpdateEmployeeRequest struct {
	Name       string `json:"name" validate:"max=120"`
	Email      string `json:"email" validate:"omitempty,email"`
	Password   string `json:"password" validate:"omitempty,min=6"`
	Phone      string `json:"phone" validate:"max=40"`
	Department string `json:"department" validate:"max=120"`
	Position   string `json:"position" validate:"max=120"`
	HireDate   string `json:"hire_date"`
}
