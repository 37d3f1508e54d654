package dto

type CreateCustomerInput struct {
	Name    string `validate:"required,max=255"`
	Phone   string `validate:"omitempty,max=50"`
	Address string `validate:"omitempty,max=500"`
}

type UpdateCustomerInput struct {
	ID      string `validate:"required,uuid"`
	Name    string `validate:"required,max=255"`
	Phone   string `validate:"omitempty,max=50"`
	Address string `validate:"omitempty,max=500"`
}
