package dto

type CreateCategoryInput struct {
	Name string `validate:"required,max=255"`
}

type UpdateCategoryInput struct {
	ID   string `validate:"required,uuid"`
	Name string `validate:"required,max=255"`
}
