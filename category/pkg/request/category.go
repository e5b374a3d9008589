package request

type InsertCategory struct {
	Name        string `validate:"required,min=1,max=255" json:"name"`
	UrlPath     string `validate:"max=255"                json:"url_path"`
	Description string `json:"description"`
}

type UpdateCategory struct {
	Name        *string `validate:"omitempty,min=1,max=255" json:"name"`
	UrlPath     *string `validate:"omitempty,max=255"       json:"url_path"`
	Description *string `json:"description"`
}

type FindCategories struct {
	Name  string `json:"name"`
	Page  int32  `validate:"gte=1"         json:"page"`
	Limit int32  `validate:"gte=1,lte=100" json:"limit"`
}
