package dto

// SectionRequestBody entrada para crear o renombrar una sección.
type SectionRequestBody struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// SectionResponse salida de una sección sin productos.
type SectionResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SectionWithProductsResponse elemento del listado anidado del catálogo.
type SectionWithProductsResponse struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Products []ProductResponse `json:"products"`
}
