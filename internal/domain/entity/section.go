package entity

// Section agrupa productos bajo un nombre (ej. "Dairy").
type Section struct {
	ID   int64
	Name string
}
