package entity

type Categoria struct {
	ID   string `json:"id" firestore:"-"`
	Name string `json:"nombre" firestore:"nombre"`
	Icon string `json:"icono,omitempty" firestore:"icono,omitempty"`
}

type SubCategoria struct {
	ID         string `json:"id" firestore:"-"`
	Name       string `json:"nombre" firestore:"nombre"`
	CategoryID string `json:"idCategoria,omitempty" firestore:"idCategoria,omitempty"`
	Icon       string `json:"icono,omitempty" firestore:"icono,omitempty"`
}

type Colonia struct {
	ID   string `json:"id" firestore:"-"`
	Name string `json:"nombreCol" firestore:"nombreCol"`
}

// ColoniaOption is the picker representation of a colonia.
type ColoniaOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func (c Colonia) Option() ColoniaOption {
	return ColoniaOption{Label: c.Name, Value: c.Name}
}
