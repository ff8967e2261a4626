package entity

type Pyme struct {
	ID            string  `json:"id" firestore:"-"`
	Name          string  `json:"nombre_pyme" firestore:"nombre_pyme"`
	Description   string  `json:"descripcion,omitempty" firestore:"descripcion,omitempty"`
	CategoryID    string  `json:"categoria,omitempty" firestore:"categoria,omitempty"`
	SubCategoryID string  `json:"subCategoria,omitempty" firestore:"subCategoria,omitempty"`
	Colonia       string  `json:"colonia,omitempty" firestore:"colonia,omitempty"`
	Address       string  `json:"direccion,omitempty" firestore:"direccion,omitempty"`
	Phone         string  `json:"telefono,omitempty" firestore:"telefono,omitempty"`
	ImageURL      string  `json:"img,omitempty" firestore:"img,omitempty"`
	Latitude      float64 `json:"latitud,omitempty" firestore:"latitud,omitempty"`
	Longitude     float64 `json:"longitud,omitempty" firestore:"longitud,omitempty"`
}

// DisplayName is the name used in messages sent on behalf of the business.
func (p *Pyme) DisplayName() string {
	if p == nil || p.Name == "" {
		return "Pyme"
	}
	return p.Name
}
