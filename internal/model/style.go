package model

// StyleMetadata is one entry of the catalog's metadata.json, keyed by style
// id.  Name is optional; listings fall back to a title-cased id.
type StyleMetadata struct {
	Name     *string  `json:"name,omitempty"`
	Tags     []string `json:"tags"`
	Gender   string   `json:"gender"`
	Category string   `json:"category"`
}

// Style is the listing view of a catalog entry.
type Style struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	ImagePath string   `json:"image_path"`
	Exists    bool     `json:"exists"`
	Tags      []string `json:"tags"`
	Gender    string   `json:"gender"`
	Category  string   `json:"category"`
}

// StylePatch carries a partial metadata update.
type StylePatch struct {
	Name     *string   `json:"name"`
	Tags     *[]string `json:"tags"`
	Gender   *string   `json:"gender"`
	Category *string   `json:"category"`
}

// Apply assigns every present field of p to m.
func (p StylePatch) Apply(m *StyleMetadata) {
	if p.Name != nil {
		m.Name = p.Name
	}
	if p.Tags != nil {
		m.Tags = *p.Tags
	}
	if p.Gender != nil {
		m.Gender = *p.Gender
	}
	if p.Category != nil {
		m.Category = *p.Category
	}
}
