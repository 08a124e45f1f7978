package portfolio

// SlotCount is the number of fixed gallery slots shown for a project.
const SlotCount = 5

// ImageKind says where an attached image goes.
type ImageKind string

const (
	KindCover   ImageKind = "cover"
	KindGallery ImageKind = "gallery"
)

// GalleryImage occupies one gallery slot.
type GalleryImage struct {
	ID       string `json:"id,omitempty"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

// Project is a production as returned by the projects endpoint.
type Project struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	CoverImage  string         `json:"coverImage"`
	Images      []GalleryImage `json:"images"`
}

// Slot is one gallery location. Empty slots render as an "add photo" placeholder.
type Slot struct {
	Position int
	Image    GalleryImage
	Filled   bool
}

// Slot returns the image at position p. Two images sharing a position is an
// invariant violation; the first one wins.
func (p Project) Slot(position int) (GalleryImage, bool) {
	for _, img := range p.Images {
		if img.Position == position {
			return img, true
		}
	}
	return GalleryImage{}, false
}

// Slots lays the gallery out over SlotCount fixed slots.
func (p Project) Slots() []Slot {
	slots := make([]Slot, SlotCount)
	for i := range slots {
		img, ok := p.Slot(i)
		slots[i] = Slot{Position: i, Image: img, Filled: ok}
	}
	return slots
}

func cloneProject(p Project) Project {
	if p.Images != nil {
		p.Images = append([]GalleryImage(nil), p.Images...)
	}
	return p
}

func cloneProjects(projects []Project) []Project {
	out := make([]Project, len(projects))
	for i, p := range projects {
		out[i] = cloneProject(p)
	}
	return out
}
