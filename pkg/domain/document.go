package domain

// DocumentSpec describes the PDF assembled from exported artifacts.
type DocumentSpec struct {
	Path     string        `json:"path" yaml:"path" validate:"required"`
	Title    string        `json:"title" yaml:"title"`
	Template string        `json:"template,omitempty" yaml:"template"`
	Author   string        `json:"author,omitempty" yaml:"author"`
	TOC      bool          `json:"toc" yaml:"toc"`
	Chapters []ChapterSpec `json:"chapters" yaml:"chapters" validate:"dive"`
}

// ChapterSpec is one numbered chapter.
type ChapterSpec struct {
	Title    string        `json:"title" yaml:"title" validate:"required"`
	Text     string        `json:"text,omitempty" yaml:"text"`
	Sections []SectionSpec `json:"sections,omitempty" yaml:"sections" validate:"dive"`
}

// SectionSpec is one sub-chapter holding text, images and data tables.
type SectionSpec struct {
	Title  string      `json:"title" yaml:"title" validate:"required"`
	Text   string      `json:"text,omitempty" yaml:"text"`
	Images []ImageSpec `json:"images,omitempty" yaml:"images" validate:"dive"`
	// Tables names reports whose exported CSV is rendered as a table.
	Tables []string `json:"tables,omitempty" yaml:"tables"`
}

// ImageSpec references an image by report name (resolved against the run's
// exported images) or by explicit path.
type ImageSpec struct {
	Report  string  `json:"report,omitempty" yaml:"report" validate:"required_without=Path"`
	Path    string  `json:"path,omitempty" yaml:"path"`
	Width   float64 `json:"width,omitempty" yaml:"width" validate:"gte=0"`
	Caption string  `json:"caption,omitempty" yaml:"caption"`
}
