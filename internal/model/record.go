package model

// CaptureRecord is one recorded tutorial step. BoundingBox is relative to
// the top-left of Screenshot, not to the screen.
type CaptureRecord struct {
	ID          string     `yaml:"id"           json:"id"`
	ElementName string     `yaml:"element_name" json:"element_name"`
	Description string     `yaml:"description"  json:"description"`
	Screenshot  []byte     `yaml:"-"            json:"screenshot_base64"`
	BoundingBox ScreenRect `yaml:"bounding_box" json:"bounding_box"`
	ElementType string     `yaml:"element_type" json:"element_type"`
}
