package valueobjects

import (
	"fmt"
)

// ResourceType classifies what kind of material a resource node points at
type ResourceType string

const (
	ResourceTypeVideo   ResourceType = "video"
	ResourceTypePDF     ResourceType = "pdf"
	ResourceTypeBook    ResourceType = "book"
	ResourceTypeArticle ResourceType = "article"
	ResourceTypeWebsite ResourceType = "website"
	ResourceTypeOther   ResourceType = "other"
)

// DefaultResourceType is used when a form submits no explicit type
const DefaultResourceType = ResourceTypeArticle

// ParseResourceType validates a raw string against the fixed enumeration.
// An empty string resolves to the default type.
func ParseResourceType(s string) (ResourceType, error) {
	switch ResourceType(s) {
	case ResourceTypeVideo, ResourceTypePDF, ResourceTypeBook,
		ResourceTypeArticle, ResourceTypeWebsite, ResourceTypeOther:
		return ResourceType(s), nil
	case "":
		return DefaultResourceType, nil
	default:
		return "", fmt.Errorf("unknown resource type: %q", s)
	}
}

// IsValid checks membership in the enumeration
func (t ResourceType) IsValid() bool {
	_, err := ParseResourceType(string(t))
	return err == nil && t != ""
}
