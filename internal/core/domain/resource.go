package domain

import (
	"errors"
	"time"
)

// ResourceType classifies a shared resource and constrains who may create it.
type ResourceType string

const (
	ResourceFramework  ResourceType = "framework"
	ResourceWhitepaper ResourceType = "whitepaper"
	ResourceProduct    ResourceType = "product"
)

var ErrResourceNotFound = errors.New("resource not found")
var ErrInvalidResourceType = errors.New("invalid resource type")
var ErrNoAttachment = errors.New("resource has no attachment")

// Resource is a downloadable item shared with the membership.
// FileRef is an opaque reference into external file storage; it is empty for
// resources published without an attachment.
type Resource struct {
	ID          string       `json:"id"`
	Type        ResourceType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	UploaderID  string       `json:"uploader_id"`
	FileRef     string       `json:"file_ref,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// ValidResourceType reports whether t is a known resource type.
func ValidResourceType(t ResourceType) bool {
	switch t {
	case ResourceFramework, ResourceWhitepaper, ResourceProduct:
		return true
	}
	return false
}
