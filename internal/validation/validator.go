package validation

import (
	"fmt"
	"mime/multipart"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ObjectID parses a hex id from a path or query parameter.
func ObjectID(name, value string) (primitive.ObjectID, error) {
	if value == "" {
		return primitive.NilObjectID, fmt.Errorf("%s is required", name)
	}
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%s is not a valid id", name)
	}
	return id, nil
}

// Upload checks a multipart file's declared content type and size against
// the configured limits.
func Upload(name string, header *multipart.FileHeader, allowedTypes map[string]bool, maxSize int64) error {
	if header == nil {
		return fmt.Errorf("%s file is required", name)
	}
	if header.Size > maxSize {
		return fmt.Errorf("%s exceeds the maximum size of %d bytes", name, maxSize)
	}
	contentType := header.Header.Get("Content-Type")
	if !allowedTypes[contentType] {
		return fmt.Errorf("%s type %q is not allowed", name, contentType)
	}
	return nil
}
