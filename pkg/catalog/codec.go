package catalog

import (
	"encoding/json"
	"fmt"
)

// EncodeDocument serializes a catalog document for persistence.
func EncodeDocument(doc *CatalogDocument) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog document: %w", err)
	}
	return data, nil
}

// DecodeDocument parses a persisted catalog document. Unparseable content
// and unsupported schema versions both fail with ErrCorruptDocument: the
// document is the sole source of truth and there is no repair path.
func DecodeDocument(data []byte) (*CatalogDocument, error) {
	var doc CatalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	if doc.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: unsupported schema version %d", ErrCorruptDocument, doc.SchemaVersion)
	}
	return &doc, nil
}
