package domain

// CleanMetadata removes entries whose value is nil, an empty string, or a
// nil pointer, so provenance metadata never carries noise fields. The map is
// modified in place and returned for convenience.
func CleanMetadata(metadata map[string]any) map[string]any {
	for key, value := range metadata {
		switch typed := value.(type) {
		case nil:
			delete(metadata, key)
		case string:
			if typed == "" {
				delete(metadata, key)
			}
		case *float64:
			if typed == nil {
				delete(metadata, key)
			} else {
				metadata[key] = *typed
			}
		case *int:
			if typed == nil {
				delete(metadata, key)
			} else {
				metadata[key] = *typed
			}
		}
	}
	return metadata
}
