package basetype

import "github.com/google/uuid"

// Catalog maps an external type identifier to the internal Tag
// enumeration, spec.md §6's "Catalog" collaborator. The source keeps
// this as process-wide init-once global state; here it is an ordinary
// value injected into the few parsing/serialization call sites that
// need it (spec.md §9's "inject it as a context" guidance), never a
// package-level global.
type Catalog func(externalID string) (Tag, bool)

// CatalogEntry associates an external type identifier with its Tag
// and an opaque instance ID, the way friggdb/backend.BlockMeta tags a
// block with a UUID distinct from its logical content.
type CatalogEntry struct {
	ExternalID string
	Tag        Tag
	InstanceID uuid.UUID
}

// NewCatalogEntry mints a CatalogEntry with a fresh random instance ID.
func NewCatalogEntry(externalID string, tag Tag) CatalogEntry {
	return CatalogEntry{ExternalID: externalID, Tag: tag, InstanceID: uuid.New()}
}

// StaticCatalog builds a Catalog function over a fixed entry table,
// the common case of a closed set of external type identifiers known
// at startup.
func StaticCatalog(entries []CatalogEntry) Catalog {
	byID := make(map[string]Tag, len(entries))
	for _, e := range entries {
		byID[e.ExternalID] = e.Tag
	}
	return func(externalID string) (Tag, bool) {
		t, ok := byID[externalID]
		return t, ok
	}
}
