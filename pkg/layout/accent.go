package layout

import "hash/fnv"

// PaletteSize is the number of accent slots the UI palette provides.
const PaletteSize = 12

// AccentAssigner maps folder ids onto accent slots for one render session.
// Assignment is a stable hash of the folder id, so a folder keeps its color
// across re-renders, reloads and processes — there is no ordering-dependent
// counter state to reset.
type AccentAssigner struct {
	size int
}

// NewAccentAssigner returns an assigner over size palette slots. A
// non-positive size falls back to PaletteSize.
func NewAccentAssigner(size int) AccentAssigner {
	if size <= 0 {
		size = PaletteSize
	}
	return AccentAssigner{size: size}
}

// Index returns the palette slot for folderID. The empty id (the unfiled
// area) always maps to slot zero.
func (a AccentAssigner) Index(folderID string) int {
	if folderID == "" {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(folderID))
	return int(h.Sum32() % uint32(a.size))
}
