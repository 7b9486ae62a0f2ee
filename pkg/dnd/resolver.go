// Package dnd computes the destination of a drop gesture. The resolvers are
// pure: they read the flat map, classify the drop target and return a move
// intent (or nothing). Applying the move — locally and against the store —
// is the caller's business.
package dnd

import (
	"github.com/vanderheijden86/bookdeck/pkg/bookmarks"
	"github.com/vanderheijden86/bookdeck/pkg/model"
)

// RootZoneID is the sentinel target id for the synthetic top-level drop zone.
// It never resolves to a node in the map.
const RootZoneID = "root"

// TargetKind classifies what the pointer was over when the drop ended.
type TargetKind int

const (
	// TargetNone means there was no valid drop target.
	TargetNone TargetKind = iota
	// TargetFolder means the drop landed on a folder header.
	TargetFolder
	// TargetContainer means the drop landed on a column's empty area; the
	// target id is a zone sentinel (RootZoneID or the column's folder id).
	TargetContainer
	// TargetLink means the drop landed on a specific link row.
	TargetLink
)

// Target describes the drop destination as observed by the UI. DropBefore is
// only meaningful for TargetLink and records whether the cursor sat in the
// upper half of the target row.
type Target struct {
	Kind       TargetKind
	ID         string
	DropBefore bool
}

// Move is a resolved drop: move BookmarkID under ParentID at Index. Index is
// the desired final position among the destination's children, after the
// source has vacated its old slot.
type Move struct {
	BookmarkID string
	ParentID   string
	Index      int
}

// Resolve classifies a drop with whole-row granularity and returns the move
// to perform, or ok=false for a no-op. Resolution order:
//
//  1. no target, or target equals source: nothing to do
//  2. target is a container sentinel: resolve the zone to a parent id (the
//     root zone or a folder's own drop area) and append
//  3. target is a folder: append at the end of its link children (this wins
//     even when the folder is empty)
//  4. target is a link in the same parent: reorder around it
//  5. target is a link in another parent: insert immediately after it
//
// The same-parent reorder arithmetic compensates for the source vacating an
// earlier slot: moving forward inserts after the target, moving backward
// inserts at the target's position.
func Resolve(m bookmarks.FlatMap, sourceID string, t Target) (Move, bool) {
	src := m.Get(sourceID)
	if src == nil || t.Kind == TargetNone || t.ID == sourceID {
		return Move{}, false
	}

	if t.Kind == TargetContainer {
		parentID, ok := resolveZone(m, t.ID)
		if !ok {
			return Move{}, false
		}
		return finish(src, Move{
			BookmarkID: sourceID,
			ParentID:   parentID,
			Index:      len(m.LinkChildren(parentID)),
		})
	}

	tn := m.Get(t.ID)
	if tn == nil {
		return Move{}, false
	}
	if tn.IsFolder() {
		return finish(src, Move{
			BookmarkID: sourceID,
			ParentID:   tn.ID,
			Index:      len(m.LinkChildren(tn.ID)),
		})
	}

	if src.ParentID == tn.ParentID {
		active, target := src.Index, tn.Index
		if active == target {
			return Move{}, false
		}
		newIndex := target
		if active <= target {
			newIndex = target + 1
		}
		return finish(src, Move{BookmarkID: sourceID, ParentID: src.ParentID, Index: newIndex})
	}

	return finish(src, Move{BookmarkID: sourceID, ParentID: tn.ParentID, Index: tn.Index + 1})
}

// ResolveFine is the geometry-based variant for drops onto a specific link
// row: the cursor half picks before/after, and a same-parent source sitting
// above the target shifts the computed index down by one to account for its
// own removal. Non-link targets fall through to the coarse resolver.
func ResolveFine(m bookmarks.FlatMap, sourceID string, t Target) (Move, bool) {
	src := m.Get(sourceID)
	if src == nil || t.Kind == TargetNone || t.ID == sourceID {
		return Move{}, false
	}
	tn := m.Get(t.ID)
	if t.Kind != TargetLink || tn == nil || tn.IsFolder() {
		return Resolve(m, sourceID, t)
	}

	newIndex := tn.Index
	if !t.DropBefore {
		newIndex++
	}
	if src.ParentID == tn.ParentID && src.Index < tn.Index {
		newIndex--
		if newIndex < 0 {
			newIndex = 0
		}
	}
	return finish(src, Move{BookmarkID: sourceID, ParentID: tn.ParentID, Index: newIndex})
}

// resolveZone maps a container sentinel onto a concrete parent id: the root
// zone becomes the synthetic top-level parent, a real folder's empty drop
// zone becomes that folder, anything else is not a drop target.
func resolveZone(m bookmarks.FlatMap, zoneID string) (string, bool) {
	if zoneID == RootZoneID {
		return model.TopLevelParentID, true
	}
	if m.Folder(zoneID) != nil {
		return zoneID, true
	}
	return "", false
}

// finish suppresses moves whose destination equals the source's current
// (parent, index) tuple, so the caller skips the wasted store round trip.
func finish(src *model.Node, mv Move) (Move, bool) {
	if mv.ParentID == src.ParentID && mv.Index == src.Index {
		return Move{}, false
	}
	return mv, true
}
