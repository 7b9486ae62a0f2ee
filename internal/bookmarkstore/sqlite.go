package bookmarkstore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/bookdeck/pkg/bookmarks"
	"github.com/vanderheijden86/bookdeck/pkg/debug"
	"github.com/vanderheijden86/bookdeck/pkg/model"
)

// SQLiteStore implements Store on a single SQLite database file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS nodes (
	id         TEXT PRIMARY KEY,
	parent_id  TEXT NOT NULL,
	position   INTEGER NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	url        TEXT,
	date_added INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id, position);
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);
`

// Open opens (or creates) the database at path, applies the schema, and
// seeds the two reserved roots when absent.
func Open(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	roots := []struct{ id, title string }{
		{model.RootBarID, "Bookmarks bar"},
		{model.RootOtherID, "Other bookmarks"},
	}
	for i, r := range roots {
		_, err := db.Exec(
			`INSERT OR IGNORE INTO nodes (id, parent_id, position, title) VALUES (?, '', ?, ?)`,
			r.id, i, r.title)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("seeding roots: %w", err)
		}
	}
	if _, err := db.Exec(`INSERT OR IGNORE INTO meta (key, value) VALUES ('change_seq', 0)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding meta: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database file path, for the file watcher.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type row struct {
	id       string
	parentID string
	position int
	title    string
	url      sql.NullString
	added    int64
}

// GetTree loads every node and assembles the forest under the reserved
// roots. Sibling order follows stored positions; TreeNode.Index is the dense
// sibling position, which equals the stored one as long as the invariant
// holds.
func (s *SQLiteStore) GetTree(ctx context.Context) ([]*model.TreeNode, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, parent_id, position, title, url, date_added FROM nodes ORDER BY parent_id, position`)
	if err != nil {
		return nil, fmt.Errorf("loading nodes: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*model.TreeNode)
	childRows := make(map[string][]row)
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.parentID, &r.position, &r.title, &r.url, &r.added); err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		n := &model.TreeNode{
			ID:        r.id,
			Title:     r.title,
			ParentID:  r.parentID,
			DateAdded: r.added,
		}
		if r.url.Valid {
			n.URL = r.url.String
		} else {
			// A folder carries a non-nil child slice even when empty.
			n.Children = []*model.TreeNode{}
		}
		byID[r.id] = n
		childRows[r.parentID] = append(childRows[r.parentID], r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}

	for parentID, rs := range childRows {
		parent := byID[parentID]
		if parent == nil && parentID != "" {
			// Orphaned subtree, invisible from the roots.
			debug.Log("bookmarkstore: %d nodes under missing parent %q", len(rs), parentID)
			continue
		}
		sort.Slice(rs, func(i, j int) bool { return rs[i].position < rs[j].position })
		for i, r := range rs {
			child := byID[r.id]
			child.Index = i
			if parent != nil {
				parent.Children = append(parent.Children, child)
			}
		}
	}

	var forest []*model.TreeNode
	for _, id := range []string{model.RootBarID, model.RootOtherID} {
		if n := byID[id]; n != nil {
			forest = append(forest, n)
		}
	}
	return forest, nil
}

// Search matches query case-insensitively against titles and URLs, skipping
// the reserved roots.
func (s *SQLiteStore) Search(ctx context.Context, query string) ([]FlatResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, parent_id, position, title, COALESCE(url, '')
		FROM nodes
		WHERE parent_id != ''
		  AND (lower(title) LIKE ? ESCAPE '\' OR lower(COALESCE(url, '')) LIKE ? ESCAPE '\')
		ORDER BY parent_id, position`,
		pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("searching nodes: %w", err)
	}
	defer rows.Close()

	var out []FlatResult
	for rows.Next() {
		var r FlatResult
		if err := rows.Scan(&r.ID, &r.ParentID, &r.Index, &r.Title, &r.URL); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Move implements Store.Move: final-position semantics, clamped, dense
// positions maintained on both the old and new parent.
func (s *SQLiteStore) Move(ctx context.Context, id, parentID string, index int) (bookmarks.Placement, error) {
	var placement bookmarks.Placement
	if model.IsReservedRoot(id) {
		return placement, ErrReservedRoot
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return placement, fmt.Errorf("begin move: %w", err)
	}
	defer tx.Rollback()

	var oldParent string
	var oldPos int
	var url sql.NullString
	err = tx.QueryRowContext(ctx, `SELECT parent_id, position, url FROM nodes WHERE id = ?`, id).
		Scan(&oldParent, &oldPos, &url)
	if err == sql.ErrNoRows {
		return placement, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return placement, fmt.Errorf("loading node: %w", err)
	}

	if parentID == "" {
		parentID = oldParent
	}
	if parentID != oldParent {
		if err := s.checkDestination(ctx, tx, id, parentID, !url.Valid); err != nil {
			return placement, err
		}
	}

	// Lift the node out of its old slot and close the gap.
	if _, err := tx.ExecContext(ctx,
		`UPDATE nodes SET position = position - 1 WHERE parent_id = ? AND position > ?`,
		oldParent, oldPos); err != nil {
		return placement, fmt.Errorf("renumbering old siblings: %w", err)
	}

	var siblings int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM nodes WHERE parent_id = ? AND id != ?`, parentID, id).
		Scan(&siblings)
	if err != nil {
		return placement, fmt.Errorf("counting siblings: %w", err)
	}
	if index < 0 || index > siblings {
		index = siblings
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE nodes SET position = position + 1 WHERE parent_id = ? AND position >= ? AND id != ?`,
		parentID, index, id); err != nil {
		return placement, fmt.Errorf("opening destination slot: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE nodes SET parent_id = ?, position = ? WHERE id = ?`,
		parentID, index, id); err != nil {
		return placement, fmt.Errorf("placing node: %w", err)
	}
	if err := bumpChangeSeq(ctx, tx); err != nil {
		return placement, err
	}
	if err := tx.Commit(); err != nil {
		return placement, fmt.Errorf("commit move: %w", err)
	}

	debug.Log("bookmarkstore: moved %s to parent=%s index=%d", id, parentID, index)
	return bookmarks.Placement{ID: id, ParentID: parentID, Index: index}, nil
}

// checkDestination verifies the new parent exists, is a folder, and is not
// inside the moving node's own subtree.
func (s *SQLiteStore) checkDestination(ctx context.Context, tx *sql.Tx, id, parentID string, isFolder bool) error {
	var destURL sql.NullString
	var destParent string
	err := tx.QueryRowContext(ctx, `SELECT url, parent_id FROM nodes WHERE id = ?`, parentID).
		Scan(&destURL, &destParent)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: destination %s", ErrNotFound, parentID)
	}
	if err != nil {
		return fmt.Errorf("loading destination: %w", err)
	}
	if destURL.Valid {
		return fmt.Errorf("destination %s is not a folder", parentID)
	}
	if !isFolder {
		return nil
	}

	for cur := parentID; cur != ""; {
		if cur == id {
			return ErrCycle
		}
		var next string
		err := tx.QueryRowContext(ctx, `SELECT parent_id FROM nodes WHERE id = ?`, cur).Scan(&next)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return fmt.Errorf("walking ancestors: %w", err)
		}
		cur = next
	}
	return nil
}

// Remove deletes a node and all descendants, then closes the sibling gap.
func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	if model.IsReservedRoot(id) {
		return ErrReservedRoot
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin remove: %w", err)
	}
	defer tx.Rollback()

	var parentID string
	var pos int
	err = tx.QueryRowContext(ctx, `SELECT parent_id, position FROM nodes WHERE id = ?`, id).
		Scan(&parentID, &pos)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("loading node: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		WITH RECURSIVE subtree(id) AS (
			SELECT id FROM nodes WHERE id = ?
			UNION ALL
			SELECT n.id FROM nodes n JOIN subtree s ON n.parent_id = s.id
		)
		DELETE FROM nodes WHERE id IN (SELECT id FROM subtree)`, id)
	if err != nil {
		return fmt.Errorf("deleting subtree: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE nodes SET position = position - 1 WHERE parent_id = ? AND position > ?`,
		parentID, pos); err != nil {
		return fmt.Errorf("renumbering siblings: %w", err)
	}
	if err := bumpChangeSeq(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit remove: %w", err)
	}

	debug.Log("bookmarkstore: removed %s", id)
	return nil
}

// Update renames a node.
func (s *SQLiteStore) Update(ctx context.Context, id, title string) error {
	if model.IsReservedRoot(id) {
		return ErrReservedRoot
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE nodes SET title = ? WHERE id = ?`, title, id)
	if err != nil {
		return fmt.Errorf("renaming node: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := bumpChangeSeq(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

// LastModified returns the mutation counter bumped by every local write.
func (s *SQLiteStore) LastModified(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'change_seq'`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("reading change counter: %w", err)
	}
	return seq, nil
}

func bumpChangeSeq(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE meta SET value = value + 1 WHERE key = 'change_seq'`); err != nil {
		return fmt.Errorf("bumping change counter: %w", err)
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
