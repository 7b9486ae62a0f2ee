package bookmarkstore

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/bookdeck/pkg/debug"
	"github.com/vanderheijden86/bookdeck/pkg/model"
)

// chromeNode is one entry in a Chrome/Chromium "Bookmarks" file. Chrome
// encodes ids and timestamps as strings; timestamps count microseconds since
// the Windows epoch (1601-01-01).
type chromeNode struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      string       `json:"type"`
	URL       string       `json:"url"`
	DateAdded string       `json:"date_added"`
	Children  []chromeNode `json:"children"`
}

type chromeFile struct {
	Roots struct {
		BookmarkBar chromeNode `json:"bookmark_bar"`
		Other       chromeNode `json:"other"`
	} `json:"roots"`
	Version int `json:"version"`
}

// Microseconds between the Windows epoch and the Unix epoch.
const windowsToUnixMicros = 11644473600000000

// ImportChrome replaces the store's contents with the bookmarks from a
// Chrome/Chromium "Bookmarks" JSON file. The reserved roots are kept; the
// browser's "synced" root is ignored, matching what a new-tab page sees.
func (s *SQLiteStore) ImportChrome(ctx context.Context, path string) (imported int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading bookmarks file: %w", err)
	}
	var f chromeFile
	if err := json.Unmarshal(data, &f); err != nil {
		return 0, fmt.Errorf("parsing bookmarks file: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes WHERE parent_id != ''`); err != nil {
		return 0, fmt.Errorf("clearing nodes: %w", err)
	}

	insert := func(n chromeNode, parentID string, position int) error {
		var url any
		switch n.Type {
		case "url":
			url = n.URL
		case "folder":
			url = nil
		default:
			// Separators and unknown kinds are dropped, like entries that
			// are neither folder nor link in the flattening pass.
			return nil
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO nodes (id, parent_id, position, title, url, date_added) VALUES (?, ?, ?, ?, ?, ?)`,
			n.ID, parentID, position, n.Name, url, chromeMillis(n.DateAdded))
		if err != nil {
			return fmt.Errorf("inserting %s: %w", n.ID, err)
		}
		imported++
		return nil
	}

	var walk func(children []chromeNode, parentID string) error
	walk = func(children []chromeNode, parentID string) error {
		pos := 0
		for _, c := range children {
			if c.Type != "url" && c.Type != "folder" {
				continue
			}
			if err := insert(c, parentID, pos); err != nil {
				return err
			}
			pos++
			if c.Type == "folder" {
				if err := walk(c.Children, c.ID); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := walk(f.Roots.BookmarkBar.Children, model.RootBarID); err != nil {
		return 0, err
	}
	if err := walk(f.Roots.Other.Children, model.RootOtherID); err != nil {
		return 0, err
	}
	if err := bumpChangeSeq(ctx, tx); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}

	debug.Log("bookmarkstore: imported %d nodes from %s", imported, path)
	return imported, nil
}

// chromeMillis converts Chrome's string-encoded Windows-epoch microsecond
// timestamp to Unix epoch milliseconds. Unparseable values yield zero.
func chromeMillis(s string) int64 {
	micros, err := strconv.ParseInt(s, 10, 64)
	if err != nil || micros == 0 {
		return 0
	}
	return (micros - windowsToUnixMicros) / 1000
}
