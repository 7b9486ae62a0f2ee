package bookmarkstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/bookdeck/pkg/settings"
)

// DefaultDBName is the database file under the XDG data directory.
const DefaultDBName = "bookmarks.db"

// DatabasePath picks the database file: the BDK_DB environment variable when
// set, otherwise the XDG data directory. The directory is created on demand
// so a first run can open a fresh database.
func DatabasePath() (string, error) {
	if p := os.Getenv("BDK_DB"); p != "" {
		return p, nil
	}
	dir := settings.DataDir()
	if dir == "" {
		return "", fmt.Errorf("data directory could not be determined")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating data dir: %w", err)
	}
	return filepath.Join(dir, DefaultDBName), nil
}

// FindChromeBookmarks looks for a browser "Bookmarks" file to import,
// checking the common Chrome and Chromium profile locations in order.
// Returns an empty string when none exists.
func FindChromeBookmarks() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	candidates := []string{
		filepath.Join(home, ".config", "google-chrome", "Default", "Bookmarks"),
		filepath.Join(home, ".config", "chromium", "Default", "Bookmarks"),
		filepath.Join(home, "Library", "Application Support", "Google", "Chrome", "Default", "Bookmarks"),
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}
