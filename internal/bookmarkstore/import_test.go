package bookmarkstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const chromeFixture = `{
  "version": 1,
  "roots": {
    "bookmark_bar": {
      "id": "1", "name": "Bookmarks bar", "type": "folder",
      "children": [
        {
          "id": "5", "name": "Dev", "type": "folder", "date_added": "13300000000000000",
          "children": [
            {"id": "6", "name": "GitHub", "type": "url", "url": "https://github.com", "date_added": "13300000000000000"},
            {"id": "7", "name": "", "type": "separator"},
            {"id": "8", "name": "GitLab", "type": "url", "url": "https://gitlab.com"}
          ]
        },
        {"id": "9", "name": "Weather", "type": "url", "url": "https://weather.example"}
      ]
    },
    "other": {
      "id": "2", "name": "Other bookmarks", "type": "folder",
      "children": [
        {"id": "20", "name": "Recipes", "type": "url", "url": "https://recipes.example"}
      ]
    },
    "synced": {
      "id": "3", "name": "Mobile bookmarks", "type": "folder",
      "children": [
        {"id": "30", "name": "Phone", "type": "url", "url": "https://phone.example"}
      ]
    }
  }
}`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Bookmarks")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportChrome(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	n, err := s.ImportChrome(ctx, writeFixture(t, chromeFixture))
	if err != nil {
		t.Fatalf("ImportChrome: %v", err)
	}
	// Dev, GitHub, GitLab, Weather, Recipes; the separator and the synced
	// subtree are dropped.
	if n != 5 {
		t.Errorf("imported %d nodes, want 5", n)
	}

	roots, err := s.GetTree(ctx)
	if err != nil {
		t.Fatalf("GetTree: %v", err)
	}
	bar := roots[0]
	if got := childIDs(bar); len(got) != 2 || got[0] != "5" || got[1] != "9" {
		t.Errorf("bar children = %v, want [5 9]", got)
	}
	dev := findNode(roots, "5")
	// The separator's slot is not left as a gap.
	if got := childIDs(dev); len(got) != 2 || got[0] != "6" || got[1] != "8" {
		t.Errorf("Dev children = %v, want [6 8] with dense positions", got)
	}
	if dev.Children[1].Index != 1 {
		t.Errorf("GitLab index = %d, want 1", dev.Children[1].Index)
	}

	if findNode(roots, "30") != nil {
		t.Error("synced bookmarks should not be imported")
	}
	other := roots[1]
	if got := childIDs(other); len(got) != 1 || got[0] != "20" {
		t.Errorf("other children = %v, want [20]", got)
	}

	// 13300000000000000 µs from 1601 = 1655526400000000 µs from 1970.
	if got := findNode(roots, "6").DateAdded; got != 1655526400000 {
		t.Errorf("DateAdded = %d, want Unix millis", got)
	}
}

func TestImportChromeReplacesExisting(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)
	ctx := context.Background()

	if _, err := s.ImportChrome(ctx, writeFixture(t, chromeFixture)); err != nil {
		t.Fatalf("ImportChrome: %v", err)
	}
	roots, _ := s.GetTree(ctx)
	if findNode(roots, "f1") != nil || findNode(roots, "l3") != nil {
		t.Error("previous contents should be cleared by an import")
	}
	if len(roots) != 2 {
		t.Errorf("reserved roots = %d, want both kept", len(roots))
	}
}

func TestImportChromeBadInputs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.ImportChrome(ctx, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("missing file should fail")
	}
	if _, err := s.ImportChrome(ctx, writeFixture(t, "{broken")); err == nil {
		t.Error("unparseable file should fail")
	}
}

func TestChromeMillis(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"13300000000000000", 1655526400000},
		{"0", 0},
		{"", 0},
		{"not-a-number", 0},
	}
	for _, tt := range tests {
		if got := chromeMillis(tt.in); got != tt.want {
			t.Errorf("chromeMillis(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDatabasePathHonorsEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BDK_DB", filepath.Join(dir, "custom.db"))
	got, err := DatabasePath()
	if err != nil {
		t.Fatalf("DatabasePath: %v", err)
	}
	if got != filepath.Join(dir, "custom.db") {
		t.Errorf("path = %q, want the BDK_DB override", got)
	}
}
