package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/bookdeck/internal/bookmarkstore"
	"github.com/vanderheijden86/bookdeck/pkg/advisor"
	"github.com/vanderheijden86/bookdeck/pkg/bookmarks"
	"github.com/vanderheijden86/bookdeck/pkg/model"
	"github.com/vanderheijden86/bookdeck/pkg/watcher"
)

const storeCallTimeout = 10 * time.Second

// TreeLoadedMsg carries a fresh tree fetch, either at startup or after an
// external change or rejected mutation forced a full resync.
type TreeLoadedMsg struct {
	Roots []*model.TreeNode
	Err   error
}

// MoveDoneMsg reports the store's verdict on one tracked move.
type MoveDoneMsg struct {
	Op        *bookmarks.MoveOp
	Placement bookmarks.Placement
	Err       error
}

// RemoveDoneMsg reports the store's verdict on one tracked delete.
type RemoveDoneMsg struct {
	Op  *bookmarks.MoveOp
	Err error
}

// RenameDoneMsg reports a title update.
type RenameDoneMsg struct {
	ID  string
	Err error
}

// FileChangedMsg signals that the database file was modified externally.
type FileChangedMsg struct{}

// WatcherErrorMsg surfaces watcher failures without killing the program.
type WatcherErrorMsg struct{ Err error }

// AnalysisStepMsg is a progress milestone from a running batch analysis.
type AnalysisStepMsg struct{ Step advisor.Step }

// AnalysisDoneMsg carries the finished batch. Analyses are persisted by the
// update loop, not by the worker goroutine, so the ratings store stays
// single-writer.
type AnalysisDoneMsg struct {
	Analyses []advisor.Analysis
	Err      error
}

// ConnTestMsg carries the result of an advisory-service connection test.
type ConnTestMsg struct {
	Reply   string
	Elapsed time.Duration
	Err     error
}

// StatusExpireMsg clears a transient status line after its timeout.
type StatusExpireMsg struct{ ID int }

// LoadTreeCmd fetches the full tree from the store.
func LoadTreeCmd(store bookmarkstore.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeCallTimeout)
		defer cancel()
		roots, err := store.GetTree(ctx)
		return TreeLoadedMsg{Roots: roots, Err: err}
	}
}

// MoveCmd submits a tracked move to the store.
func MoveCmd(store bookmarkstore.Store, op *bookmarks.MoveOp) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeCallTimeout)
		defer cancel()
		placement, err := store.Move(ctx, op.BookmarkID, op.ParentID, op.Index)
		return MoveDoneMsg{Op: op, Placement: placement, Err: err}
	}
}

// RemoveCmd submits a tracked delete to the store.
func RemoveCmd(store bookmarkstore.Store, op *bookmarks.MoveOp) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeCallTimeout)
		defer cancel()
		err := store.Remove(ctx, op.BookmarkID)
		return RemoveDoneMsg{Op: op, Err: err}
	}
}

// RenameCmd submits a title update to the store.
func RenameCmd(store bookmarkstore.Store, id, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeCallTimeout)
		defer cancel()
		return RenameDoneMsg{ID: id, Err: store.Update(ctx, id, title)}
	}
}

// WatchFileCmd waits for the next database change and reports it.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// analysisSession funnels worker messages into the update loop one at a time.
type analysisSession struct {
	ch chan tea.Msg
}

func newAnalysisSession() *analysisSession {
	return &analysisSession{ch: make(chan tea.Msg, 8)}
}

// StartAnalysisCmd kicks off a batch analysis worker. Progress and the final
// result arrive through the session; pair with WaitAnalysisCmd.
func StartAnalysisCmd(client *advisor.Client, links []*model.Node, s *analysisSession) tea.Cmd {
	return func() tea.Msg {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
			defer cancel()
			analyses, err := client.AnalyzeBatch(ctx, links, func(st advisor.Step) {
				s.ch <- AnalysisStepMsg{Step: st}
			})
			s.ch <- AnalysisDoneMsg{Analyses: analyses, Err: err}
		}()
		return nil
	}
}

// WaitAnalysisCmd delivers the next message from a running analysis.
func WaitAnalysisCmd(s *analysisSession) tea.Cmd {
	return func() tea.Msg {
		return <-s.ch
	}
}

// TestConnectionCmd probes the advisory service with the current credentials.
func TestConnectionCmd(client *advisor.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		reply, elapsed, err := client.TestConnection(ctx)
		return ConnTestMsg{Reply: reply, Elapsed: elapsed, Err: err}
	}
}

// ExpireStatusCmd clears the status line after d.
func ExpireStatusCmd(id int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return StatusExpireMsg{ID: id}
	})
}
