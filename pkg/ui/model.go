// Package ui is the bookdeck terminal front end: a column board over the
// bookmark store with search, keyboard drag and drop, ratings and settings.
package ui

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/bookdeck/internal/bookmarkstore"
	"github.com/vanderheijden86/bookdeck/pkg/advisor"
	"github.com/vanderheijden86/bookdeck/pkg/bookmarks"
	"github.com/vanderheijden86/bookdeck/pkg/debug"
	"github.com/vanderheijden86/bookdeck/pkg/dnd"
	"github.com/vanderheijden86/bookdeck/pkg/layout"
	"github.com/vanderheijden86/bookdeck/pkg/model"
	"github.com/vanderheijden86/bookdeck/pkg/ratings"
	"github.com/vanderheijden86/bookdeck/pkg/settings"
	"github.com/vanderheijden86/bookdeck/pkg/watcher"
)

// focus represents which UI element has keyboard focus
type focus int

const (
	focusBoard focus = iota
	focusSearch
	focusHelp
	focusSettings
	focusRatings
	focusConfirmDelete
	focusRename
)

// How many unrated links one analysis batch submits. Bounds the prompt size.
const analyzeBatchLimit = 20

// Model is the root bubbletea model.
type Model struct {
	theme Theme

	store   bookmarkstore.Store
	watcher *watcher.Watcher
	cfg     settings.Config

	flat    bookmarks.FlatMap
	tracker *bookmarks.Tracker

	board        BoardModel
	searchView   SearchModel
	ratingsView  RatingsModel
	settingsView SettingsModel

	ratingsStore *ratings.Store
	advClient    *advisor.Client
	session      *analysisSession

	focus     focus
	prevFocus focus

	width  int
	height int
	ready  bool

	loading   bool
	statusMsg string
	statusID  int
	errMsg    string

	helpText string

	confirmDeleteID string
	renamingID      string
	renameInput     textinput.Model

	showDebug bool
}

// NewModel assembles the root model. ratingsStore may be empty but not nil.
func NewModel(store bookmarkstore.Store, rs *ratings.Store, cfg settings.Config, w *watcher.Watcher) Model {
	theme := DefaultTheme(lipgloss.DefaultRenderer())

	ri := textinput.New()
	ri.CharLimit = 200
	ri.Width = 50

	m := Model{
		theme:        theme,
		store:        store,
		watcher:      w,
		cfg:          cfg,
		tracker:      bookmarks.NewTracker(),
		board:        NewBoardModel(theme),
		searchView:   NewSearchModel(theme),
		ratingsView:  NewRatingsModel(theme),
		settingsView: NewSettingsModel(theme, cfg),
		ratingsStore: rs,
		advClient:    advisor.NewClient(cfg.AI),
		renameInput:  ri,
		loading:      true,
		showDebug:    cfg.ShowDebugInfo,
	}
	m.ratingsView.RefreshStats(rs)
	return m
}

// Stop releases background resources. Safe to call more than once.
func (m Model) Stop() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{LoadTreeCmd(m.store)}
	if m.watcher != nil {
		cmds = append(cmds, WatchFileCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The settings form needs every message type, not just keys, for its
	// internal navigation to work.
	if m.focus == focusSettings {
		return m.updateSettings(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.board.SetSize(msg.Width-2, msg.Height-4)
		m.searchView.SetSize(msg.Width-2, msg.Height-4)
		return m, nil

	case TreeLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errMsg = fmt.Sprintf("loading bookmarks: %v", msg.Err)
			return m, nil
		}
		m.errMsg = ""
		m.flat = bookmarks.Flatten(msg.Roots)
		m.tracker.Resynced()
		m.relayout()
		debug.Log("ui: tree loaded, %d nodes", len(m.flat))
		return m, nil

	case FileChangedMsg:
		// External writer touched the database: refetch, re-arm the watch.
		cmds = append(cmds, LoadTreeCmd(m.store))
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case WatcherErrorMsg:
		m.errMsg = fmt.Sprintf("watcher: %v", msg.Err)
		return m, nil

	case MoveDoneMsg:
		return m.handleMoveDone(msg)

	case RemoveDoneMsg:
		return m.handleRemoveDone(msg)

	case RenameDoneMsg:
		if msg.Err != nil {
			m.errMsg = fmt.Sprintf("rename: %v", msg.Err)
			return m, LoadTreeCmd(m.store)
		}
		return m, nil

	case AnalysisStepMsg:
		m.ratingsView.SetStep(msg.Step)
		return m, WaitAnalysisCmd(m.session)

	case AnalysisDoneMsg:
		m.ratingsView.Finish(msg.Err)
		m.session = nil
		if msg.Err != nil {
			return m, nil
		}
		rs := make([]model.Rating, len(msg.Analyses))
		for i, a := range msg.Analyses {
			rs[i] = a.Rating()
		}
		if err := m.ratingsStore.Put(rs...); err != nil {
			m.errMsg = fmt.Sprintf("saving ratings: %v", err)
		}
		m.ratingsView.RefreshStats(m.ratingsStore)
		return m, nil

	case ConnTestMsg:
		if msg.Err != nil {
			m.errMsg = fmt.Sprintf("connection test: %v", msg.Err)
		} else {
			return m.setStatus(fmt.Sprintf("service replied in %v: %s",
				msg.Elapsed.Round(time.Millisecond), clipCell(msg.Reply, 40)))
		}
		return m, nil

	case spinner.TickMsg:
		if m.ratingsView.Running() {
			var cmd tea.Cmd
			*m.ratingsView.Spinner(), cmd = m.ratingsView.Spinner().Update(msg)
			return m, cmd
		}
		return m, nil

	case StatusExpireMsg:
		if msg.ID == m.statusID {
			m.statusMsg = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.settingsView.SetSize(size.Width, size.Height)
	}

	form, cmd := m.settingsView.Form().Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.settingsView.SetForm(f)
	}

	if m.settingsView.Aborted() {
		m.focus = focusBoard
		m.settingsView = NewSettingsModel(m.theme, m.cfg)
		return m, cmd
	}
	if m.settingsView.Completed() {
		m.cfg = m.settingsView.Config()
		if err := settings.Save(m.cfg); err != nil {
			m.errMsg = fmt.Sprintf("saving settings: %v", err)
		}
		m.advClient = advisor.NewClient(m.cfg.AI)
		m.showDebug = m.cfg.ShowDebugInfo
		m.relayout()
		m.focus = focusBoard
		m.settingsView = NewSettingsModel(m.theme, m.cfg)
		next, scmd := m.setStatus("settings saved")
		return next, tea.Batch(cmd, scmd)
	}
	return m, cmd
}

func (m Model) handleMoveDone(msg MoveDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// The authoritative store refused the move: drop the optimistic
		// state and resync from scratch.
		m.tracker.Reject(msg.Op)
		m.errMsg = fmt.Sprintf("move rejected: %v", msg.Err)
		return m, LoadTreeCmd(m.store)
	}
	if m.tracker.IsLatest(msg.Op) {
		// Only the newest operation per bookmark may reconcile; confirming
		// a superseded move against current state would corrupt ordering.
		if err := m.flat.Reconcile(msg.Placement); err != nil {
			m.errMsg = fmt.Sprintf("reconcile: %v", err)
			m.tracker.Confirm(msg.Op)
			return m, LoadTreeCmd(m.store)
		}
		m.relayout()
	}
	m.tracker.Confirm(msg.Op)
	return m, nil
}

func (m Model) handleRemoveDone(msg RemoveDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.tracker.Reject(msg.Op)
		m.errMsg = fmt.Sprintf("delete rejected: %v", msg.Err)
		return m, LoadTreeCmd(m.store)
	}
	m.tracker.Confirm(msg.Op)
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusSearch:
		return m.handleSearchKeys(msg)
	case focusHelp:
		switch msg.String() {
		case "esc", "q", "?":
			m.focus = m.prevFocus
		}
		return m, nil
	case focusRatings:
		return m.handleRatingsKeys(msg)
	case focusConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	case focusRename:
		return m.handleRenameKeys(msg)
	default:
		return m.handleBoardKeys(msg)
	}
}

func (m Model) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if _, moving := m.board.Moving(); moving {
		return m.handleMoveModeKeys(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.Stop()
		return m, tea.Quit

	case "left", "h":
		m.board.MoveCursor(-1, 0)
	case "right", "l":
		m.board.MoveCursor(1, 0)
	case "up", "k":
		m.board.MoveCursor(0, -1)
	case "down", "j":
		m.board.MoveCursor(0, 1)
	case "g":
		m.board.Home()

	case "/":
		m.focus = focusSearch
		m.searchView.Focus()
		return m, textinput.Blink

	case "enter", "o":
		if link := m.board.CursorLink(); link != nil {
			if err := openURL(link.URL); err != nil {
				m.errMsg = fmt.Sprintf("opening link: %v", err)
				return m, nil
			}
			return m.setStatus("opened " + clipCell(link.URL, 50))
		}

	case "y":
		if link := m.board.CursorLink(); link != nil {
			if err := clipboard.WriteAll(link.URL); err != nil {
				m.errMsg = fmt.Sprintf("clipboard: %v", err)
				return m, nil
			}
			return m.setStatus("copied " + clipCell(link.URL, 50))
		}

	case "m":
		if m.board.StartMove() {
			return m.setStatus("move mode: land on a target, enter drops, esc cancels")
		}

	case "d":
		if link := m.board.CursorLink(); link != nil {
			m.confirmDeleteID = link.ID
			m.focus = focusConfirmDelete
		}

	case "e":
		if link := m.board.CursorLink(); link != nil {
			m.renamingID = link.ID
			m.renameInput.SetValue(link.Title)
			m.renameInput.Focus()
			m.focus = focusRename
			return m, textinput.Blink
		}

	case "r":
		m.prevFocus = m.focus
		m.focus = focusRatings
		m.ratingsView.RefreshStats(m.ratingsStore)

	case "s":
		m.focus = focusSettings
		m.settingsView = NewSettingsModel(m.theme, m.cfg)
		m.settingsView.SetSize(m.width, m.height)
		return m, m.settingsView.Form().Init()

	case "D":
		m.showDebug = !m.showDebug

	case "?":
		m.prevFocus = m.focus
		m.focus = focusHelp
		if m.helpText == "" {
			if text, err := RenderHelp(m.width); err == nil {
				m.helpText = text
			} else {
				m.helpText = helpMarkdown
			}
		}
	}
	return m, nil
}

func (m Model) handleMoveModeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.board.CancelMove()
		return m.setStatus("move cancelled")

	case "left", "h":
		m.board.MoveCursor(-1, 0)
	case "right", "l":
		m.board.MoveCursor(1, 0)
	case "up", "k":
		m.board.MoveCursor(0, -1)
	case "down", "j":
		m.board.MoveCursor(0, 1)

	case "b":
		m.board.ToggleDropBefore()

	case "enter", " ":
		return m.commitMove()
	}
	return m, nil
}

// commitMove resolves the cursor target and applies the move optimistically,
// then submits it to the store.
func (m Model) commitMove() (tea.Model, tea.Cmd) {
	id, moving := m.board.Moving()
	if !moving {
		return m, nil
	}
	target := m.board.DropTarget()

	var mv dnd.Move
	var ok bool
	if target.Kind == dnd.TargetLink {
		mv, ok = dnd.ResolveFine(m.flat, id, target)
	} else {
		mv, ok = dnd.Resolve(m.flat, id, target)
	}
	m.board.CancelMove()
	if !ok {
		return m.setStatus("nothing to do")
	}

	destParent := mv.ParentID
	if destParent == model.TopLevelParentID {
		destParent = model.RootBarID
	}
	if err := m.flat.ApplyMove(id, destParent, mv.Index); err != nil {
		m.errMsg = fmt.Sprintf("move: %v", err)
		return m, LoadTreeCmd(m.store)
	}
	m.relayout()

	op := m.tracker.BeginMove(id, destParent, mv.Index)
	return m, MoveCmd(m.store, op)
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		id := m.confirmDeleteID
		m.confirmDeleteID = ""
		m.focus = focusBoard
		m.flat.ApplyDelete(id)
		m.relayout()
		op := m.tracker.BeginDelete(id)
		return m, RemoveCmd(m.store, op)

	case "n", "N", "esc", "q":
		m.confirmDeleteID = ""
		m.focus = focusBoard
	}
	return m, nil
}

func (m Model) handleRenameKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.renamingID = ""
		m.renameInput.Blur()
		m.focus = focusBoard
		return m, nil

	case "enter":
		id := m.renamingID
		title := m.renameInput.Value()
		m.renamingID = ""
		m.renameInput.Blur()
		m.focus = focusBoard
		if n := m.flat.Get(id); n != nil {
			n.Title = title
		}
		m.relayout()
		return m, RenameCmd(m.store, id, title)
	}

	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchView.Blur()
		m.focus = focusBoard
		return m, nil

	case "enter":
		if link := m.searchView.FirstMatchLink(); link != nil {
			if err := openURL(link.URL); err != nil {
				m.errMsg = fmt.Sprintf("opening link: %v", err)
				return m, nil
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	*m.searchView.Input(), cmd = m.searchView.Input().Update(msg)
	m.searchView.Refresh(m.flat)
	return m, cmd
}

func (m Model) handleRatingsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "r":
		m.focus = m.prevFocus
		return m, nil

	case "a":
		return m.startAnalysis()

	case "t":
		if !m.advClient.Ready() {
			m.errMsg = "configure the AI credentials in settings first"
			return m, nil
		}
		return m, TestConnectionCmd(m.advClient)
	}
	return m, nil
}

func (m Model) startAnalysis() (tea.Model, tea.Cmd) {
	if m.ratingsView.Running() {
		return m, nil
	}
	if !m.advClient.Ready() {
		m.errMsg = "configure the AI credentials in settings first"
		return m, nil
	}

	var unrated []*model.Node
	for _, n := range m.flat {
		if n.Kind == model.KindLink && !m.ratingsStore.Has(n.URL) {
			unrated = append(unrated, n)
			if len(unrated) >= analyzeBatchLimit {
				break
			}
		}
	}
	if len(unrated) == 0 {
		return m.setStatus("every bookmark is already rated")
	}

	m.session = newAnalysisSession()
	m.ratingsView.Begin()
	return m, tea.Batch(
		StartAnalysisCmd(m.advClient, unrated, m.session),
		WaitAnalysisCmd(m.session),
		m.ratingsView.Spinner().Tick,
	)
}

// relayout rebuilds the board columns from the flat map.
func (m *Model) relayout() {
	m.board.SetColumns(layout.Partition(m.flat, m.cfg.MaxEntriesPerColumn))
	if m.searchView.Active() {
		m.searchView.Refresh(m.flat)
	}
}

func (m Model) setStatus(text string) (tea.Model, tea.Cmd) {
	m.statusMsg = text
	m.statusID++
	return m, ExpireStatusCmd(m.statusID, 4*time.Second)
}

func (m Model) View() string {
	if !m.ready || m.loading {
		return m.theme.StatusText.Render("Loading bookmarks...")
	}

	var body string
	switch m.focus {
	case focusSearch:
		body = m.searchView.View()
	case focusHelp:
		body = m.helpText
	case focusSettings:
		body = m.settingsView.View()
	case focusRatings:
		body = m.ratingsView.View()
	case focusConfirmDelete:
		body = m.renderConfirmDelete()
	case focusRename:
		body = m.renderRename()
	default:
		body = m.board.View(m.ratingsStore)
	}

	header := m.theme.Header.Render(" bdk ")
	footer := m.renderFooter()
	out := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	if m.showDebug {
		out = lipgloss.JoinVertical(lipgloss.Left, out, m.renderDebugOverlay())
	}
	return out
}

func (m Model) renderConfirmDelete() string {
	n := m.flat.Get(m.confirmDeleteID)
	title := m.confirmDeleteID
	if n != nil {
		title = n.DisplayTitle()
	}
	box := m.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Danger).
		Padding(1, 2).
		Render(fmt.Sprintf("Delete %q?\n\n%s",
			clipCell(title, 48),
			m.theme.StatusText.Render("y deletes, n keeps it")))
	return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderRename() string {
	box := m.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Primary).
		Padding(1, 2).
		Render("Rename\n\n" + m.renameInput.View())
	return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderFooter() string {
	if m.errMsg != "" {
		return m.theme.ErrorText.Render(clipCell(m.errMsg, m.width))
	}
	if m.statusMsg != "" {
		return m.theme.StatusText.Render(clipCell(m.statusMsg, m.width))
	}

	hints := "h/j/k/l navigate · enter open · / search · m move · d delete · r ratings · s settings · ? help · q quit"
	if _, moving := m.board.Moving(); moving {
		hints = "move: h/j/k/l aim · b before/after · enter drop · esc cancel"
	}
	return m.theme.StatusText.Render(clipCell(hints, m.width))
}

func (m Model) renderDebugOverlay() string {
	pending := m.tracker.Pending()
	line := fmt.Sprintf("debug: nodes=%d cols=%d pending=%d", len(m.flat), len(m.board.Columns()), len(pending))
	if m.watcher != nil {
		mode := "fsnotify"
		if m.watcher.IsPolling() {
			mode = "polling"
		}
		line += fmt.Sprintf(" watch=%s fs=%s", mode, m.watcher.FilesystemType())
	}
	out := m.theme.StatusText.Render(line)
	for _, op := range pending {
		out += "\n" + m.theme.StatusText.Render(fmt.Sprintf("  op %d %s -> %s[%d] (%s)",
			op.Seq, op.BookmarkID, op.ParentID, op.Index, op.State))
	}
	return out
}

// openURL launches the default browser for url.
func openURL(url string) error {
	if url == "" {
		return fmt.Errorf("empty URL")
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
