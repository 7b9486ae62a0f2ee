package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/vanderheijden86/bookdeck/pkg/settings"
)

// settingsValues backs the huh form bindings. Kept behind a pointer so the
// form's field pointers stay valid while the model is copied around by the
// update loop.
type settingsValues struct {
	maxEntries string
	showDebug  bool
	apiURL     string
	apiKey     string
	model      string
}

// SettingsModel wraps a huh form over the persisted configuration.
type SettingsModel struct {
	theme Theme
	form  *huh.Form
	vals  *settingsValues

	width  int
	height int
}

// NewSettingsModel builds the form pre-populated from cfg.
func NewSettingsModel(theme Theme, cfg settings.Config) SettingsModel {
	vals := &settingsValues{
		maxEntries: strconv.Itoa(cfg.MaxEntriesPerColumn),
		showDebug:  cfg.ShowDebugInfo,
		apiURL:     cfg.AI.APIURL,
		apiKey:     cfg.AI.APIKey,
		model:      cfg.AI.Model,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Max entries per column").
				Description(fmt.Sprintf("between %d and %d", settings.MinEntriesPerColumn, settings.MaxEntriesPerColumn)).
				Value(&vals.maxEntries).
				Validate(validateMaxEntries),
			huh.NewConfirm().
				Title("Show debug info").
				Value(&vals.showDebug),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("AI API URL").
				Placeholder("https://api.example.com/v1/chat/completions").
				Value(&vals.apiURL),
			huh.NewInput().
				Title("AI API key").
				EchoMode(huh.EchoModePassword).
				Value(&vals.apiKey),
			huh.NewInput().
				Title("AI model").
				Placeholder("gpt-4o-mini").
				Value(&vals.model),
		).Description("Credentials are stored separately in ai.yaml"),
	).WithShowHelp(true)

	return SettingsModel{theme: theme, form: form, vals: vals}
}

func validateMaxEntries(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n < settings.MinEntriesPerColumn || n > settings.MaxEntriesPerColumn {
		return fmt.Errorf("must be between %d and %d",
			settings.MinEntriesPerColumn, settings.MaxEntriesPerColumn)
	}
	return nil
}

// Form exposes the huh form for update plumbing.
func (s *SettingsModel) Form() *huh.Form {
	return s.form
}

// SetForm stores the updated form returned by huh.
func (s *SettingsModel) SetForm(f *huh.Form) {
	s.form = f
}

// Completed reports whether the form was submitted.
func (s SettingsModel) Completed() bool {
	return s.form.State == huh.StateCompleted
}

// Aborted reports whether the form was cancelled.
func (s SettingsModel) Aborted() bool {
	return s.form.State == huh.StateAborted
}

// Config assembles the edited configuration. Call only after Completed.
func (s SettingsModel) Config() settings.Config {
	n, err := strconv.Atoi(strings.TrimSpace(s.vals.maxEntries))
	if err != nil {
		n = settings.DefaultMaxEntriesPerColumn
	}
	return settings.Config{
		MaxEntriesPerColumn: settings.ClampMaxEntries(n),
		ShowDebugInfo:       s.vals.showDebug,
		AI: settings.AICredentials{
			APIURL: strings.TrimSpace(s.vals.apiURL),
			APIKey: strings.TrimSpace(s.vals.apiKey),
			Model:  strings.TrimSpace(s.vals.model),
		},
	}
}

// SetSize updates the form dimensions.
func (s *SettingsModel) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.form = s.form.WithWidth(min(width-4, 80))
}

// View renders the form.
func (s SettingsModel) View() string {
	return s.theme.Header.Render(" Settings ") + "\n\n" + s.form.View()
}
