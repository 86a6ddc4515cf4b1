package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Cursor
	Down  key.Binding
	Up    key.Binding
	Left  key.Binding
	Right key.Binding

	// Date tabs
	NextDate key.Binding
	PrevDate key.Binding

	// Moving the member under the cursor
	ShiftLeft  key.Binding
	ShiftRight key.Binding
	NudgeUp    key.Binding
	NudgeDown  key.Binding

	ToggleClosed key.Binding

	// Month switching
	PrevMonth key.Binding
	NextMonth key.Binding

	// Views
	Members key.Binding
	Notes   key.Binding
	Summary key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "previous status"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next status"),
		),
		NextDate: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next date"),
		),
		PrevDate: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous date"),
		),
		ShiftLeft: key.NewBinding(
			key.WithKeys("H", "shift+left"),
			key.WithHelp("H", "move to previous status"),
		),
		ShiftRight: key.NewBinding(
			key.WithKeys("L", "shift+right"),
			key.WithHelp("L", "move to next status"),
		),
		NudgeUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move up"),
		),
		NudgeDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move down"),
		),
		ToggleClosed: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close/reopen date"),
		),
		PrevMonth: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next month"),
		),
		Members: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "members"),
		),
		Notes: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "considerations"),
		),
		Summary: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "summary"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Left, k.Right, k.ShiftLeft, k.ShiftRight,
		k.NextDate, k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.NextDate, k.PrevDate},
		{k.ShiftLeft, k.ShiftRight, k.NudgeUp, k.NudgeDown, k.ToggleClosed},
		{k.PrevMonth, k.NextMonth, k.Members, k.Notes, k.Summary},
		{k.Command, k.Help, k.Back, k.Quit},
	}
}
