package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	NextPattern key.Binding
	NextGen     key.Binding
	AddPattern  key.Binding
	DelPattern  key.Binding
	AddNote     key.Binding
	DelNote     key.Binding
	KeyUp       key.Binding
	KeyDown     key.Binding
	Earlier     key.Binding
	Later       key.Binding
	Longer      key.Binding
	Shorter     key.Binding
	Undo        key.Binding
	Redo        key.Binding
	JournalOpen key.Binding
	JournalDone key.Binding
	Save        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "prev note")),
		Down:        key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "next note")),
		NextPattern: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pattern")),
		NextGen:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "next generator")),
		AddPattern:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "add pattern")),
		DelPattern:  key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "delete pattern")),
		AddNote:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add note")),
		DelNote:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete note")),
		KeyUp:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "key up")),
		KeyDown:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "key down")),
		Earlier:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "earlier")),
		Later:       key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "later")),
		Longer:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "longer")),
		Shorter:     key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "shorter")),
		Undo:        key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Redo:        key.NewBinding(key.WithKeys("ctrl+r", "U"), key.WithHelp("ctrl+r", "redo")),
		JournalOpen: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "start journal")),
		JournalDone: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "commit journal")),
		Save:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddNote, k.KeyUp, k.Later, k.Undo, k.Redo, k.JournalOpen, k.JournalDone, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPattern, k.NextGen},
		{k.AddPattern, k.DelPattern, k.AddNote, k.DelNote},
		{k.KeyUp, k.KeyDown, k.Earlier, k.Later, k.Longer, k.Shorter},
		{k.Undo, k.Redo, k.JournalOpen, k.JournalDone, k.Save, k.Quit},
	}
}
