package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the dashboard shortcuts. Help text is shown to shop staff
// and is therefore in Spanish.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	NextRole    key.Binding
	Acknowledge key.Binding
	Refresh     key.Binding
	Help        key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding

	// Roles jumps straight to a role; index i selects roleCycle[i].
	Roles []key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	bind := func(help string, desc string, keys ...string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
	}

	return KeyMap{
		Up:          bind("↑/k", "subir", "k", "up"),
		Down:        bind("↓/j", "bajar", "j", "down"),
		NextRole:    bind("Tab", "cambiar rol", "tab"),
		Acknowledge: bind("a", "atender alerta", "a"),
		Refresh:     bind("Ctrl+R", "actualizar", "ctrl+r"),
		Help:        bind("?", "ayuda", "?"),
		Quit:        bind("q/Esc", "salir", "q", "esc"),
		ForceQuit:   bind("Ctrl+C", "forzar salida", "ctrl+c"),
		Roles: []key.Binding{
			bind("1", "administrador", "1"),
			bind("2", "cajero", "2"),
			bind("3", "tecnico", "3"),
		},
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextRole, k.Acknowledge, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Refresh},
		append([]key.Binding{k.NextRole}, k.Roles...),
		{k.Acknowledge, k.Help, k.Quit, k.ForceQuit},
	}
}
