package telegram

import (
	"sort"
	"strings"
	"sync"

	tele "gopkg.in/telebot.v3"
)

// Command is a slash command, optionally reachable from reply keyboard buttons
type Command struct {
	Name        string
	Description string
	Category    string
	// Aliases are exact texts (menu buttons) that run the command
	Aliases   []string
	AdminOnly bool
	// Hidden commands are left out of the published command menu
	Hidden      bool
	Run         tele.HandlerFunc
	middlewares []tele.MiddlewareFunc
}

// NewCommand creates a new Command with required fields
func NewCommand(name, description, category string, run tele.HandlerFunc) *Command {
	return &Command{
		Name:        name,
		Description: description,
		Category:    category,
		Run:         run,
	}
}

// WithAliases adds menu button texts that trigger the command
func (c *Command) WithAliases(aliases ...string) *Command {
	c.Aliases = append(c.Aliases, aliases...)
	return c
}

// AsAdmin restricts the command to admins through guard
func (c *Command) AsAdmin(guard tele.MiddlewareFunc) *Command {
	c.AdminOnly = true
	c.Hidden = true
	c.middlewares = append(c.middlewares, guard)
	return c
}

// AsHidden keeps the command out of the menu
func (c *Command) AsHidden() *Command {
	c.Hidden = true
	return c
}

// CommandCollection holds registered commands
type CommandCollection struct {
	commands map[string]*Command
	mu       sync.RWMutex
}

// NewCommandCollection creates a new CommandCollection
func NewCommandCollection() *CommandCollection {
	return &CommandCollection{
		commands: make(map[string]*Command),
	}
}

// Set adds or updates a command
func (cc *CommandCollection) Set(name string, cmd *Command) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.commands[name] = cmd
}

// Get retrieves a command by name
func (cc *CommandCollection) Get(name string) (*Command, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	cmd, ok := cc.commands[name]
	return cmd, ok
}

// Size returns the number of commands
func (cc *CommandCollection) Size() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.commands)
}

// All returns all commands
func (cc *CommandCollection) All() map[string]*Command {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	result := make(map[string]*Command, len(cc.commands))
	for k, v := range cc.commands {
		result[k] = v
	}
	return result
}

// Menu returns the public commands sorted by name, ready for SetCommands
func (cc *CommandCollection) Menu() []tele.Command {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	menu := make([]tele.Command, 0, len(cc.commands))
	for _, cmd := range cc.commands {
		if cmd.Hidden || cmd.Description == "" {
			continue
		}
		menu = append(menu, tele.Command{Text: cmd.Name, Description: cmd.Description})
	}
	sort.Slice(menu, func(i, j int) bool { return menu[i].Text < menu[j].Text })
	return menu
}

// Matches reports whether text would run a registered command, either as a slash
// command or as one of its keyboard aliases
func (cc *CommandCollection) Matches(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	name := ""
	if strings.HasPrefix(text, "/") {
		name = strings.TrimPrefix(strings.Fields(text)[0], "/")
		if at := strings.IndexByte(name, '@'); at >= 0 {
			name = name[:at]
		}
	}

	cc.mu.RLock()
	defer cc.mu.RUnlock()
	if _, ok := cc.commands[name]; ok {
		return true
	}
	for _, cmd := range cc.commands {
		for _, alias := range cmd.Aliases {
			if alias == text {
				return true
			}
		}
	}
	return false
}
