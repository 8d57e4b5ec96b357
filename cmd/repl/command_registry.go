package main

import (
	"sort"
	"strings"
)

// commandEntry maps a REPL prefix to its handler and optional tab-completer.
type commandEntry struct {
	prefix    string
	handler   func(args string) error
	completer func(args string) (completionContext, string) // nil = no arg completion
	hidden    bool                                          // excluded from commandNames()
}

// initCommands builds the command registry and sorts by prefix length descending.
func (s *Session) initCommands() {
	s.commands = []commandEntry{
		// --- schema ---
		{prefix: "tables", handler: func(_ string) error { return s.cmdTables() }},
		{prefix: "columns ", handler: s.cmdColumns, completer: completeTableArgs},
		{prefix: "pragma ", handler: s.cmdPragma},
		{prefix: "fk ", handler: s.cmdForeignKeys, completer: completeSwitchArgs},
		{prefix: "truncate ", handler: s.cmdTruncate, completer: completeTableArgs},
		{prefix: "help", handler: func(_ string) error { s.cmdHelp(); return nil }},

		// --- query building ---
		{prefix: "from ", handler: s.cmdFrom, completer: completeTableArgs},
		{prefix: "where ", handler: s.cmdWhere, completer: completeColumnArgs},
		{prefix: "order ", handler: s.cmdOrder, completer: completeOrderArgs},
		{prefix: "limit ", handler: s.cmdLimit},
		{prefix: "take ", handler: s.cmdLimit, hidden: true},
		{prefix: "offset ", handler: s.cmdOffset},
		{prefix: "sql", handler: func(_ string) error { return s.cmdSQL() }},
		{prefix: "run", handler: func(_ string) error { return s.cmdRun() }},
		{prefix: "delete", handler: func(_ string) error { return s.cmdDelete() }},
		{prefix: "reset", handler: func(_ string) error { return s.cmdReset() }},

		// --- rows ---
		{prefix: "insert ", handler: s.cmdInsert, completer: completeTableArgs},

		// --- plugins ---
		{prefix: "plugin ", handler: s.cmdPlugin, completer: completePluginArgs},
		{prefix: "plugins", handler: func(_ string) error { s.cmdPlugins(); return nil }},
	}

	// Sort by prefix length descending so longest prefixes match first.
	sort.SliceStable(s.commands, func(i, j int) bool {
		return len(s.commands[i].prefix) > len(s.commands[j].prefix)
	})
}

// commandNames derives the command name list from the registry for tab completion.
func (s *Session) commandNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, cmd := range s.commands {
		if cmd.hidden {
			continue
		}
		name := strings.TrimRight(cmd.prefix, " ")
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	// exit/quit are handled by the REPL loop, not Execute().
	for _, extra := range []string{"exit", "quit"} {
		if !seen[extra] {
			names = append(names, extra)
		}
	}
	sort.Strings(names)
	return names
}

// --- Shared completion helpers ---

// completeTableArgs completes the table name that starts the arguments of
// from, columns, truncate and insert.
func completeTableArgs(args string) (completionContext, string) {
	arg := strings.TrimLeft(args, " ")
	if !strings.ContainsAny(arg, " \t") {
		return contextTableName, arg
	}
	return contextNone, lastToken(arg)
}

// completeColumnArgs handles completion for the where command.
func completeColumnArgs(args string) (completionContext, string) {
	if strings.HasSuffix(args, " ") {
		prevTokens := strings.Fields(args)
		if len(prevTokens) > 0 && !isKeyword(prevTokens[len(prevTokens)-1]) {
			return contextOperator, ""
		}
		return contextColumnRef, ""
	}
	return contextColumnRef, lastToken(args)
}

// completeOrderArgs handles completion for the order command:
// column names, then direction after a column.
func completeOrderArgs(args string) (completionContext, string) {
	if strings.HasSuffix(args, " ") {
		parts := strings.Fields(args)
		if len(parts) > 0 && !strings.HasSuffix(parts[len(parts)-1], ",") {
			return contextOrderDir, ""
		}
		return contextColumnRef, ""
	}
	last := lastToken(args)
	parts := strings.Fields(args)
	if len(parts) > 1 && !strings.HasSuffix(parts[len(parts)-2], ",") {
		return contextOrderDir, last
	}
	return contextColumnRef, last
}

// completeSwitchArgs handles completion for on/off commands.
func completeSwitchArgs(args string) (completionContext, string) {
	return contextSwitch, strings.TrimSpace(args)
}

// completePluginArgs handles completion for the plugin command:
// plugin names, or after "off" the names of enabled plugins.
func completePluginArgs(args string) (completionContext, string) {
	if strings.HasPrefix(strings.ToLower(args), "off ") {
		return contextPluginOff, strings.TrimSpace(args[4:])
	}
	arg := strings.TrimSpace(args)
	if !strings.Contains(arg, " ") {
		return contextPlugin, arg
	}
	return contextCommand, ""
}

func isKeyword(token string) bool {
	switch strings.ToLower(token) {
	case "and", "or", "not":
		return true
	}
	return false
}
