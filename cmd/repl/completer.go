package main

import (
	"sort"
	"strings"
)

// completionContext describes what kind of completion is appropriate.
type completionContext int

const (
	contextCommand    completionContext = iota // start of line or partial command
	contextTableName                          // after from/columns/truncate/insert
	contextColumnRef                          // after where/order
	contextPlugin                             // after plugin
	contextPluginOff                          // after plugin off
	contextOrderDir                           // after a column in order context
	contextOperator                           // after a column in condition context
	contextSwitch                             // after fk
	contextNone                               // nothing to offer
)

var orderDirs = []string{"asc", "desc"}
var switches = []string{"off", "on"}
var operators = []string{"!=", "<", "<=", "<>", "=", ">", ">=", "in", "is", "like", "not"}

// replCompleter implements readline's AutoCompleter interface.
type replCompleter struct {
	sess *Session
}

// Do returns completion candidates for the current line/cursor position.
// length is the number of chars from end of line[:pos] that form the prefix being completed.
// newLine contains the suffixes to append for each candidate.
func (c *replCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	lineStr := string(line[:pos])
	ctx, prefix := c.parseContext(lineStr)

	var candidates []string
	switch ctx {
	case contextCommand:
		candidates = c.completeCommands(prefix)
	case contextTableName:
		candidates = c.completeTableNames(prefix)
	case contextColumnRef:
		candidates = c.completeColumnRef(prefix)
	case contextPlugin:
		candidates = filterPrefix(append([]string{"off"}, c.sess.pluginNames()...), prefix)
	case contextPluginOff:
		candidates = filterPrefix(c.sess.plugins.enabledNames(), prefix)
	case contextOrderDir:
		candidates = filterPrefix(orderDirs, prefix)
	case contextOperator:
		candidates = filterPrefix(operators, prefix)
	case contextSwitch:
		candidates = filterPrefix(switches, prefix)
	}

	for _, cand := range candidates {
		suffix := cand[len(prefix):]
		// Add trailing space for convenience.
		newLine = append(newLine, []rune(suffix+" "))
	}
	length = len([]rune(prefix))
	return
}

// parseContext examines the line up to cursor and determines what kind of
// completion is needed and the current prefix being typed.
func (c *replCompleter) parseContext(line string) (completionContext, string) {
	lower := strings.ToLower(line)

	for _, cmd := range c.sess.commands {
		if !strings.HasSuffix(cmd.prefix, " ") {
			continue // exact-match commands have no arg completion
		}
		if strings.HasPrefix(lower, cmd.prefix) && cmd.completer != nil {
			return cmd.completer(line[len(cmd.prefix):])
		}
	}

	// Default: command completion.
	return contextCommand, strings.TrimSpace(line)
}

// completeCommands returns command names matching the prefix.
func (c *replCompleter) completeCommands(prefix string) []string {
	return filterPrefix(c.sess.commandNames(), prefix)
}

// completeTableNames returns database table names matching prefix.
func (c *replCompleter) completeTableNames(prefix string) []string {
	names := dedup(c.sess.schema.tables)
	sort.Strings(names)
	return filterPrefix(names, prefix)
}

// completeColumnRef returns the current query's column names matching prefix.
func (c *replCompleter) completeColumnRef(prefix string) []string {
	if c.sess.model == nil {
		return nil
	}
	var names []string
	for _, f := range c.sess.model.Fields() {
		if !f.Virtual() {
			names = append(names, f.Name)
		}
	}
	return filterPrefix(names, prefix)
}

// filterPrefix returns items that start with prefix (case-insensitive).
func filterPrefix(items []string, prefix string) []string {
	if prefix == "" {
		result := make([]string, len(items))
		copy(result, items)
		return result
	}
	lowerPrefix := strings.ToLower(prefix)
	var result []string
	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item), lowerPrefix) {
			result = append(result, item)
		}
	}
	return result
}

// dedup removes duplicate strings.
func dedup(items []string) []string {
	seen := make(map[string]bool, len(items))
	var result []string
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}

// lastToken returns the last whitespace-separated token, handling commas.
func lastToken(s string) string {
	lastSep := -1
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ' ' || s[i] == ',' || s[i] == '\t' {
			lastSep = i
			break
		}
	}
	if lastSep >= 0 {
		return s[lastSep+1:]
	}
	return s
}
