package main

import (
	"fmt"
	"strings"

	"github.com/bawdo/litequery/plugins"
)

// pluginConfigurer enables a known plugin from the arguments of
// "plugin <name> ...".
type pluginConfigurer struct {
	name      string
	configure func(s *Session, args string) error
}

// enabledPlugin is a transformer the session attaches to every manager it
// builds. The factory runs once per manager.
type enabledPlugin struct {
	name    string
	factory func() plugins.Transformer
	status  func() string
}

// pluginRegistry tracks the plugins the REPL knows about and the ones
// currently enabled, in the order they were first enabled.
type pluginRegistry struct {
	known   []pluginConfigurer
	enabled []enabledPlugin
}

func newPluginRegistry(known ...pluginConfigurer) pluginRegistry {
	return pluginRegistry{known: known}
}

// knownNames lists every plugin "plugin <name>" accepts.
func (r *pluginRegistry) knownNames() []string {
	names := make([]string, len(r.known))
	for i, c := range r.known {
		names[i] = c.name
	}
	return names
}

// lookup finds a known plugin, ignoring case.
func (r *pluginRegistry) lookup(name string) (pluginConfigurer, error) {
	for _, c := range r.known {
		if strings.EqualFold(c.name, name) {
			return c, nil
		}
	}
	return pluginConfigurer{}, fmt.Errorf("unknown plugin: %s", name)
}

// enable adds p. Enabling a plugin again swaps its configuration but keeps
// its place in the order.
func (r *pluginRegistry) enable(p enabledPlugin) {
	for i, e := range r.enabled {
		if e.name == p.name {
			r.enabled[i] = p
			return
		}
	}
	r.enabled = append(r.enabled, p)
}

func (r *pluginRegistry) disable(name string) error {
	for i, e := range r.enabled {
		if strings.EqualFold(e.name, name) {
			r.enabled = append(r.enabled[:i], r.enabled[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("plugin %s is not enabled", name)
}

func (r *pluginRegistry) enabledNames() []string {
	names := make([]string, len(r.enabled))
	for i, e := range r.enabled {
		names[i] = e.name
	}
	return names
}

// statusLines renders one "name: status" line per enabled plugin.
func (r *pluginRegistry) statusLines() []string {
	lines := make([]string, len(r.enabled))
	for i, e := range r.enabled {
		lines[i] = e.name + ": " + e.status()
	}
	return lines
}

// applyTo hands a fresh transformer from each enabled plugin to use.
func (r *pluginRegistry) applyTo(use func(plugins.Transformer)) {
	for _, e := range r.enabled {
		use(e.factory())
	}
}
