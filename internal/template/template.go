// Package template maps template keys to channel-specific content and
// substitutes variables from a flat string map. Unresolved variables
// render as an empty string so raw placeholders never reach a user.
package template

import (
	"fmt"
	"regexp"

	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/channel"
)

// Template holds the subject and body for one (key, channel) pair.
// SMS and push templates usually leave Subject empty.
type Template struct {
	Subject string
	Body    string
}

// Registry maps template keys to per-channel templates.
type Registry struct {
	templates map[string]map[channel.Channel]Template
}

// NewRegistry creates a registry seeded with the built-in platform
// templates.
func NewRegistry() *Registry {
	r := &Registry{
		templates: make(map[string]map[channel.Channel]Template),
	}
	for key, byChannel := range builtin {
		for ch, tpl := range byChannel {
			r.Register(key, ch, tpl)
		}
	}
	return r
}

// Register adds or replaces the template for a (key, channel) pair.
func (r *Registry) Register(key string, ch channel.Channel, tpl Template) {
	if r.templates[key] == nil {
		r.templates[key] = make(map[channel.Channel]Template)
	}
	r.templates[key][ch] = tpl
}

// Supports reports whether a template variant exists for the given key
// and channel. Keys without a variant for a channel simply do not
// target it; Render on such a pair is an error.
func (r *Registry) Supports(key string, ch channel.Channel) bool {
	_, ok := r.templates[key][ch]
	return ok
}

// Render resolves the template for the given key and channel and
// substitutes variables. An unknown key or a key with no template for
// the channel is an error; a missing variable is not.
func (r *Registry) Render(key string, ch channel.Channel, vars map[string]string) (channel.Message, error) {
	byChannel, ok := r.templates[key]
	if !ok {
		return channel.Message{}, fmt.Errorf("unknown template key: %q", key)
	}
	tpl, ok := byChannel[ch]
	if !ok {
		return channel.Message{}, fmt.Errorf("template %q has no %s variant", key, ch)
	}
	return channel.Message{
		Subject: substitute(tpl.Subject, vars),
		Body:    substitute(tpl.Body, vars),
	}, nil
}

var placeholderRe = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// substitute replaces {{name}} placeholders with values from vars.
// Unknown names become the empty string.
func substitute(s string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(s, func(match string) string {
		name := placeholderRe.FindStringSubmatch(match)[1]
		return vars[name]
	})
}
