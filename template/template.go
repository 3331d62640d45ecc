// Package template implements named document templates with single
// inheritance and overridable blocks.
//
// A template names zero or more blocks and optionally a parent template.
// Rendering resolves the parent chain at render time: for every block the
// most-derived override runs first and receives a continuation that
// renders the next-less-derived override, so a child block can wrap or
// extend its parent's output instead of just replacing it. Blocks marked
// required must produce non-empty output somewhere in the chain or the
// render fails.
//
// A Set is assembled once and is immutable afterwards; any number of
// renders may run against it concurrently.
package template

import (
	"fmt"
	"strings"
)

// Next renders the next-less-derived override of the current block. For
// the least-derived override it yields empty output.
type Next func() (string, error)

// BlockFunc renders one block override for a document of type T.
type BlockFunc[T any] func(d T, next Next) (string, error)

// Renderer gives a template body access to the resolved blocks.
type Renderer interface {
	// Block renders the named block through its full override chain.
	// Blocks with no override anywhere render as empty output.
	Block(name string) (string, error)
}

// BodyFunc renders the document skeleton of a root template, pulling in
// block content through the Renderer.
type BodyFunc[T any] func(d T, b Renderer) (string, error)

// Template is one named document fragment in a set.
type Template[T any] struct {
	// Name identifies the template within its set.
	Name string

	// Parent names the template this one extends, if any.
	Parent string

	// Required lists blocks that must produce non-empty output once the
	// chain is resolved. Requirements declared anywhere in a chain bind
	// every descendant.
	Required []string

	// Blocks maps block names to this template's overrides.
	Blocks map[string]BlockFunc[T]

	// Body is the document skeleton. Only the root ancestor's body is
	// rendered; templates with a parent normally leave it nil.
	Body BodyFunc[T]
}

// ResolutionError reports a template-set bug found during rendering: a
// broken parent chain or a required block nothing filled. These are not
// recoverable at render time.
type ResolutionError struct {
	Template string
	Block    string
	Chain    []string
	Reason   string
}

func (e *ResolutionError) Error() string {
	if e.Block != "" {
		return fmt.Sprintf("template %q: required block %q %s (chain: %s)",
			e.Template, e.Block, e.Reason, strings.Join(e.Chain, " -> "))
	}
	return fmt.Sprintf("template %q: %s", e.Template, e.Reason)
}

// Set is an immutable collection of templates resolved against each other.
type Set[T any] struct {
	templates map[string]*Template[T]
}

// NewSet builds a set from the given templates, verifying that every
// parent reference resolves and that no chain loops.
func NewSet[T any](templates ...*Template[T]) (*Set[T], error) {
	s := &Set[T]{templates: make(map[string]*Template[T], len(templates))}

	for _, t := range templates {
		if t.Name == "" {
			return nil, fmt.Errorf("template with empty name")
		}
		if _, dup := s.templates[t.Name]; dup {
			return nil, fmt.Errorf("duplicate template %q", t.Name)
		}
		s.templates[t.Name] = t
	}

	for _, t := range templates {
		if _, err := s.chain(t.Name); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// MustNewSet is NewSet for package-level template sets; it panics on a
// broken set, which is a programming error.
func MustNewSet[T any](templates ...*Template[T]) *Set[T] {
	s, err := NewSet(templates...)
	if err != nil {
		panic(err)
	}
	return s
}

// chain walks the parent references from name to the root ancestor and
// returns the templates most-derived first.
func (s *Set[T]) chain(name string) ([]*Template[T], error) {
	var out []*Template[T]

	seen := make(map[string]bool)
	for cur := name; cur != ""; {
		if seen[cur] {
			return nil, &ResolutionError{Template: name, Reason: fmt.Sprintf("parent chain loops at %q", cur)}
		}
		seen[cur] = true

		t, ok := s.templates[cur]
		if !ok {
			return nil, &ResolutionError{Template: name, Reason: fmt.Sprintf("references unknown template %q", cur)}
		}
		out = append(out, t)
		cur = t.Parent
	}

	return out, nil
}

// Render composes the named template's chain over the document and
// returns the rendered text. Validation of the document itself is the
// caller's concern; resolution failures indicate template-set bugs.
func (s *Set[T]) Render(name string, d T) (string, error) {
	chain, err := s.chain(name)
	if err != nil {
		return "", err
	}

	root := chain[len(chain)-1]
	if root.Body == nil {
		return "", &ResolutionError{Template: name, Reason: fmt.Sprintf("root template %q has no body", root.Name)}
	}

	names := make([]string, len(chain))
	for i, t := range chain {
		names[i] = t.Name
	}

	r := &render[T]{set: s, chain: chain, names: names, leaf: name, data: d, rendered: make(map[string]string)}

	// Required blocks with no override anywhere fail before any output is
	// produced.
	for _, t := range chain {
		for _, block := range t.Required {
			if !r.overridden(block) {
				return "", &ResolutionError{Template: name, Block: block, Chain: names, Reason: "has no override"}
			}
		}
	}

	out, err := root.Body(d, r)
	if err != nil {
		return "", err
	}

	for _, t := range chain {
		for _, block := range t.Required {
			rendered, ok := r.rendered[block]
			if !ok || strings.TrimSpace(rendered) == "" {
				return "", &ResolutionError{Template: name, Block: block, Chain: names, Reason: "produced no output"}
			}
		}
	}

	return out, nil
}

// render carries the per-render state: the resolved chain and the block
// outputs observed so far. The set itself is never touched.
type render[T any] struct {
	set      *Set[T]
	chain    []*Template[T]
	names    []string
	leaf     string
	data     T
	rendered map[string]string
}

func (r *render[T]) overridden(name string) bool {
	for _, t := range r.chain {
		if _, ok := t.Blocks[name]; ok {
			return true
		}
	}
	return false
}

// Block implements Renderer.
func (r *render[T]) Block(name string) (string, error) {
	out, err := r.renderFrom(name, 0)
	if err != nil {
		return "", err
	}
	r.rendered[name] = out
	return out, nil
}

// renderFrom renders the block override at or below position idx in the
// chain; the continuation handed to each override picks up from the next
// position.
func (r *render[T]) renderFrom(name string, idx int) (string, error) {
	for i := idx; i < len(r.chain); i++ {
		fn, ok := r.chain[i].Blocks[name]
		if !ok {
			continue
		}

		next := func() (string, error) {
			return r.renderFrom(name, i+1)
		}
		return fn(r.data, next)
	}

	return "", nil
}
