// Package tmpl renders job cards and data-assimilation configuration
// documents from templates.
//
// Templates resolve through an ordered list of sources: a user override
// directory first, the embedded vendor defaults second. The first source
// holding a template wins; resolution fails only when a template is
// absent from every source.
package tmpl

import (
	"bytes"
	"fmt"
	"text/template"
)

// Context holds variable bindings supplied to template rendering.
type Context map[string]any

// Merge returns a new Context with c's bindings overridden by over's.
// Neither input is modified.
func (c Context) Merge(over Context) Context {
	merged := make(Context, len(c)+len(over))
	for k, v := range c {
		merged[k] = v
	}
	for k, v := range over {
		merged[k] = v
	}
	return merged
}

// RenderError reports a template syntax or reference error. Fragment
// render errors are recoverable (the fragment is skipped); a document
// render error is fatal to the composition.
type RenderError struct {
	// Template is the template file name.
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Render parses and executes one template against a context. Unresolved
// variable references are errors (missingkey=error), so a stale template
// fails loudly instead of emitting "<no value>" into a job card.
func Render(name, text string, ctx Context) (string, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", &RenderError{Template: name, Err: err}
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, map[string]any(ctx)); err != nil {
		return "", &RenderError{Template: name, Err: err}
	}
	return buf.String(), nil
}
