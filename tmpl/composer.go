package tmpl

import (
	"errors"
	"strings"

	"github.com/obsforge-io/obsforge/log"
)

// ObserverBlocksKey is the document template variable bound to the list
// of rendered fragment texts.
const ObserverBlocksKey = "observer_blocks"

// Composer performs the two-level document render: each canonical
// observation type's fragment independently, then the outer document.
type Composer struct {
	resolver *Resolver
	logger   *log.Logger
}

// NewComposer creates a Composer.
func NewComposer(resolver *Resolver, logger *log.Logger) *Composer {
	if logger == nil {
		logger = log.NewLogger()
	}
	return &Composer{resolver: resolver, logger: logger}
}

// DocumentSpec configures one document composition.
type DocumentSpec struct {
	// Observations is the ordered list of canonical observation types.
	// Fragment order in the document equals this order.
	Observations []string
	// Shared is the context visible to every fragment and to the
	// document template.
	Shared Context
	// FragmentBindings supplies per-observation bindings layered over
	// Shared (taking precedence on collision). May be nil.
	FragmentBindings func(observation string) Context
	// DocumentTemplate is the outer template file name.
	// Defaults to DocumentTemplateName.
	DocumentTemplate string
}

// RenderDocument renders each observation fragment and assembles the
// outer document.
//
// Per-fragment failures never abort the composition: a missing fragment
// template, a fragment RenderError, and an empty or whitespace-only
// render (a template suppressing itself for this input) are each logged
// and skipped. A failure rendering the outer document is fatal, since
// no document can be produced without it.
func (c *Composer) RenderDocument(spec DocumentSpec) (string, error) {
	docName := spec.DocumentTemplate
	if docName == "" {
		docName = DocumentTemplateName
	}

	blocks := make([]string, 0, len(spec.Observations))
	for _, obs := range spec.Observations {
		filename := obs + FragmentSuffix
		text, err := c.resolver.Lookup(filename)
		if err != nil {
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				c.logger.Warn("no fragment template for observation type, skipping", map[string]any{
					"observation": obs,
				})
				continue
			}
			return "", err
		}

		ctx := spec.Shared.Merge(Context{"observation": obs})
		if spec.FragmentBindings != nil {
			ctx = ctx.Merge(spec.FragmentBindings(obs))
		}

		block, err := Render(filename, text, ctx)
		if err != nil {
			c.logger.Error("failed to render fragment template, skipping", map[string]any{
				"template": filename,
				"error":    err.Error(),
			})
			continue
		}
		if strings.TrimSpace(block) == "" {
			c.logger.Warn("fragment template rendered empty, skipping", map[string]any{
				"template": filename,
			})
			continue
		}
		blocks = append(blocks, strings.TrimRight(block, "\n"))
	}

	docText, err := c.resolver.Lookup(docName)
	if err != nil {
		return "", err
	}
	docCtx := spec.Shared.Merge(Context{ObserverBlocksKey: blocks})
	return Render(docName, docText, docCtx)
}
