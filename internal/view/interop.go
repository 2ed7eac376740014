package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
)

// nodeComponent lets a gomponents node render where a templ.Component is
// expected.
type nodeComponent struct {
	node g.Node
}

func (a nodeComponent) Render(_ context.Context, w io.Writer) error {
	return a.node.Render(w)
}

// Templ wraps a gomponents node as a templ.Component.
func Templ(node g.Node) templ.Component {
	return nodeComponent{node: node}
}

// componentNode lets a templ.Component render inside a gomponents tree.
// gomponents does not pass a context, so the component sees ctx from
// construction time.
type componentNode struct {
	ctx       context.Context
	component templ.Component
}

func (a componentNode) Render(w io.Writer) error {
	return a.component.Render(a.ctx, w)
}

// Node wraps a templ.Component as a gomponents node.
func Node(ctx context.Context, component templ.Component) g.Node {
	if ctx == nil {
		ctx = context.Background()
	}
	return componentNode{ctx: ctx, component: component}
}
