package control

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Node is the tagged union of widgets a group can hold: a leaf *Control or a
// nested *Group. Recursive operations switch on the concrete type instead of
// probing for optional methods.
type Node interface {
	node()
}

// Group composes controls and nested groups into a collapsible section.
// Depth is a presentation concern assigned top-down by the parent during each
// render pass (root = 0), so a group moved under a different parent
// self-corrects on the next pass.
type Group struct {
	mu       sync.RWMutex
	heading  string
	depth    int
	expanded bool
	children []Node
}

// GroupOption customises a group at construction time.
type GroupOption func(*Group)

// Collapsed constructs the group with its child region hidden.
func Collapsed() GroupOption {
	return func(g *Group) { g.expanded = false }
}

// NewGroup constructs an expanded group with the given heading.
func NewGroup(heading string, options ...GroupOption) *Group {
	g := &Group{
		heading:  strings.TrimSpace(heading),
		expanded: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}
	return g
}

// Heading returns the display title.
func (g *Group) Heading() string { return g.heading }

// Depth returns the nesting depth assigned during the last render pass.
func (g *Group) Depth() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.depth
}

// SetGroupDepth records this group's depth. Parents call it for each child
// group immediately before rendering it, keeping depth consistent with the
// current tree position.
func (g *Group) SetGroupDepth(depth int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.depth = depth
}

// Expanded reports whether the child region is visible.
func (g *Group) Expanded() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.expanded
}

// ToggleExpansion flips this group's visibility. Descendants keep their own
// expanded flags.
func (g *Group) ToggleExpansion() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.expanded = !g.expanded
}

// SetExpanded sets the expanded flag on this group and recursively on every
// descendant group. Controls have no expand/collapse concept and are left
// untouched.
func (g *Group) SetExpanded(expanded bool) {
	g.mu.Lock()
	g.expanded = expanded
	children := append([]Node(nil), g.children...)
	g.mu.Unlock()

	for _, child := range children {
		if nested, ok := child.(*Group); ok {
			nested.SetExpanded(expanded)
		}
	}
}

// AddControl appends a child to the ordered sequence. A child belongs to
// exactly one group; callers must not share nodes between groups.
func (g *Group) AddControl(child Node) error {
	if child == nil {
		return fmt.Errorf("control: group %q: nil child", g.heading)
	}
	if nested, ok := child.(*Group); ok && nested == g {
		return fmt.Errorf("control: group %q cannot contain itself", g.heading)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.children = append(g.children, child)
	return nil
}

// Children returns the ordered child sequence.
func (g *Group) Children() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Node(nil), g.children...)
}

// RefreshState recursively resynchronises every descendant with external
// state: nested groups recurse, controls run their bound refresher (if any).
// The first failure aborts the walk.
func (g *Group) RefreshState(ctx context.Context) error {
	for _, child := range g.Children() {
		switch node := child.(type) {
		case *Group:
			if err := node.RefreshState(ctx); err != nil {
				return err
			}
		case *Control:
			if err := node.RefreshState(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// AssignDepths walks the subtree assigning depth values top-down: this group
// takes the supplied depth, every nested group its parent's depth plus one.
// Renderers run it at the start of each render pass.
func (g *Group) AssignDepths(depth int) {
	g.SetGroupDepth(depth)
	for _, child := range g.Children() {
		if nested, ok := child.(*Group); ok {
			nested.AssignDepths(depth + 1)
		}
	}
}

// Walk visits every control in the subtree in render order, stopping at the
// first error.
func (g *Group) Walk(visit func(*Control) error) error {
	for _, child := range g.Children() {
		switch node := child.(type) {
		case *Group:
			if err := node.Walk(visit); err != nil {
				return err
			}
		case *Control:
			if err := visit(node); err != nil {
				return err
			}
		}
	}
	return nil
}

// FindControl locates a control by id anywhere in the subtree.
func (g *Group) FindControl(id string) (*Control, bool) {
	var found *Control
	_ = g.Walk(func(c *Control) error {
		if found == nil && c.ID() == id {
			found = c
		}
		return nil
	})
	return found, found != nil
}

func (g *Group) node() {}
