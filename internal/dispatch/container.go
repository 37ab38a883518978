package dispatch

import "sort"

// ActionContainer owns the set of actions declared directly in one
// namespace. Exactly one container exists per distinct namespace value.
type ActionContainer struct {
	part      string
	namespace string
	actions   map[string]*Action
}

func newActionContainer(part, namespace string) *ActionContainer {
	return &ActionContainer{
		part:      part,
		namespace: namespace,
		actions:   make(map[string]*Action),
	}
}

// Part returns the final path segment of the container's namespace.
func (ac *ActionContainer) Part() string {
	return ac.part
}

// Namespace returns the full namespace the container represents.
func (ac *ActionContainer) Namespace() string {
	return ac.namespace
}

// Action returns the named action declared in this namespace, or nil.
func (ac *ActionContainer) Action(name string) *Action {
	return ac.actions[name]
}

// Actions returns the container's actions sorted by name.
// The returned slice is a copy and safe to modify.
func (ac *ActionContainer) Actions() []*Action {
	names := make([]string, 0, len(ac.actions))
	for name := range ac.actions {
		names = append(names, name)
	}
	sort.Strings(names)

	actions := make([]*Action, 0, len(names))
	for _, name := range names {
		actions = append(actions, ac.actions[name])
	}
	return actions
}

// add places an action in the container. A later action with the same
// name replaces the earlier one: they share a registration slot.
func (ac *ActionContainer) add(a *Action) {
	ac.actions[a.Name] = a
}

// treeNode is a node of the namespace tree. Each node owns exactly one
// container; children are indexed by their path part, so no two
// siblings share a part. The tree exists for enumeration and
// diagnostics; the flat namespace index is the lookup path.
type treeNode struct {
	container *ActionContainer
	children  map[string]*treeNode
}

func newTreeNode(container *ActionContainer) *treeNode {
	return &treeNode{
		container: container,
		children:  make(map[string]*treeNode),
	}
}

// walk visits the subtree depth-first, parents before children, with
// children in sorted part order.
func (n *treeNode) walk(visit func(*ActionContainer)) {
	visit(n.container)

	parts := make([]string, 0, len(n.children))
	for part := range n.children {
		parts = append(parts, part)
	}
	sort.Strings(parts)

	for _, part := range parts {
		n.children[part].walk(visit)
	}
}
