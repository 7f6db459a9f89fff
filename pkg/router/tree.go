package router

import "strings"

// routeNode is a node in the segment tree. Every segment is literal.
type routeNode struct {
	// segment is the path segment this node matches
	segment string

	// index is the record position, or -1 when no route ends here
	index int

	children []*routeNode
}

func newRouteNode(segment string) *routeNode {
	return &routeNode{segment: segment, index: -1}
}

// findChild finds the child matching segment. Unless sensitive is set,
// segments compare case-insensitively.
func (n *routeNode) findChild(segment string, sensitive bool) *routeNode {
	for _, child := range n.children {
		if child.segment == segment || (!sensitive && strings.EqualFold(child.segment, segment)) {
			return child
		}
	}
	return nil
}

// addChild adds or retrieves a child node for the given segment.
func (n *routeNode) addChild(segment string, sensitive bool) *routeNode {
	if child := n.findChild(segment, sensitive); child != nil {
		return child
	}
	child := newRouteNode(segment)
	n.children = append(n.children, child)
	return child
}

// insert adds a route to the tree and returns the terminal node.
func (n *routeNode) insert(path string, sensitive bool) *routeNode {
	current := n
	for _, seg := range splitPath(path) {
		current = current.addChild(seg, sensitive)
	}
	return current
}

// lookup returns the record index for the path, or -1.
func (n *routeNode) lookup(path string, sensitive bool) int {
	current := n
	for _, seg := range splitPath(path) {
		current = current.findChild(seg, sensitive)
		if current == nil {
			return -1
		}
	}
	return current.index
}

// splitPath splits a path into segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
