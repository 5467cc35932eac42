package bbmod

import (
	"github.com/binzume/bbmod/geom"
	"github.com/binzume/bbmod/scene"
)

type Node struct {
	Name      string
	Index     int
	IsBone    bool
	Transform geom.Matrix4
	Meshes    []int
	Children  []*Node
}

// BuildNodeTree copies the hierarchy below src. Nodes named after a bone take
// the bone's index; other nodes are numbered from next in depth-first order.
// It returns the tree and the next unused index.
func BuildNodeTree(src *scene.Node, skel *Skeleton, next int) (*Node, int) {
	node := &Node{
		Name:      src.Name,
		Transform: src.Transform,
		Meshes:    append([]int(nil), src.Meshes...),
	}
	if bone := skel.FindByName(src.Name); bone != nil {
		node.Index = bone.Index
		node.IsBone = true
	} else {
		node.Index = next
		next++
	}
	for _, c := range src.Children {
		var child *Node
		child, next = BuildNodeTree(c, skel, next)
		node.Children = append(node.Children, child)
	}
	return node, next
}

// FindByName returns the first node with the name in depth-first order.
func (n *Node) FindByName(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if found := c.FindByName(name); found != nil {
			return found
		}
	}
	return nil
}

func (n *Node) Walk(fn func(n *Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
