package skeleton

// CollectJoints returns the joints below root in depth-first pre-order,
// starting from each direct child of root. Traversal continues only through
// joints, so a joint placed beneath a non-joint node is not reached.
func (g *Graph) CollectJoints(root int) []int {
	joints := make([]int, 0)

	var visit func(id int)
	visit = func(id int) {
		vn := g.Node(id)
		if vn == nil || vn.Kind != KindJoint {
			return
		}
		joints = append(joints, id)
		for _, child := range vn.Children {
			visit(child)
		}
	}

	if vn := g.Node(root); vn != nil {
		for _, child := range vn.Children {
			visit(child)
		}
	}
	return joints
}
