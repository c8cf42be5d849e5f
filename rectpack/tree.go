package rectpack

// treeNode 是断头台分割树中的一个区域。没有子节点时它是空闲的叶子；
// 放入节点后会被分割成右侧和下方两个子区域。
type treeNode struct {
	Rect
	right  *treeNode
	bottom *treeNode
}

type treePack struct{}

func (treePack) attemptPack(nodes []*Node, width, height, padding int, allowRotate bool, progress ProgressFunc) []*Node {
	root := &treeNode{Rect: NewRect(0, 0, width, height)}
	var failed []*Node

	for i, n := range nodes {
		if pos, ok := root.insert(n, padding, allowRotate); ok {
			n.X = pos.X
			n.Y = pos.Y
		} else {
			failed = append(failed, n)
		}
		reportProgress(progress, i, len(nodes), n.ID)
	}
	return failed
}

// insert 深度优先（先右后下）寻找第一个能容纳节点的叶子并分割它，
// 返回节点的位置。
func (t *treeNode) insert(n *Node, padding int, allowRotate bool) (Point, bool) {
	if t.right != nil {
		if pos, ok := t.right.insert(n, padding, allowRotate); ok {
			return pos, true
		}
		return t.bottom.insert(n, padding, allowRotate)
	}

	w, h := n.EffectiveWidth(), n.EffectiveHeight()
	if w > t.Width || h > t.Height {
		if !allowRotate || h > t.Width || w > t.Height {
			return Point{}, false
		}
		n.Rotated = !n.Rotated
		w, h = h, w
	}

	// 右侧区域只用节点本身的高度，间距那一条不属于任何区域，
	// 所以只有同高或更矮的节点能放在右边。
	t.right = &treeNode{Rect: NewRect(t.X+w+padding, t.Y, t.Width-w-padding, h)}
	t.bottom = &treeNode{Rect: NewRect(t.X, t.Y+h+padding, t.Width, t.Height-h-padding)}
	return t.Point, true
}
