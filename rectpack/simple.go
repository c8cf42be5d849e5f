package rectpack

// shelfPack 按给定顺序逐行放置节点：放不下当前行时换到新的一行。
// 它不会旋转节点，旋转状态由调用方（例如 Sort）事先决定。
type shelfPack struct{}

func (shelfPack) attemptPack(nodes []*Node, width, height, padding int, _ bool, progress ProgressFunc) []*Node {
	var failed []*Node
	curX, curY, rowHeight := 0, 0, 0

	for i, n := range nodes {
		w, h := n.EffectiveWidth(), n.EffectiveHeight()
		if curX+w > width {
			curX = 0
			curY += rowHeight + padding
			rowHeight = 0
		}

		// 溢出的节点仍然写入位置，后面的节点继续放置
		if curY+h > height || w > width {
			failed = append(failed, n)
		}

		n.X = curX
		n.Y = curY

		curX += w + padding
		rowHeight = max(rowHeight, h)

		reportProgress(progress, i, len(nodes), n.ID)
	}
	return failed
}
