package rectpack

import (
	"math"
	"slices"
)

// maxRectsPack 维护一组可能互相重叠的最大空闲矩形，每一轮在所有剩余节点
// 和所有空闲矩形中挑选短边剩余最小的组合（最佳短边适应）。
type maxRectsPack struct{}

func (maxRectsPack) attemptPack(nodes []*Node, width, height, padding int, allowRotate bool, progress ProgressFunc) []*Node {
	// 第一个空闲矩形多出一个间距，贴边放置时不用特殊处理
	free := freeList{NewRect(0, 0, width+padding, height+padding)}
	remaining := slices.Clone(nodes)

	for placed := 0; len(remaining) > 0; placed++ {
		bestShort := math.MaxInt
		bestLong := math.MaxInt
		bestIndex := -1
		var bestRect Rect

		for i, n := range remaining {
			rect, short, long, ok := free.score(n.Width+padding, n.Height+padding, allowRotate)
			if !ok {
				continue
			}
			if short < bestShort || (short == bestShort && long < bestLong) {
				bestShort = short
				bestLong = long
				bestRect = rect
				bestIndex = i
			}
		}

		if bestIndex == -1 {
			return remaining
		}

		free.place(bestRect)

		n := remaining[bestIndex]
		remaining = slices.Delete(remaining, bestIndex, bestIndex+1)
		n.X = bestRect.X
		n.Y = bestRect.Y
		n.Rotated = n.Width+padding != bestRect.Width

		reportProgress(progress, placed, len(nodes), n.ID)
	}
	return nil
}

// freeList 是最大矩形算法的空闲矩形集合，无序且允许重叠。
type freeList []Rect

// score 在所有空闲矩形中为 width x height（已包含间距）寻找最佳位置，
// 允许旋转时也尝试旋转后的尺寸。返回的矩形宽高就是实际占用的尺寸。
func (f freeList) score(width, height int, allowRotate bool) (best Rect, bestShort, bestLong int, found bool) {
	bestShort = math.MaxInt
	bestLong = math.MaxInt

	for _, freeRect := range f {
		if freeRect.Width >= width && freeRect.Height >= height {
			short, long := sideFit(freeRect, width, height)
			if short < bestShort || (short == bestShort && long < bestLong) {
				best = NewRect(freeRect.X, freeRect.Y, width, height)
				bestShort = short
				bestLong = long
				found = true
			}
		}

		if allowRotate && freeRect.Width >= height && freeRect.Height >= width {
			short, long := sideFit(freeRect, height, width)
			if short < bestShort || (short == bestShort && long < bestLong) {
				best = NewRect(freeRect.X, freeRect.Y, height, width)
				bestShort = short
				bestLong = long
				found = true
			}
		}
	}
	return
}

// sideFit 返回放入空闲矩形后较短和较长一边的剩余量。
func sideFit(freeRect Rect, width, height int) (shortSide, longSide int) {
	leftoverHoriz := abs(freeRect.Width - width)
	leftoverVert := abs(freeRect.Height - height)
	return min(leftoverHoriz, leftoverVert), max(leftoverHoriz, leftoverVert)
}

// place 从空闲集合中扣除已使用的矩形，然后清理被包含的空闲矩形。
func (f *freeList) place(used Rect) {
	for i := 0; i < len(*f); i++ {
		if f.split((*f)[i], used) {
			*f = slices.Delete(*f, i, i+1)
			i--
		}
	}
	f.prune()
}

// split 如果 used 与 freeRect 相交，就把 freeRect 剩余的上、下、左、右
// 部分追加到集合中并返回 true。
func (f *freeList) split(freeRect, used Rect) bool {
	if !used.Intersects(freeRect) {
		return false
	}

	if used.X < freeRect.Right() && used.Right() > freeRect.X {
		// New node at the top side of the used node.
		if used.Y > freeRect.Y && used.Y < freeRect.Bottom() {
			r := freeRect
			r.Height = used.Y - r.Y
			*f = append(*f, r)
		}

		// New node at the bottom side of the used node.
		if used.Bottom() < freeRect.Bottom() {
			r := freeRect
			r.Y = used.Bottom()
			r.Height = freeRect.Bottom() - used.Bottom()
			*f = append(*f, r)
		}
	}

	if used.Y < freeRect.Bottom() && used.Bottom() > freeRect.Y {
		// New node at the left side of the used node.
		if used.X > freeRect.X && used.X < freeRect.Right() {
			r := freeRect
			r.Width = used.X - r.X
			*f = append(*f, r)
		}

		// New node at the right side of the used node.
		if used.Right() < freeRect.Right() {
			r := freeRect
			r.X = used.Right()
			r.Width = freeRect.Right() - used.Right()
			*f = append(*f, r)
		}
	}
	return true
}

// prune 删除完全包含在另一个空闲矩形中的矩形。两个方向都检查。
func (f *freeList) prune() {
	rects := *f
	for i := 0; i < len(rects); i++ {
		for j := i + 1; j < len(rects); j++ {
			if rects[j].ContainsRect(rects[i]) {
				rects = slices.Delete(rects, i, i+1)
				i--
				break
			}
			if rects[i].ContainsRect(rects[j]) {
				rects = slices.Delete(rects, j, j+1)
				j--
			}
		}
	}
	*f = rects
}
