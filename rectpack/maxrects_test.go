package rectpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxRectsTwoNodes(t *testing.T) {
	a := NewNode(StringID("a"), 10, 5)
	b := NewNode(StringID("b"), 5, 10)
	nodes := []*Node{a, b}
	p, _ := NewPacker(MaxRect)
	p.Padding = 0

	require.NoError(t, p.Pack(nodes, 10, 15))
	_, _, overlap := Overlapping(nodes, 0)
	assert.False(t, overlap)
	for _, n := range nodes {
		assert.LessOrEqual(t, n.X+n.EffectiveWidth(), 10)
		assert.LessOrEqual(t, n.Y+n.EffectiveHeight(), 15)
	}
	assert.Equal(t, Point{0, 0}, Point{a.X, a.Y})
	assert.Equal(t, Point{0, 5}, Point{b.X, b.Y})
}

func TestMaxRectsRotation(t *testing.T) {
	n := NewNode(StringID("a"), 20, 10)
	p, _ := NewPacker(MaxRect)
	p.Padding = 0

	require.NoError(t, p.Pack([]*Node{n}, 10, 20))
	assert.True(t, n.Rotated)

	p.AllowRotate = false
	assert.ErrorIs(t, p.Pack([]*Node{n}, 10, 20), ErrPackFailed)
}

func TestMaxRectsAbortsEarly(t *testing.T) {
	a := NewNode(StringID("a"), 10, 10)
	b := NewNode(StringID("b"), 5, 5)
	b.X, b.Y = -1, -1
	p, _ := NewPacker(MaxRect)
	p.Padding = 0

	var progress []string
	p.Progress = func(index, total int, id ID) {
		assert.Equal(t, 2, total)
		progress = append(progress, id.String())
	}

	err := p.Pack([]*Node{a, b}, 10, 10)
	var perr *PackError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, []ID{StringID("b")}, perr.Unplaced)
	assert.Equal(t, Point{-1, -1}, Point{b.X, b.Y})
	assert.Equal(t, []string{"a"}, progress)
}

func TestMaxRectsPaddingAtEdge(t *testing.T) {
	// 第一个空闲矩形多一个间距，所以 2x(8+2) 正好放进 18 宽的区域
	a := NewNode(StringID("a"), 8, 8)
	b := NewNode(StringID("b"), 8, 8)
	p, _ := NewPacker(MaxRect)

	require.NoError(t, p.Pack([]*Node{a, b}, 18, 8))
	_, _, overlap := Overlapping([]*Node{a, b}, 2)
	assert.False(t, overlap)
}

func TestMaxRectsBestFitOrder(t *testing.T) {
	// 完全贴合的节点先被放置，与输入顺序无关
	small := NewNode(StringID("small"), 3, 3)
	exact := NewNode(StringID("exact"), 10, 4)
	var order []string
	p, _ := NewPacker(MaxRect)
	p.Padding = 0
	p.Progress = func(_ int, _ int, id ID) { order = append(order, id.String()) }

	require.NoError(t, p.Pack([]*Node{small, exact}, 10, 8))
	assert.Equal(t, []string{"exact", "small"}, order)
}

func TestFreeListSplitAndPrune(t *testing.T) {
	f := freeList{NewRect(0, 0, 10, 10)}
	f.place(NewRect(0, 0, 4, 4))

	assert.ElementsMatch(t, []Rect{
		NewRect(0, 4, 10, 6),
		NewRect(4, 0, 6, 10),
	}, []Rect(f))

	for i, a := range f {
		for j, b := range f {
			if i != j {
				assert.False(t, a.ContainsRect(b), "%v contains %v", a, b)
			}
		}
	}
}

func TestFreeListPruneRemovesContained(t *testing.T) {
	f := freeList{
		NewRect(2, 2, 2, 2),
		NewRect(0, 0, 10, 10),
		NewRect(0, 0, 10, 10),
		NewRect(5, 5, 1, 1),
	}
	f.prune()
	assert.Equal(t, []Rect{NewRect(0, 0, 10, 10)}, []Rect(f))
}
