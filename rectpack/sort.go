package rectpack

import (
	"cmp"
	"fmt"
	"slices"
)

// SortBy 选择排序依据。
type SortBy uint8

const (
	// SortByArea 按面积排序（默认）。
	SortByArea SortBy = iota
	// SortByWidth 按宽度排序。允许旋转时较高的节点会先被旋转为横向。
	SortByWidth
	// SortByHeight 按高度排序。允许旋转时较宽的节点会先被旋转为纵向。
	SortByHeight
	// SortByID 按标识符排序。
	SortByID
)

var sortByNames = [...]string{
	SortByArea:   "area",
	SortByWidth:  "width",
	SortByHeight: "height",
	SortByID:     "id",
}

func (s SortBy) String() string {
	if int(s) < len(sortByNames) {
		return sortByNames[s]
	}
	return fmt.Sprintf("SortBy(%d)", s)
}

// ParseSortBy 解析排序依据名称，空字符串表示默认的 "area"。
func ParseSortBy(name string) (SortBy, error) {
	if name == "" {
		return SortByArea, nil
	}
	for i, n := range sortByNames {
		if n == name {
			return SortBy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sort key %q (want width, height, area or id)", name)
}

// Order 是排序方向。
type Order uint8

const (
	Ascending Order = iota
	Descending
)

func (o Order) String() string {
	if o == Descending {
		return "descending"
	}
	return "ascending"
}

// ParseOrder 解析排序方向，空字符串表示 "ascending"。
func ParseOrder(name string) (Order, error) {
	switch name {
	case "", "ascending":
		return Ascending, nil
	case "descending":
		return Descending, nil
	}
	return 0, fmt.Errorf("unknown sort order %q (want ascending or descending)", name)
}

// CompareFunc 定义节点比较函数的原型
// 返回值:
//
//	-1: a < b
//	 0: a == b
//	 1: a > b
type CompareFunc func(a, b *Node) int

// CompareWidth 按有效宽度升序比较，宽度相同时按标识符比较
func CompareWidth(a, b *Node) int {
	if c := cmp.Compare(a.EffectiveWidth(), b.EffectiveWidth()); c != 0 {
		return c
	}
	return CompareID(a, b)
}

// CompareHeight 按有效高度升序比较，高度相同时按标识符比较
func CompareHeight(a, b *Node) int {
	if c := cmp.Compare(a.EffectiveHeight(), b.EffectiveHeight()); c != 0 {
		return c
	}
	return CompareID(a, b)
}

// CompareArea 按面积升序比较，面积相同时按标识符比较
func CompareArea(a, b *Node) int {
	if c := cmp.Compare(a.Area(), b.Area()); c != 0 {
		return c
	}
	return CompareID(a, b)
}

// CompareID 按标识符比较
func CompareID(a, b *Node) int {
	return a.ID.Compare(b.ID)
}

// OrientWide 把高大于宽的节点标记为旋转，使其有效宽度取较长边。
func OrientWide(n *Node) {
	if n.Height > n.Width {
		n.Rotated = true
	}
}

// OrientTall 把宽大于高的节点标记为旋转，使其有效高度取较长边。
func OrientTall(n *Node) {
	if n.Width > n.Height {
		n.Rotated = true
	}
}

// Sort 对节点排序并返回同一个切片。
//
// 排序前所有节点的 Rotated 都会被重置为 false。按宽度或高度排序且
// allowRotate 为 true 时，先对每个节点执行一次方向选择（OrientWide /
// OrientTall），再按有效尺寸排序，因此排序结果不依赖比较函数的调用顺序。
// Descending 会在升序结果上整体反转。
func Sort(nodes []*Node, by SortBy, order Order, allowRotate bool) []*Node {
	for _, n := range nodes {
		n.Rotated = false
	}

	var compare CompareFunc
	switch by {
	case SortByWidth:
		if allowRotate {
			orient(nodes, OrientWide)
		}
		compare = CompareWidth
	case SortByHeight:
		if allowRotate {
			orient(nodes, OrientTall)
		}
		compare = CompareHeight
	case SortByArea:
		compare = CompareArea
	default:
		compare = CompareID
	}
	slices.SortStableFunc(nodes, compare)

	if order == Descending {
		slices.Reverse(nodes)
	}
	return nodes
}

func orient(nodes []*Node, fn func(*Node)) {
	for _, n := range nodes {
		fn(n)
	}
}
