package rectpack

import (
	"cmp"
	"strconv"
	"strings"
)

// ID 是节点的标识符，可以是字符串或整数。
// 零值是空字符串标识符。
type ID struct {
	str     string
	num     int
	numeric bool
}

// StringID 创建一个字符串标识符。
func StringID(s string) ID {
	return ID{str: s}
}

// IntID 创建一个数字标识符。
func IntID(n int) ID {
	return ID{num: n, numeric: true}
}

// IsNumeric 判断标识符是否为数字。
func (id ID) IsNumeric() bool {
	return id.numeric
}

// String 返回标识符的字符串表示形式。
func (id ID) String() string {
	if id.numeric {
		return strconv.Itoa(id.num)
	}
	return id.str
}

// Compare 比较两个标识符，返回 -1、0 或 1。
// 数字按数值比较，字符串按字典序比较；类型不同时数字排在字符串前面。
func (id ID) Compare(other ID) int {
	switch {
	case id.numeric && other.numeric:
		return cmp.Compare(id.num, other.num)
	case id.numeric:
		return -1
	case other.numeric:
		return 1
	}
	return strings.Compare(id.str, other.str)
}

// Node 是待打包的矩形。Width/Height 是原始尺寸，
// X/Y/Rotated 由打包器写入。
type Node struct {
	ID     ID
	Width  int
	Height int

	// Rotated 为 true 时节点占用的区域为 (Height, Width)。
	Rotated bool

	X int
	Y int
}

// NewNode 创建具有指定标识符和尺寸的新节点。
func NewNode(id ID, width, height int) *Node {
	return &Node{ID: id, Width: width, Height: height}
}

// EffectiveWidth 返回考虑旋转后的宽度。
func (n *Node) EffectiveWidth() int {
	if n.Rotated {
		return n.Height
	}
	return n.Width
}

// EffectiveHeight 返回考虑旋转后的高度。
func (n *Node) EffectiveHeight() int {
	if n.Rotated {
		return n.Width
	}
	return n.Height
}

// Area 返回节点面积，与旋转无关。
func (n *Node) Area() int {
	return n.Width * n.Height
}

// Rect 返回节点当前位置和有效尺寸所占的矩形。
func (n *Node) Rect() Rect {
	return NewRect(n.X, n.Y, n.EffectiveWidth(), n.EffectiveHeight())
}
