package rectpack

import (
	"errors"
	"fmt"
)

// Algorithm 选择打包算法。
type Algorithm uint8

const (
	// Simple 是从左到右、从上到下的货架算法。
	Simple Algorithm = iota
	// Tree 是基于二叉分割树的断头台算法。
	Tree
	// MaxRect 是最大矩形算法（最佳短边适应）。
	MaxRect
	// Skyline 是保留的名称，目前没有实现。
	Skyline
)

var algorithmNames = [...]string{
	Simple:  "simple",
	Tree:    "tree",
	MaxRect: "max-rect",
	Skyline: "skyline",
}

// String implements the Stringer interface.
func (a Algorithm) String() string {
	if int(a) < len(algorithmNames) {
		return algorithmNames[a]
	}
	return fmt.Sprintf("Algorithm(%d)", a)
}

var (
	// ErrUnsupportedAlgorithm 表示算法名称已知但没有实现，或者完全无效。
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
)

// ParseAlgorithm 根据名称返回算法。"skyline" 可以被解析，
// 但 NewPacker 会拒绝它。
func ParseAlgorithm(name string) (Algorithm, error) {
	for i, n := range algorithmNames {
		if n == name {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
}

// ProgressFunc 在每个节点尝试放置之后被调用。
// index 是从 0 开始的尝试序号，total 是节点总数。
type ProgressFunc func(index, total int, id ID)

// packAlgorithm 是一个包装算法的接口
type packAlgorithm interface {
	// attemptPack 把节点放入 width x height 的区域，直接修改节点的
	// X/Y/Rotated，返回无法放置的节点。每次调用都从空区域开始。
	attemptPack(nodes []*Node, width, height, padding int, allowRotate bool, progress ProgressFunc) []*Node
}

func newAlgorithm(a Algorithm) (packAlgorithm, error) {
	switch a {
	case Simple:
		return shelfPack{}, nil
	case Tree:
		return treePack{}, nil
	case MaxRect:
		return maxRectsPack{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, a)
}

func reportProgress(progress ProgressFunc, index, total int, id ID) {
	if progress != nil {
		progress(index, total, id)
	}
}
