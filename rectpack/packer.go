package rectpack

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultPadding 是节点之间默认保留的间距。
	DefaultPadding = 2

	// DefaultAutoSize 是 PackAutoResize 在未指定尺寸时的起始宽高。
	DefaultAutoSize = 32

	// MaxSize 定义了自动扩展的最大宽度/高度，
	// 基于现代GPU的最大纹理尺寸。
	MaxSize = 4096
)

var (
	// ErrPackFailed 表示有节点无法放入给定尺寸的区域。
	ErrPackFailed = errors.New("pack failed")

	// ErrInvalidSize 表示区域的宽度或高度不是正数。
	ErrInvalidSize = errors.New("width and height must be greater than 0")
)

// PackError 描述一次失败的打包。errors.Is(err, ErrPackFailed) 为 true。
type PackError struct {
	Algorithm Algorithm
	Width     int
	Height    int
	// Unplaced 是无法放置（或超出区域）的节点标识符，按尝试顺序排列。
	Unplaced []ID
}

func (e *PackError) Error() string {
	ids := make([]string, 0, len(e.Unplaced))
	for _, id := range e.Unplaced {
		ids = append(ids, id.String())
	}
	return fmt.Sprintf("%v: %d node(s) do not fit into %dx%d using %s: %s",
		ErrPackFailed, len(e.Unplaced), e.Width, e.Height, e.Algorithm, strings.Join(ids, ", "))
}

func (e *PackError) Unwrap() error {
	return ErrPackFailed
}

// Packer 包含2D矩形打包器的配置。打包器本身不保存打包状态，
// 同一个 Packer 可以用于多组互不相交的节点。
type Packer struct {
	algorithm Algorithm
	algo      packAlgorithm

	// Padding 定义节点之间预留的空隙大小。值为0或负数
	// 表示节点将被紧密排列
	//
	// 默认值：DefaultPadding
	Padding int

	// AllowRotate 表示是否允许旋转节点以优化放置。货架算法不会自行旋转。
	//
	// 默认值：true
	AllowRotate bool

	// Progress 在每个节点尝试放置后被调用，不影响打包结果。
	//
	// 默认值：nil
	Progress ProgressFunc
}

// NewPacker 创建并初始化一个新的打包器
// 参数:
//
//	algorithm - 打包算法
//
// 返回:
//
//	*Packer - 初始化成功的打包器实例
//	error - 算法未实现时返回 ErrUnsupportedAlgorithm
func NewPacker(algorithm Algorithm) (*Packer, error) {
	algo, err := newAlgorithm(algorithm)
	if err != nil {
		return nil, err
	}
	return &Packer{
		algorithm:   algorithm,
		algo:        algo,
		Padding:     DefaultPadding,
		AllowRotate: true,
	}, nil
}

// NewDefaultPacker 创建使用默认配置的打包器
// 默认配置:
//   - 算法: MaxRect
//   - 间距: DefaultPadding
//   - 允许旋转
func NewDefaultPacker() *Packer {
	packer, _ := NewPacker(MaxRect)
	return packer
}

// Algorithm 返回打包器使用的算法。
func (p *Packer) Algorithm() Algorithm {
	return p.algorithm
}

// Pack 把节点放入 width x height 的区域，直接修改每个节点的 X/Y/Rotated。
// 节点的顺序不会改变。
//
// 有节点放不下时返回 *PackError，但已完成的部分放置结果仍然保留：
// Simple 和 Tree 会尝试所有节点，MaxRect 在第一次找不到位置时立即停止。
func (p *Packer) Pack(nodes []*Node, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w (given %vx%v)", ErrInvalidSize, width, height)
	}
	padding := max(p.Padding, 0)

	failed := p.algo.attemptPack(nodes, width, height, padding, p.AllowRotate, p.Progress)
	Logger().Debug("rectpack: pack attempt",
		"algorithm", p.algorithm,
		"width", width,
		"height", height,
		"nodes", len(nodes),
		"failed", len(failed))

	if len(failed) == 0 {
		return nil
	}
	perr := &PackError{
		Algorithm: p.algorithm,
		Width:     width,
		Height:    height,
		Unplaced:  make([]ID, 0, len(failed)),
	}
	for _, n := range failed {
		perr.Unplaced = append(perr.Unplaced, n.ID)
	}
	return perr
}

// PackAutoResize 从 width x height 开始打包，失败时扩大区域后从头重新打包：
// 宽高相等时宽度翻倍，否则把较短的一边补齐成正方形。宽高不超过 MaxSize，
// 传入 0 时使用 DefaultAutoSize。
//
// 返回最后一次尝试的区域尺寸。失败只会在达到 MaxSize x MaxSize 时返回，
// 此时记录一条警告日志并返回最后一次的 *PackError，节点保留这次尝试的部分结果。
func (p *Packer) PackAutoResize(nodes []*Node, width, height int) (Size, error) {
	if width <= 0 {
		width = DefaultAutoSize
	}
	if height <= 0 {
		height = DefaultAutoSize
	}
	width = min(width, MaxSize)
	height = min(height, MaxSize)

	// 每次重试前恢复调用方的旋转状态，Tree 会在尝试中翻转它
	rotated := make([]bool, len(nodes))
	for i, n := range nodes {
		rotated[i] = n.Rotated
	}

	for {
		err := p.Pack(nodes, width, height)
		if err == nil {
			return NewSize(width, height), nil
		}
		if width == MaxSize && height == MaxSize {
			Logger().Warn("rectpack: auto resize reached the maximum size", "error", err)
			return NewSize(width, height), err
		}

		width, height = grow(width, height)
		for i, n := range nodes {
			n.Rotated = rotated[i]
		}
	}
}

// grow 返回下一次尝试的尺寸。
func grow(width, height int) (int, int) {
	switch {
	case width == height:
		width = min(width*2, MaxSize)
	case width > height:
		height = width
	default:
		width = height
	}
	return width, height
}

// Bounds 计算包含所有给定节点所需的最小尺寸。
func Bounds(nodes []*Node) Size {
	var size Size
	for _, n := range nodes {
		r := n.Rect()
		size.Width = max(size.Width, r.Right())
		size.Height = max(size.Height, r.Bottom())
	}
	return size
}

// Utilization 返回节点面积之和占 size 的比例(0.0-1.0)
func Utilization(nodes []*Node, size Size) float64 {
	if size.Area() <= 0 {
		return 0
	}
	used := 0
	for _, n := range nodes {
		used += n.Area()
	}
	return float64(used) / float64(size.Area())
}

// Overlapping 查找第一对带间距占用区域相互重叠的节点。
// 每个节点的占用区域为有效尺寸加上一个 padding。
func Overlapping(nodes []*Node, padding int) (a, b *Node, found bool) {
	padding = max(padding, 0)
	for i := 0; i < len(nodes)-1; i++ {
		ri := padded(nodes[i], padding)
		for j := i + 1; j < len(nodes); j++ {
			if ri.Intersects(padded(nodes[j], padding)) {
				return nodes[i], nodes[j], true
			}
		}
	}
	return nil, nil, false
}

func padded(n *Node, padding int) Rect {
	r := n.Rect()
	r.Width += padding
	r.Height += padding
	return r
}
