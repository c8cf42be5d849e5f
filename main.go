package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"binpack/rectpack"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	VERSION = "0.1.0"
)

// Options 是 pack 命令的参数
type Options struct {
	InputDir              string // 输入目录
	OutputDir             string // 输出目录
	Width                 int    // 区域宽度，0 表示自动扩展
	Height                int    // 区域高度，0 表示自动扩展
	Padding               int    // 间距
	AllowRotate           bool   // 是否允许旋转
	Algorithm             string // 算法
	SortBy                string // 排序依据，"none" 表示不排序
	Order                 string // 排序方向
	IsFilesSort           bool   // 是否按文件名自然排序
	IsTrimTransparent     bool   // 是否修剪透明部分
	TransparencyThreshold uint8  // 透明度阈值
	PowerOfTwo            bool   // 图集尺寸是否使用2的幂
}

// SpriteInfo 存储精灵图的信息
type SpriteInfo struct {
	Filename string `json:"filename"`
	// Region 是精灵在图集中占用的区域（旋转后的尺寸）
	Region Region `json:"region"`
	// SourceSize 是原始图片的尺寸
	SourceSize Dimension `json:"sourceSize"`
	// SourceRect 是裁切后保留的区域在原始图片中的位置
	SourceRect Region `json:"sourceRect"`
	Rotated    bool   `json:"rotated"`
	Trimmed    bool   `json:"trimmed"`
}

type Region struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type Dimension struct {
	W int `json:"w"`
	H int `json:"h"`
}

// AtlasData 是写入 atlas.json 的元数据
type AtlasData struct {
	Meta struct {
		Version     string    `json:"version"`
		Timestamp   string    `json:"timestamp"`
		Image       string    `json:"image"`
		Algorithm   string    `json:"algorithm"`
		Padding     int       `json:"padding"`
		Size        Dimension `json:"size"`
		Utilization float64   `json:"utilization"`
	} `json:"meta"`
	Sprites []SpriteInfo `json:"sprites"`
	// Unpacked 列出无法放入图集的文件
	Unpacked []string `json:"unpacked,omitempty"`
}

func newRootCommand() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "binpack",
		Short:         "binpack packs sprites into a texture atlas.",
		Version:       VERSION,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logrus.SetOutput(cmd.ErrOrStderr())
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
				rectpack.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")
	root.AddCommand(newPackCommand(), newUnpackCommand(), newBenchCommand())
	return root
}

func newPackCommand() *cobra.Command {
	opts := Options{}
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack the images of a directory into atlas.png and atlas.json.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPack(&opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.InputDir, "input", "i", "input", "输入目录")
	flags.StringVarP(&opts.OutputDir, "output", "o", "output", "输出目录")
	flags.IntVar(&opts.Width, "width", 0, "打包区域宽度，0 表示自动扩展")
	flags.IntVar(&opts.Height, "height", 0, "打包区域高度，0 表示自动扩展")
	flags.IntVar(&opts.Padding, "padding", rectpack.DefaultPadding, "间距")
	flags.BoolVar(&opts.AllowRotate, "rotate", true, "允许矩形旋转")
	flags.StringVar(&opts.Algorithm, "algorithm", rectpack.MaxRect.String(), "打包算法 (simple, tree, max-rect)")
	flags.StringVar(&opts.SortBy, "sort", "area", "排序依据 (width, height, area, id, none)")
	flags.StringVar(&opts.Order, "order", "descending", "排序方向 (ascending, descending)")
	flags.BoolVar(&opts.IsFilesSort, "sort-files", true, "按文件名自然排序")
	flags.BoolVar(&opts.IsTrimTransparent, "trim", false, "修剪透明部分")
	flags.Uint8Var(&opts.TransparencyThreshold, "threshold", 0, "透明度阈值")
	flags.BoolVar(&opts.PowerOfTwo, "pow-of-two", false, "图集尺寸使用2的幂")
	return cmd
}

// errIncomplete 表示图集已写出，但有图片没有放入图集
var errIncomplete = errors.New("some images do not fit into the atlas")

func runPack(opts *Options) error {
	start := time.Now()
	algorithm, err := rectpack.ParseAlgorithm(opts.Algorithm)
	if err != nil {
		return err
	}
	packer, err := rectpack.NewPacker(algorithm)
	if err != nil {
		return err
	}
	packer.Padding = opts.Padding
	packer.AllowRotate = opts.AllowRotate
	packer.Progress = func(index, total int, id rectpack.ID) {
		logrus.Tracef("%d/%d %s", index+1, total, id)
	}

	sprites, err := readSprites(opts)
	if err != nil {
		return err
	}
	logrus.Infof("找到 %d 个图片文件", len(sprites))

	nodes := make([]*rectpack.Node, len(sprites))
	byName := make(map[string]*sprite, len(sprites))
	for i, s := range sprites {
		size := s.img.Bounds().Size()
		nodes[i] = rectpack.NewNode(rectpack.StringID(s.name), size.X, size.Y)
		byName[s.name] = s
	}
	if opts.SortBy != "none" {
		by, err := rectpack.ParseSortBy(opts.SortBy)
		if err != nil {
			return err
		}
		order, err := rectpack.ParseOrder(opts.Order)
		if err != nil {
			return err
		}
		rectpack.Sort(nodes, by, order, opts.AllowRotate)
	}

	if opts.Width <= 0 || opts.Height <= 0 {
		var size rectpack.Size
		size, err = packer.PackAutoResize(nodes, opts.Width, opts.Height)
		logrus.Debugf("自动扩展后的区域: %s", size)
	} else {
		err = packer.Pack(nodes, opts.Width, opts.Height)
	}
	unplaced := map[rectpack.ID]bool{}
	var perr *rectpack.PackError
	if errors.As(err, &perr) {
		for _, id := range perr.Unplaced {
			unplaced[id] = true
		}
	} else if err != nil {
		return err
	}

	placed := make([]*rectpack.Node, 0, len(nodes))
	var skipped []string
	for _, n := range nodes {
		if unplaced[n.ID] {
			skipped = append(skipped, n.ID.String())
			continue
		}
		placed = append(placed, n)
	}

	atlasSize := rectpack.Bounds(placed)
	// PNG 不支持 0x0 的图像
	atlasSize.Width = max(atlasSize.Width, 1)
	atlasSize.Height = max(atlasSize.Height, 1)
	if opts.PowerOfTwo {
		atlasSize.Width = nextPowerOfTwo(atlasSize.Width)
		atlasSize.Height = nextPowerOfTwo(atlasSize.Height)
	}

	atlas, infos := createAtlas(placed, byName, atlasSize)

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	imagePath := filepath.Join(opts.OutputDir, "atlas.png")
	if err := saveImage(imagePath, atlas); err != nil {
		return err
	}

	data := AtlasData{Sprites: infos, Unpacked: skipped}
	data.Meta.Version = VERSION
	data.Meta.Timestamp = time.Now().Format("2006-01-02 15:04:05")
	data.Meta.Image = filepath.Base(imagePath)
	data.Meta.Algorithm = algorithm.String()
	data.Meta.Padding = packer.Padding
	data.Meta.Size = Dimension{W: atlasSize.Width, H: atlasSize.Height}
	data.Meta.Utilization = rectpack.Utilization(placed, atlasSize)

	jsonPath := filepath.Join(opts.OutputDir, "atlas.json")
	if err := writeAtlasJSON(jsonPath, &data); err != nil {
		return fmt.Errorf("生成JSON元数据失败: %w", err)
	}

	logrus.Infof("图集大小: %dx%d", atlasSize.Width, atlasSize.Height)
	logrus.Infof("空间利用率: %.2f%%", data.Meta.Utilization*100)
	logrus.Infof("已打包: %d, 未打包: %d", len(placed), len(skipped))
	logrus.Debugf("总耗时: %v", time.Since(start))

	if len(skipped) > 0 {
		return fmt.Errorf("%w: %d image(s)", errIncomplete, len(skipped))
	}
	return nil
}

func writeAtlasJSON(path string, data *AtlasData) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, jsonData, 0644)
}

func readAtlasJSON(path string) (*AtlasData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data AtlasData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &data, nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
