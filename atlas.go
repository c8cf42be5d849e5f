package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math/bits"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"binpack/rectpack"

	"github.com/disintegration/imaging"
	"github.com/maruel/natural"
	"github.com/sirupsen/logrus"
)

// sprite 是一张已解码（可能已裁切）的输入图片
type sprite struct {
	name       string
	img        *image.NRGBA
	sourceSize image.Point
	// trim 是 img 在原始图片中的位置
	trim image.Rectangle
}

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// listImages 返回目录中所有图片文件的路径
func listImages(opts *Options) ([]string, error) {
	entries, err := os.ReadDir(opts.InputDir)
	if err != nil {
		return nil, fmt.Errorf("输入目录 %s 不可读: %w", opts.InputDir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(opts.InputDir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("输入目录 %s 中没有找到任何图片文件", opts.InputDir)
	}
	// 是否按文件名排序
	if opts.IsFilesSort {
		sort.Sort(natural.StringSlice(paths))
	}
	return paths, nil
}

// readSprites 并行解码所有图片，按需裁切透明边缘
func readSprites(opts *Options) ([]*sprite, error) {
	paths, err := listImages(opts)
	if err != nil {
		return nil, err
	}
	if opts.IsTrimTransparent {
		logrus.Debug("已开启透明区域裁切...")
	}

	sprites := make([]*sprite, len(paths))
	errChan := make(chan error, len(paths))
	semaphore := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		semaphore <- struct{}{}
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			src, err := imaging.Open(path)
			if err != nil {
				errChan <- fmt.Errorf("无法解码图片 %s: %w", path, err)
				return
			}
			img := imaging.Clone(src)
			s := &sprite{
				name:       filepath.Base(path),
				img:        img,
				sourceSize: img.Bounds().Size(),
				trim:       img.Bounds(),
			}
			if opts.IsTrimTransparent {
				s.trim = opaqueBounds(img, opts.TransparencyThreshold)
				s.img = imaging.Crop(img, s.trim)
			}
			sprites[i] = s
		}(i, path)
	}
	wg.Wait()
	close(errChan)

	// 检查是否有错误
	if err, ok := <-errChan; ok {
		return nil, err
	}
	return sprites, nil
}

// opaqueBounds 返回 alpha 大于 threshold 的像素所在的最小矩形。
// 图像完全透明时返回 1x1 的左上角区域，保证节点尺寸为正。
func opaqueBounds(img *image.NRGBA, threshold uint8) image.Rectangle {
	bounds := img.Bounds()
	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X-1, bounds.Min.Y-1
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		i := img.PixOffset(bounds.Min.X, y)
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.Pix[i+3] > threshold { // 直接访问alpha通道
				minX = min(minX, x)
				minY = min(minY, y)
				maxX = max(maxX, x)
				maxY = max(maxY, y)
			}
			i += 4
		}
	}
	if maxX < minX {
		return image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X+1, bounds.Min.Y+1)
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// createAtlas 把已放置的节点对应的图片绘制到一张图集上，
// 旋转的节点顺时针旋转 90 度后绘制。
func createAtlas(nodes []*rectpack.Node, sprites map[string]*sprite, size rectpack.Size) (*image.NRGBA, []SpriteInfo) {
	dst := imaging.New(size.Width, size.Height, color.NRGBA{0, 0, 0, 0})
	infos := make([]SpriteInfo, 0, len(nodes))

	for _, n := range nodes {
		s := sprites[n.ID.String()]
		src := s.img
		if n.Rotated {
			src = imaging.Rotate270(src)
		}
		r := n.Rect()
		dstRect := image.Rect(r.X, r.Y, r.Right(), r.Bottom())
		draw.Draw(dst, dstRect, src, src.Bounds().Min, draw.Src)

		info := SpriteInfo{
			Filename:   s.name,
			Region:     Region{X: r.X, Y: r.Y, W: r.Width, H: r.Height},
			SourceSize: Dimension{W: s.sourceSize.X, H: s.sourceSize.Y},
			SourceRect: Region{X: s.trim.Min.X, Y: s.trim.Min.Y, W: s.trim.Dx(), H: s.trim.Dy()},
			Rotated:    n.Rotated,
		}
		info.Trimmed = s.trim.Min != (image.Point{}) || s.trim.Size() != s.sourceSize
		infos = append(infos, info)
	}
	return dst, infos
}

func saveImage(path string, img image.Image) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("保存图像失败: %w", err)
	}
	return nil
}
