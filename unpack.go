package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newUnpackCommand() *cobra.Command {
	var outputDir string
	cmd := &cobra.Command{
		Use:   "unpack <atlas.json>",
		Short: "Split an atlas back into the original images.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return unpack(args[0], outputDir)
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output", "o", "unpacked", "输出目录")
	return cmd
}

// unpack 按 atlas.json 从图集中裁出每张图片，撤销旋转并恢复裁切掉的透明边缘
func unpack(jsonPath, outputDir string) error {
	data, err := readAtlasJSON(jsonPath)
	if err != nil {
		return err
	}
	atlas, err := imaging.Open(filepath.Join(filepath.Dir(jsonPath), data.Meta.Image))
	if err != nil {
		return fmt.Errorf("无法打开图集: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	for _, info := range data.Sprites {
		r := info.Region
		img := imaging.Crop(atlas, image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H))
		if info.Rotated {
			img = imaging.Rotate90(img)
		}
		if info.Trimmed {
			full := imaging.New(info.SourceSize.W, info.SourceSize.H, color.NRGBA{0, 0, 0, 0})
			at := image.Pt(info.SourceRect.X, info.SourceRect.Y)
			draw.Draw(full, image.Rectangle{Min: at, Max: at.Add(img.Bounds().Size())}, img, image.Point{}, draw.Src)
			img = full
		}
		if err := saveImage(filepath.Join(outputDir, info.Filename), img); err != nil {
			return err
		}
		logrus.Debugf("已解包 %s", info.Filename)
	}
	logrus.Infof("已解包 %d 个图片到 %s", len(data.Sprites), outputDir)
	return nil
}
