package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"binpack/rectpack"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSprite 写入一张带有可区分像素的图片，border 宽度的边缘是透明的
func writeSprite(t *testing.T, dir, name string, w, h, border int, seed uint8) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := border; y < h-border; y++ {
		for x := border; x < w-border; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x*7) + seed, G: uint8(y * 13), B: seed, A: 255})
		}
	}
	require.NoError(t, imaging.Save(img, filepath.Join(dir, name)))
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func assertSameImage(t *testing.T, want, got string) {
	t.Helper()
	a, err := imaging.Open(want)
	require.NoError(t, err)
	b, err := imaging.Open(got)
	require.NoError(t, err)
	assert.Equal(t, imaging.Clone(a).Pix, imaging.Clone(b).Pix, filepath.Base(want))
}

func spriteFixture(t *testing.T) string {
	dir := t.TempDir()
	writeSprite(t, dir, "hero.png", 16, 16, 0, 10)
	writeSprite(t, dir, "tall.png", 8, 30, 0, 20)
	writeSprite(t, dir, "wide.png", 30, 8, 0, 30)
	writeSprite(t, dir, "tile2.png", 12, 12, 0, 40)
	writeSprite(t, dir, "tile10.png", 10, 10, 0, 50)
	return dir
}

func TestPackAndUnpack(t *testing.T) {
	for _, algorithm := range []string{"simple", "tree", "max-rect"} {
		t.Run(algorithm, func(t *testing.T) {
			input := spriteFixture(t)
			output := t.TempDir()
			unpacked := t.TempDir()

			_, err := runCommand(t, "pack", "-i", input, "-o", output,
				"--algorithm", algorithm, "--sort", "width")
			require.NoError(t, err)

			data, err := readAtlasJSON(filepath.Join(output, "atlas.json"))
			require.NoError(t, err)
			assert.Len(t, data.Sprites, 5)
			assert.Empty(t, data.Unpacked)
			assert.Equal(t, algorithm, data.Meta.Algorithm)
			assert.Equal(t, "atlas.png", data.Meta.Image)

			nodes := make([]*rectpack.Node, 0, len(data.Sprites))
			for _, s := range data.Sprites {
				nodes = append(nodes, &rectpack.Node{
					ID: rectpack.StringID(s.Filename), X: s.Region.X, Y: s.Region.Y,
					Width: s.Region.W, Height: s.Region.H,
				})
				assert.LessOrEqual(t, s.Region.X+s.Region.W, data.Meta.Size.W)
				assert.LessOrEqual(t, s.Region.Y+s.Region.H, data.Meta.Size.H)
			}
			_, _, overlap := rectpack.Overlapping(nodes, 0)
			assert.False(t, overlap)

			_, err = runCommand(t, "unpack", filepath.Join(output, "atlas.json"), "-o", unpacked)
			require.NoError(t, err)
			for _, s := range data.Sprites {
				assertSameImage(t, filepath.Join(input, s.Filename), filepath.Join(unpacked, s.Filename))
			}
		})
	}
}

func TestPackRotatesTallSprites(t *testing.T) {
	input := spriteFixture(t)
	output := t.TempDir()

	// 按宽度排序时较高的图片先被旋转，货架算法保持这个方向
	_, err := runCommand(t, "pack", "-i", input, "-o", output, "--algorithm", "simple", "--sort", "width")
	require.NoError(t, err)

	data, err := readAtlasJSON(filepath.Join(output, "atlas.json"))
	require.NoError(t, err)
	for _, s := range data.Sprites {
		if s.Filename == "tall.png" {
			assert.True(t, s.Rotated)
			assert.Equal(t, Region{X: s.Region.X, Y: s.Region.Y, W: 30, H: 8}, s.Region)
		}
	}
}

func TestPackTrim(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	unpacked := t.TempDir()
	writeSprite(t, input, "framed.png", 20, 14, 3, 1)

	_, err := runCommand(t, "pack", "-i", input, "-o", output, "--trim")
	require.NoError(t, err)

	data, err := readAtlasJSON(filepath.Join(output, "atlas.json"))
	require.NoError(t, err)
	require.Len(t, data.Sprites, 1)
	s := data.Sprites[0]
	assert.True(t, s.Trimmed)
	assert.Equal(t, Dimension{W: 20, H: 14}, s.SourceSize)
	assert.Equal(t, Region{X: 3, Y: 3, W: 14, H: 8}, s.SourceRect)

	_, err = runCommand(t, "unpack", filepath.Join(output, "atlas.json"), "-o", unpacked)
	require.NoError(t, err)
	assertSameImage(t, filepath.Join(input, "framed.png"), filepath.Join(unpacked, "framed.png"))
}

func TestPackFixedSizeTooSmall(t *testing.T) {
	input := spriteFixture(t)
	output := t.TempDir()

	_, err := runCommand(t, "pack", "-i", input, "-o", output,
		"--algorithm", "tree", "--width", "20", "--height", "20", "--padding", "0")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errIncomplete))

	data, err := readAtlasJSON(filepath.Join(output, "atlas.json"))
	require.NoError(t, err)
	assert.NotEmpty(t, data.Unpacked)
	assert.Equal(t, 5, len(data.Sprites)+len(data.Unpacked))
}

func TestPackRejectsUnknownAlgorithm(t *testing.T) {
	_, err := runCommand(t, "pack", "-i", spriteFixture(t), "-o", t.TempDir(), "--algorithm", "skyline")
	assert.ErrorIs(t, err, rectpack.ErrUnsupportedAlgorithm)
}

func TestListImagesNaturalOrder(t *testing.T) {
	dir := spriteFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	paths, err := listImages(&Options{InputDir: dir, IsFilesSort: true})
	require.NoError(t, err)
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	assert.Equal(t, []string{"hero.png", "tall.png", "tile2.png", "tile10.png", "wide.png"}, names)
}

func TestListImagesEmpty(t *testing.T) {
	_, err := listImages(&Options{InputDir: t.TempDir()})
	assert.Error(t, err)
}

func TestOpaqueBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	assert.Equal(t, image.Rect(0, 0, 1, 1), opaqueBounds(img, 0))

	img.SetNRGBA(2, 3, color.NRGBA{A: 255})
	img.SetNRGBA(6, 4, color.NRGBA{A: 255})
	img.SetNRGBA(8, 8, color.NRGBA{A: 10})
	assert.Equal(t, image.Rect(2, 3, 7, 5), opaqueBounds(img, 10))
	assert.Equal(t, image.Rect(2, 3, 9, 9), opaqueBounds(img, 0))
}

func TestNextPowerOfTwo(t *testing.T) {
	for in, want := range map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 64: 64, 65: 128, 1000: 1024} {
		assert.Equal(t, want, nextPowerOfTwo(in), "%d", in)
	}
}

func TestBench(t *testing.T) {
	out, err := runCommand(t, "bench", "--count", "40", "--maxsize", "24")
	require.NoError(t, err)
	for _, name := range []string{"simple", "tree", "max-rect", "area", "width", "height", "id"} {
		assert.Contains(t, out, name)
	}
	assert.NotContains(t, out, "false")
}

func TestBenchValidatesSizes(t *testing.T) {
	_, err := runCommand(t, "bench", "--minsize", "10", "--maxsize", "5")
	assert.Error(t, err)
}
