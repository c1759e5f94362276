package utils

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// CopyStaticAssets copies the tree at src into dst. A missing src is not an
// error; the generated page works without its stylesheet.
func CopyStaticAssets(src, dst string) (int, error) {
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}

	copied := 0
	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		destPath := filepath.Join(dst, relPath)

		if info.IsDir() {
			return os.MkdirAll(destPath, 0755)
		}

		if err := copyFile(path, destPath); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, fmt.Errorf("failed to copy static assets: %w", err)
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, srcFile); err != nil {
		destFile.Close()
		return err
	}
	return destFile.Close()
}

// DominantColors returns the count most frequent colours of the image at
// imagePath as #rrggbb strings.
func DominantColors(imagePath string, count int) ([]string, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var out []string
	for _, c := range dominantColors(img, count) {
		out = append(out, hexColor(c))
	}
	return out, nil
}

func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	// Convert to 0-255 range
	return fmt.Sprintf("#%02x%02x%02x", r/257, g/257, b/257)
}

// dominantColors counts opaque pixels by colour and returns the most common.
func dominantColors(img image.Image, count int) []color.Color {
	bounds := img.Bounds()
	colorCounts := make(map[color.RGBA]int)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if c.A == 0 {
				continue
			}
			colorCounts[c]++
		}
	}

	type colorFreq struct {
		color color.RGBA
		freq  int
	}
	freqs := make([]colorFreq, 0, len(colorCounts))
	for c, f := range colorCounts {
		freqs = append(freqs, colorFreq{color: c, freq: f})
	}
	sort.Slice(freqs, func(i, j int) bool {
		if freqs[i].freq != freqs[j].freq {
			return freqs[i].freq > freqs[j].freq
		}
		return hexColor(freqs[i].color) < hexColor(freqs[j].color)
	})

	var dominant []color.Color
	for i := 0; i < count && i < len(freqs); i++ {
		dominant = append(dominant, freqs[i].color)
	}
	return dominant
}
