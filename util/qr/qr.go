// Package qr 把订阅地址等短文本渲染为可直接放进 <img src> 的 PNG data URI。
package qr

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"

	"github.com/skip2/go-qrcode"
)

const (
	// Border 四周留白的模块数
	Border = 1
	// ModuleSize 每个模块的像素边长
	ModuleSize = 10

	dataURIPrefix = "data:image/png;base64,"
)

var palette = color.Palette{color.White, color.Black}

// Encode 生成二维码 PNG 并返回 data URI，版本按内容自动选择最小值
func Encode(text string) (string, error) {
	pngBytes, err := EncodePNG(text)
	if err != nil {
		return "", err
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(pngBytes), nil
}

// EncodePNG 生成二维码的 PNG 字节，空文本得到不含数据的版本 1 符号
func EncodePNG(text string) ([]byte, error) {
	if text == "" {
		return renderPNG(emptyBitmap())
	}
	code, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	// go-qrcode 默认留 4 个模块的空白，这里自己画 1 个模块的边
	code.DisableBorder = true
	return renderPNG(code.Bitmap())
}

func renderPNG(bitmap [][]bool) ([]byte, error) {
	size := (len(bitmap) + 2*Border) * ModuleSize
	img := image.NewPaletted(image.Rect(0, 0, size, size), palette)
	for y, row := range bitmap {
		for x, dark := range row {
			if !dark {
				continue
			}
			x0 := (x + Border) * ModuleSize
			y0 := (y + Border) * ModuleSize
			for dy := 0; dy < ModuleSize; dy++ {
				for dx := 0; dx < ModuleSize; dx++ {
					img.SetColorIndex(x0+dx, y0+dy, 1)
				}
			}
		}
	}

	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.BestCompression}
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
