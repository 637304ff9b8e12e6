package qr

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/skip2/go-qrcode/bitset"
	"github.com/skip2/go-qrcode/reedsolomon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_DataURI(t *testing.T) {
	uri, err := Encode("http://127.0.0.1:2096/sub/user@example.com")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.Equal(t, bounds.Dx(), bounds.Dy())
	assert.Zero(t, bounds.Dx()%ModuleSize)

	// 第一个像素是白色边框，紧接着是定位图案的黑色模块
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r&g&b)
	r, g, b, _ = img.At(Border*ModuleSize, Border*ModuleSize).RGBA()
	assert.Equal(t, uint32(0), r|g|b)
}

func TestEncode_Deterministic(t *testing.T) {
	a, err := Encode("vless://uuid@example.com:443?security=reality#test")
	require.NoError(t, err)
	b, err := Encode("vless://uuid@example.com:443?security=reality#test")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncode_SizeGrowsWithPayload(t *testing.T) {
	small, err := EncodePNG("a")
	require.NoError(t, err)
	large, err := EncodePNG(strings.Repeat("subscription-", 20))
	require.NoError(t, err)

	smallImg, err := png.Decode(bytes.NewReader(small))
	require.NoError(t, err)
	largeImg, err := png.Decode(bytes.NewReader(large))
	require.NoError(t, err)

	// 版本 1 为 21 个模块，加上两侧边框
	assert.Equal(t, (21+2*Border)*ModuleSize, smallImg.Bounds().Dx())
	assert.Greater(t, largeImg.Bounds().Dx(), smallImg.Bounds().Dx())
}

func TestEncode_EmptyText(t *testing.T) {
	uri, err := Encode("")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, (21+2*Border)*ModuleSize, img.Bounds().Dx())
	require.Equal(t, img.Bounds().Dx(), img.Bounds().Dy())

	var grid [21][21]bool
	for y := 0; y < 21; y++ {
		for x := 0; x < 21; x++ {
			r, g, b, _ := img.At((x+Border)*ModuleSize, (y+Border)*ModuleSize).RGBA()
			grid[y][x] = r|g|b == 0
		}
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r&g&b)
	assert.True(t, grid[0][0])
	assert.True(t, grid[13][8], "固定深色模块")
	for i := 8; i <= 12; i++ {
		assert.Equal(t, i%2 == 0, grid[6][i], "横向时序 %d", i)
		assert.Equal(t, i%2 == 0, grid[i][6], "纵向时序 %d", i)
	}

	// 两份格式信息一致，纠错等级为 M
	var first, second uint32
	for i := 0; i <= 7; i++ {
		if grid[8][20-i] {
			first |= 1 << uint(i)
		}
	}
	for i := 8; i <= 14; i++ {
		if grid[14+i-8][8] {
			first |= 1 << uint(i)
		}
	}
	for i := 0; i <= 5; i++ {
		if grid[i][8] {
			second |= 1 << uint(i)
		}
	}
	if grid[7][8] {
		second |= 1 << 6
	}
	if grid[8][8] {
		second |= 1 << 7
	}
	if grid[8][7] {
		second |= 1 << 8
	}
	for i := 9; i <= 14; i++ {
		if grid[8][14-i] {
			second |= 1 << uint(i)
		}
	}
	require.Equal(t, first, second)

	format := first ^ 0x5412
	rem := format
	for i := 14; i >= 10; i-- {
		if rem&(1<<uint(i)) != 0 {
			rem ^= 0x537 << uint(i-10)
		}
	}
	assert.Zero(t, rem, "BCH 校验")
	assert.Equal(t, uint32(0b00), format>>13, "纠错等级 M")
	mask := int(format>>10) & 0b111

	// 去掉掩码后按蛇形顺序读出的码字等于 空字节模式 + 填充 + 纠错
	data := bitset.New()
	data.AppendBytes([]byte{0x40, 0x00, 0xEC, 0x11, 0xEC, 0x11, 0xEC, 0x11, 0xEC, 0x11, 0xEC, 0x11, 0xEC, 0x11, 0xEC, 0x11})
	want := reedsolomon.Encode(data, 10)

	layout := buildV1Symbol(want, 0)
	positions := dataPositions(&layout.reserved)
	require.Len(t, positions, want.Len())

	got := bitset.New()
	for _, p := range positions {
		got.AppendBools(grid[p[1]][p[0]] != maskBit(mask, p[0], p[1]))
	}
	assert.True(t, want.Equals(got))

	again, err := Encode("")
	require.NoError(t, err)
	assert.Equal(t, uri, again)
}
