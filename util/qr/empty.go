package qr

import (
	"github.com/skip2/go-qrcode/bitset"
	"github.com/skip2/go-qrcode/reedsolomon"
)

// go-qrcode 不接受空内容，空文本在这里直接生成 1-M 符号：
// 字节模式、字符数 0，其余用填充码字补齐
const (
	v1Size          = 21
	v1DataCodewords = 16
	v1ECCodewords   = 10

	finderSize = 7
	ecLevelM   = 0b00

	formatGenerator = 0x537
	formatMask      = 0x5412
)

type v1Symbol struct {
	modules  [v1Size][v1Size]bool
	reserved [v1Size][v1Size]bool
}

func (s *v1Symbol) set(x, y int, dark bool) {
	s.modules[y][x] = dark
	s.reserved[y][x] = true
}

func (s *v1Symbol) bitmap() [][]bool {
	out := make([][]bool, v1Size)
	for y := range s.modules {
		out[y] = append([]bool(nil), s.modules[y][:]...)
	}
	return out
}

// emptyCodewords 返回 16 个数据码字加 10 个纠错码字
func emptyCodewords() *bitset.Bitset {
	data := bitset.New()
	data.AppendUint32(0b0100, 4) // 字节模式
	data.AppendUint32(0, 8)      // 字符数
	data.AppendUint32(0, 4)      // 终止符
	for pad := 0; data.Len() < v1DataCodewords*8; pad++ {
		if pad%2 == 0 {
			data.AppendByte(0xEC, 8)
		} else {
			data.AppendByte(0x11, 8)
		}
	}
	return reedsolomon.Encode(data, v1ECCodewords)
}

// emptyBitmap 依次尝试 8 种掩码，取惩罚分最低的
func emptyBitmap() [][]bool {
	codewords := emptyCodewords()

	var best *v1Symbol
	bestPenalty := -1
	for mask := 0; mask < 8; mask++ {
		s := buildV1Symbol(codewords, mask)
		if p := penalty(&s.modules); bestPenalty < 0 || p < bestPenalty {
			best, bestPenalty = s, p
		}
	}
	return best.bitmap()
}

func buildV1Symbol(codewords *bitset.Bitset, mask int) *v1Symbol {
	s := &v1Symbol{}
	s.addFinder(0, 0)
	s.addFinder(v1Size-finderSize, 0)
	s.addFinder(0, v1Size-finderSize)

	for i := finderSize + 1; i < v1Size-finderSize-1; i++ {
		s.set(i, finderSize-1, i%2 == 0)
		s.set(finderSize-1, i, i%2 == 0)
	}
	s.addFormatInfo(mask)

	positions := dataPositions(&s.reserved)
	for i, p := range positions {
		dark := i < codewords.Len() && codewords.At(i)
		if maskBit(mask, p[0], p[1]) {
			dark = !dark
		}
		s.modules[p[1]][p[0]] = dark
	}
	return s
}

// addFinder 画定位图案，连同外圈一格白色分隔符
func (s *v1Symbol) addFinder(ox, oy int) {
	for dy := -1; dy <= finderSize; dy++ {
		for dx := -1; dx <= finderSize; dx++ {
			x, y := ox+dx, oy+dy
			if x < 0 || y < 0 || x >= v1Size || y >= v1Size {
				continue
			}
			inside := dx >= 0 && dx < finderSize && dy >= 0 && dy < finderSize
			ring := dx == 0 || dx == finderSize-1 || dy == 0 || dy == finderSize-1
			core := dx >= 2 && dx <= 4 && dy >= 2 && dy <= 4
			s.set(x, y, inside && (ring || core))
		}
	}
}

// formatBits 15 位格式信息，BCH(15,5) 后再异或固定掩码
func formatBits(mask int) uint32 {
	data := uint32(ecLevelM<<3 | mask)
	rem := data << 10
	for i := 14; i >= 10; i-- {
		if rem&(1<<uint(i)) != 0 {
			rem ^= formatGenerator << uint(i-10)
		}
	}
	return (data<<10 | rem) ^ formatMask
}

func (s *v1Symbol) addFormatInfo(mask int) {
	f := formatBits(mask)
	bit := func(i int) bool { return f&(1<<uint(i)) != 0 }

	for i := 0; i <= 7; i++ {
		s.set(v1Size-1-i, finderSize+1, bit(i))
	}
	for i := 0; i <= 5; i++ {
		s.set(finderSize+1, i, bit(i))
	}
	s.set(finderSize+1, finderSize, bit(6))
	s.set(finderSize+1, finderSize+1, bit(7))
	s.set(finderSize, finderSize+1, bit(8))
	for i := 9; i <= 14; i++ {
		s.set(14-i, finderSize+1, bit(i))
	}
	for i := 8; i <= 14; i++ {
		s.set(finderSize+1, v1Size-finderSize+i-8, bit(i))
	}
	// 固定的深色模块
	s.set(finderSize+1, v1Size-finderSize-1, true)
}

// dataPositions 按两列一组、上下蛇形的顺序列出数据模块坐标 (x, y)
func dataPositions(reserved *[v1Size][v1Size]bool) [][2]int {
	out := make([][2]int, 0, (v1DataCodewords+v1ECCodewords)*8)
	for right := v1Size - 1; right >= 1; right -= 2 {
		if right == finderSize-1 {
			right--
		}
		upward := (right+1)&2 == 0
		for vert := 0; vert < v1Size; vert++ {
			y := vert
			if upward {
				y = v1Size - 1 - vert
			}
			for j := 0; j < 2; j++ {
				x := right - j
				if !reserved[y][x] {
					out = append(out, [2]int{x, y})
				}
			}
		}
	}
	return out
}

func maskBit(mask, x, y int) bool {
	switch mask {
	case 0:
		return (y+x)%2 == 0
	case 1:
		return y%2 == 0
	case 2:
		return x%3 == 0
	case 3:
		return (y+x)%3 == 0
	case 4:
		return (y/2+x/3)%2 == 0
	case 5:
		return (y*x)%2+(y*x)%3 == 0
	case 6:
		return ((y*x)%2+(y*x)%3)%2 == 0
	default:
		return ((y+x)%2+(y*x)%3)%2 == 0
	}
}

func penalty(m *[v1Size][v1Size]bool) int {
	at := func(x, y int, horizontal bool) bool {
		if horizontal {
			return m[y][x]
		}
		return m[x][y]
	}

	score := 0
	for _, horizontal := range []bool{true, false} {
		for line := 0; line < v1Size; line++ {
			// 连续同色
			run := 1
			for i := 1; i < v1Size; i++ {
				if at(i, line, horizontal) == at(i-1, line, horizontal) {
					run++
					continue
				}
				if run >= 5 {
					score += run - 2
				}
				run = 1
			}
			if run >= 5 {
				score += run - 2
			}

			// 类定位图案 1011101 前后接 4 个白色
			for i := 0; i+11 <= v1Size; i++ {
				if finderLike(func(k int) bool { return at(i+k, line, horizontal) }) {
					score += 40
				}
			}
		}
	}

	dark := 0
	for y := 0; y < v1Size; y++ {
		for x := 0; x < v1Size; x++ {
			if m[y][x] {
				dark++
			}
			if x+1 < v1Size && y+1 < v1Size {
				c := m[y][x]
				if m[y][x+1] == c && m[y+1][x] == c && m[y+1][x+1] == c {
					score += 3
				}
			}
		}
	}

	percent := dark * 100 / (v1Size * v1Size)
	deviation := percent - 50
	if deviation < 0 {
		deviation = -deviation
	}
	return score + deviation/5*10
}

func finderLike(at func(int) bool) bool {
	a := [11]bool{true, false, true, true, true, false, true, false, false, false, false}
	match, matchReversed := true, true
	for k := 0; k < 11; k++ {
		if at(k) != a[k] {
			match = false
		}
		if at(k) != a[10-k] {
			matchReversed = false
		}
	}
	return match || matchReversed
}
