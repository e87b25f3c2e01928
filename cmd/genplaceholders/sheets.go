package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

var (
	heroColor = color.NRGBA{0x3c, 0x9d, 0x5a, 0xff}
	hurtColor = color.NRGBA{0xd0, 0x3a, 0x3a, 0xff}
)

func writePNG(path string, img image.Image) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// playerSheet rows: idle right/left (3), walk right/left (4), hurt
// right/left (6).
func playerSheet() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 6*cell, 6*cell))
	counts := []int{3, 3, 4, 4, 6, 6}
	for row, n := range counts {
		right := row%2 == 0
		body := heroColor
		if row >= 4 {
			body = hurtColor
		}
		for col := 0; col < n; col++ {
			figure(img, col, row, col%2, right, body)
		}
	}
	return img
}

// weaponSheet holds 48px swing frames on rows 0 (left) and 2 (right).
func weaponSheet() *image.NRGBA {
	const size = 3 * cell
	img := image.NewNRGBA(image.Rect(0, 0, 5*size, 3*size))
	blade := color.NRGBA{0xe0, 0xe0, 0xf0, 0xff}
	for _, row := range []int{0, 2} {
		for col := 0; col < 5; col++ {
			ox, oy := col*size, row*size
			reach := 4 + col*3
			if row == 0 {
				fillRect(img, image.Rect(ox+cell-reach, oy+cell+6, ox+cell, oy+cell+9), blade)
			} else {
				fillRect(img, image.Rect(ox+2*cell, oy+cell+6, ox+2*cell+reach, oy+cell+9), blade)
			}
		}
	}
	return img
}

// enemySheet rows: idle right/left (2), walk right/left (3).
func enemySheet(body color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 3*cell, 4*cell))
	counts := []int{2, 2, 3, 3}
	for row, n := range counts {
		for col := 0; col < n; col++ {
			figure(img, col, row, col%2, row%2 == 0, body)
		}
	}
	return img
}

func hudSheet() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2*cell, cell))
	heart := func(ox int, c color.NRGBA) {
		fillRect(img, image.Rect(ox+3, 4, ox+7, 8), c)
		fillRect(img, image.Rect(ox+9, 4, ox+13, 8), c)
		fillRect(img, image.Rect(ox+3, 7, ox+13, 10), c)
		fillRect(img, image.Rect(ox+5, 10, ox+11, 12), c)
		fillRect(img, image.Rect(ox+7, 12, ox+9, 13), c)
	}
	heart(0, color.NRGBA{0xe0, 0x30, 0x40, 0xff})
	heart(cell, color.NRGBA{0x40, 0x40, 0x48, 0xff})
	return img
}

// tilesetSheet is 8 columns by 4 rows: floor, wall and crate on row 0,
// four torch frames on row 1 and two water frames on row 2.
func tilesetSheet() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8*cell, 4*cell))
	tile := func(id int, base color.NRGBA, detail func(ox, oy int)) {
		ox, oy := (id%8)*cell, (id/8)*cell
		fillRect(img, image.Rect(ox, oy, ox+cell, oy+cell), base)
		if detail != nil {
			detail(ox, oy)
		}
	}

	tile(0, color.NRGBA{0x3a, 0x32, 0x2c, 0xff}, nil)
	tile(1, color.NRGBA{0x6b, 0x6b, 0x78, 0xff}, func(ox, oy int) {
		mortar := color.NRGBA{0x48, 0x48, 0x52, 0xff}
		fillRect(img, image.Rect(ox, oy+7, ox+cell, oy+8), mortar)
		fillRect(img, image.Rect(ox+7, oy, ox+8, oy+7), mortar)
	})
	tile(2, color.NRGBA{0x8b, 0x5a, 0x2b, 0xff}, func(ox, oy int) {
		fillRect(img, image.Rect(ox+1, oy+1, ox+cell-1, oy+2), color.NRGBA{0x5c, 0x3a, 0x1a, 0xff})
	})
	for i := 0; i < 4; i++ {
		h := 3 + i%2*2
		tile(8+i, color.NRGBA{0x3a, 0x32, 0x2c, 0xff}, func(ox, oy int) {
			fillRect(img, image.Rect(ox+7, oy+8, ox+9, oy+14), color.NRGBA{0x6b, 0x4a, 0x2a, 0xff})
			fillRect(img, image.Rect(ox+6, oy+8-h, ox+10, oy+8), color.NRGBA{0xff, 0xa0 + uint8(i*16), 0x20, 0xff})
		})
	}
	for i := 0; i < 2; i++ {
		tile(16+i, color.NRGBA{0x20, 0x48, 0x90, 0xff}, func(ox, oy int) {
			fillRect(img, image.Rect(ox+2+i*6, oy+5, ox+8+i*6, oy+6), color.NRGBA{0x60, 0x90, 0xd0, 0xff})
		})
	}
	return img
}
