package obj

import (
	"testing"

	"github.com/milk9111/dungeon/common"
	"github.com/stretchr/testify/assert"
)

func TestCameraStationaryWhenLevelFits(t *testing.T) {
	c := NewCamera(common.BaseWidth, common.BaseHeight)
	c.SetWorldBounds(common.BaseWidth, common.BaseHeight)

	c.Update(300, 200)
	assert.Equal(t, Offset{}, c.Offset())

	c.SetWorldBounds(100, 100)
	c.SnapTo(90, 90)
	assert.Equal(t, Offset{}, c.Offset(), "small levels anchor at the origin")
}

func TestCameraFollowsAndClamps(t *testing.T) {
	c := NewCamera(common.BaseWidth, common.BaseHeight)
	c.SetWorldBounds(1000, 500)

	cases := []struct {
		name         string
		targetX      float64
		targetY      float64
		wantX, wantY float64
	}{
		{name: "centered", targetX: 500, targetY: 250, wantX: 340, wantY: 130},
		{name: "clamped top-left", targetX: 10, targetY: 10, wantX: 0, wantY: 0},
		{name: "clamped bottom-right", targetX: 990, targetY: 490, wantX: 680, wantY: 260},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c.SnapTo(tc.targetX, tc.targetY)
			off := c.Offset()
			assert.Equal(t, tc.wantX, off.X)
			assert.Equal(t, tc.wantY, off.Y)
		})
	}
}

func TestCameraSmoothing(t *testing.T) {
	c := NewCamera(100, 100)
	c.SetWorldBounds(1000, 1000)
	c.SetSmooth(0.5)
	c.SnapTo(50, 50)

	c.Update(250, 50)
	assert.Equal(t, 150.0, c.PosX)
}

func TestCameraVisible(t *testing.T) {
	c := NewCamera(common.BaseWidth, common.BaseHeight)
	c.SetWorldBounds(common.BaseWidth, common.BaseHeight)

	cases := []struct {
		name string
		x, y int
		want bool
	}{
		{name: "origin", x: 0, y: 0, want: true},
		{name: "partly off left", x: -common.TileSize, y: 0, want: true},
		{name: "fully off left", x: -common.TileSize - 1, y: 0, want: false},
		{name: "right edge", x: common.BaseWidth, y: 0, want: true},
		{name: "past right edge", x: common.BaseWidth + 1, y: 0, want: false},
		{name: "below", x: 0, y: common.BaseHeight + 1, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Visible(tc.x, tc.y))
		})
	}
}
