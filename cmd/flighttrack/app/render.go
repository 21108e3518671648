package app

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/GiovanniGrieco/joy/internal/flightlog"
)

const (
	marginTop    = 72
	marginBottom = 24
	marginSide   = 48
	laneHeight   = 110
	laneGap      = 18
	channelMax   = 100 // movement channels are percentages in [-100,100]
)

var (
	backgroundColor = color.RGBA{R: 16, G: 18, B: 24, A: 255}
	laneColor       = color.RGBA{R: 34, G: 38, B: 48, A: 255}
	midlineColor    = color.RGBA{R: 70, G: 76, B: 92, A: 255}
	discreteColor   = color.RGBA{R: 235, G: 200, B: 80, A: 255}
	failureColor    = color.RGBA{R: 220, G: 60, B: 60, A: 255}
)

type channelDef struct {
	label string
	color color.RGBA
	value func(flightlog.Record) int
}

var channels = []channelDef{
	{"roll", color.RGBA{R: 80, G: 170, B: 255, A: 255}, func(r flightlog.Record) int { return r.LeftRight }},
	{"pitch", color.RGBA{R: 90, G: 220, B: 120, A: 255}, func(r flightlog.Record) int { return r.FwdBack }},
	{"throttle", color.RGBA{R: 255, G: 140, B: 90, A: 255}, func(r flightlog.Record) int { return r.UpDown }},
	{"yaw", color.RGBA{R: 200, G: 120, B: 255, A: 255}, func(r flightlog.Record) int { return r.Yaw }},
}

// render draws the four movement channels over time, one lane per channel.
// Discrete commands appear as vertical markers across all lanes, failed
// sends as ticks along the bottom of each lane.
func render(records []flightlog.Record, width int) *image.RGBA {
	height := marginTop + len(channels)*laneHeight + (len(channels)-1)*laneGap + marginBottom
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	plotWidth := width - 2*marginSide
	t0 := records[0].Timestamp
	span := records[len(records)-1].Timestamp.Sub(t0)

	xFor := func(r flightlog.Record) int {
		if span <= 0 {
			return marginSide
		}
		return marginSide + int(float64(plotWidth)*float64(r.Timestamp.Sub(t0))/float64(span))
	}

	for lane := range channels {
		top := laneTop(lane)
		draw.Draw(img, image.Rect(marginSide, top, width-marginSide, top+laneHeight),
			image.NewUniform(laneColor), image.Point{}, draw.Src)

		mid := top + laneHeight/2
		for x := marginSide; x < width-marginSide; x++ {
			img.Set(x, mid, midlineColor)
		}
	}

	for _, r := range records {
		x := xFor(r)
		switch r.Kind {
		case "move", "hover":
			for lane, ch := range channels {
				top := laneTop(lane)
				y := top + laneHeight/2 - ch.value(r)*(laneHeight/2-2)/channelMax
				drawDot(img, x, y, ch.color)
			}
		default:
			for y := marginTop; y < height-marginBottom; y++ {
				img.Set(x, y, discreteColor)
			}
		}

		if r.SendError != nil {
			for lane := range channels {
				bottom := laneTop(lane) + laneHeight
				for y := bottom - 6; y < bottom; y++ {
					img.Set(x, y, failureColor)
				}
			}
		}
	}

	return img
}

func laneTop(lane int) int {
	return marginTop + lane*(laneHeight+laneGap)
}

// drawDot thickens a sample to a 3x1 vertical blot so sparse sessions stay
// readable.
func drawDot(img *image.RGBA, x, y int, c color.RGBA) {
	for dy := -1; dy <= 1; dy++ {
		img.Set(x, y+dy, c)
	}
}
