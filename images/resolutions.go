package images

import (
	"fmt"
	"math"
)

// CameraResolution is a common surveillance camera output frame. Detections
// made on a letterboxed model input are rescaled back into one of these.
type CameraResolution struct {
	Name  string `json:"name" yaml:"name"`
	Frame Frame  `json:"frame" yaml:"frame"`
	// Flags resolutions not yet in common commercial use.
	Experimental bool `json:"experimental" yaml:"experimental"`
}

// MegaPixels returns the pixel count in millions, rounded to two decimals
// (2.07 for 1080p).
func (r CameraResolution) MegaPixels() float64 {
	if !r.Frame.Valid() {
		return 0
	}
	mp := float64(r.Frame.Width*r.Frame.Height) / 1_000_000.0
	return math.Round(mp*100) / 100
}

func (r CameraResolution) String() string {
	return fmt.Sprintf("%s (%dx%d, %.2fMP)", r.Name, r.Frame.Width, r.Frame.Height, r.MegaPixels())
}

// CameraResolutions lists the known camera frames by ascending pixel count.
var CameraResolutions = []CameraResolution{
	{Name: "nHD", Frame: Frame{Width: 640, Height: 360}},
	{Name: "FWVGA", Frame: Frame{Width: 854, Height: 480}},
	{Name: "qHD 540p", Frame: Frame{Width: 960, Height: 540}},
	{Name: "HD 720p", Frame: Frame{Width: 1280, Height: 720}},
	{Name: "WXGA", Frame: Frame{Width: 1366, Height: 768}},
	{Name: "1MP (5:4)", Frame: Frame{Width: 1280, Height: 1024}},
	{Name: "HD+", Frame: Frame{Width: 1600, Height: 900}},
	{Name: "2MP (4:3)", Frame: Frame{Width: 1600, Height: 1200}},
	{Name: "Full HD 1080p", Frame: Frame{Width: 1920, Height: 1080}},
	{Name: "3MP (4:3)", Frame: Frame{Width: 2048, Height: 1536}},
	{Name: "QHD 1440p", Frame: Frame{Width: 2560, Height: 1440}},
	{Name: "4MP (16:9)", Frame: Frame{Width: 2688, Height: 1520}},
	{Name: "QHD+", Frame: Frame{Width: 3200, Height: 1800}},
	{Name: "6MP (3:2)", Frame: Frame{Width: 3072, Height: 2048}},
	{Name: "4K UHD", Frame: Frame{Width: 3840, Height: 2160}},
	{Name: "12MP (4:3)", Frame: Frame{Width: 4000, Height: 3000}},
	{Name: "5K", Frame: Frame{Width: 5120, Height: 2880}},
	{Name: "8K UHD", Frame: Frame{Width: 7680, Height: 4320}},
	{Name: "16K UHD", Frame: Frame{Width: 15360, Height: 8640}, Experimental: true},
}

// SupportedResolutions returns the non-experimental camera resolutions in
// ascending pixel count.
func SupportedResolutions() []CameraResolution {
	out := make([]CameraResolution, 0, len(CameraResolutions))
	for _, r := range CameraResolutions {
		if !r.Experimental {
			out = append(out, r)
		}
	}
	return out
}

// ResolutionByName looks up a camera resolution by its name.
func ResolutionByName(name string) (CameraResolution, bool) {
	for _, r := range CameraResolutions {
		if r.Name == name {
			return r, true
		}
	}
	return CameraResolution{}, false
}

// HighestResolutionWithin returns the largest camera resolution that fits
// inside width x height.
func HighestResolutionWithin(width, height int) (CameraResolution, bool) {
	var (
		best  CameraResolution
		found bool
	)
	for _, r := range CameraResolutions {
		if r.Frame.Width > width || r.Frame.Height > height {
			continue
		}
		if !found || r.Frame.Width*r.Frame.Height > best.Frame.Width*best.Frame.Height {
			best, found = r, true
		}
	}
	return best, found
}
