// Package main - gauge.go
//
// This file implements gauge fill measurement using OpenCV HSV color
// segmentation.
//
// Algorithm:
//   1. Convert the captured RGBA region to HSV
//   2. Mask the pixels inside the resource's hue/saturation/value bounds
//      (health needs two hue bands because red wraps around the hue circle)
//   3. Clean the mask with a 3x3 morphological opening then closing
//   4. Fill percent = masked pixels / total pixels * 100
//
// Fail-safe: a nil image, zero-sized image, or any conversion error yields
// 100 (full). A perception failure must never read as an empty gauge, or a
// single bad frame would dump potions. Fail-safe events are logged at debug
// level since they are expected occasionally.
package main

import (
	"image"

	"gocv.io/x/gocv"
)

// hsvRange is one inclusive HSV bound set on the OpenCV 0-180 hue scale
type hsvRange struct {
	loH, hiH float64
	loS, hiS float64
	loV, hiV float64
}

// gaugeRanges maps each resource to its mask bands.
// Saturation and value are bounded [50,255] everywhere; only hue varies.
var gaugeRanges = map[ResourceKind][]hsvRange{
	ResourceHealth: {
		{loH: 0, hiH: 10, loS: 50, hiS: 255, loV: 50, hiV: 255},
		{loH: 160, hiH: 180, loS: 50, hiS: 255, loV: 50, hiV: 255},
	},
	ResourceMana: {
		{loH: 100, hiH: 140, loS: 50, hiS: 255, loV: 50, hiV: 255},
	},
	ResourceStamina: {
		{loH: 40, hiH: 80, loS: 50, hiS: 255, loV: 50, hiV: 255},
	},
}

// GaugeSampler measures resource bar fill from captured region images
type GaugeSampler struct{}

// NewGaugeSampler creates a gauge sampler
func NewGaugeSampler() *GaugeSampler {
	return &GaugeSampler{}
}

// Measure returns the fill percentage of the gauge image in [0,100].
// On any perception failure it returns 100.
func (gs *GaugeSampler) Measure(img *image.RGBA, kind ResourceKind) float64 {
	if img == nil {
		LogDebug("Gauge %s: nil image, fail-safe 100%%", kind)
		return 100
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		LogDebug("Gauge %s: empty image, fail-safe 100%%", kind)
		return 100
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		LogDebug("Gauge %s: mat conversion failed (%v), fail-safe 100%%", kind, err)
		return 100
	}
	defer mat.Close()
	if mat.Empty() {
		LogDebug("Gauge %s: empty mat, fail-safe 100%%", kind)
		return 100
	}

	// ImageToMatRGB yields a BGR-ordered Mat, so the HSV conversion must
	// read it as BGR or red and blue trade hue bands
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(mat, &hsv, gocv.ColorBGRToHSV)

	mask := gocv.NewMat()
	defer mask.Close()

	for i, band := range gaugeRanges[kind] {
		lower := gocv.NewScalar(band.loH, band.loS, band.loV, 0)
		upper := gocv.NewScalar(band.hiH, band.hiS, band.hiV, 0)

		if i == 0 {
			gocv.InRangeWithScalar(hsv, lower, upper, &mask)
			continue
		}

		// Additional band (red hue wraparound): OR into the mask
		bandMask := gocv.NewMat()
		gocv.InRangeWithScalar(hsv, lower, upper, &bandMask)
		gocv.BitwiseOr(mask, bandMask, &mask)
		bandMask.Close()
	}

	// Opening removes speckle noise, closing fills small gaps
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()
	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, kernel)
	gocv.MorphologyEx(mask, &mask, gocv.MorphClose, kernel)

	total := mask.Rows() * mask.Cols()
	if total == 0 {
		LogDebug("Gauge %s: zero-area mask, fail-safe 100%%", kind)
		return 100
	}

	percent := float64(gocv.CountNonZero(mask)) / float64(total) * 100
	return ClampFloat(percent, 0, 100)
}
