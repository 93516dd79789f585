package descriptor

import "github.com/AnyUserName/glitchart-cli/internal/colorspace"

// ImageDescriptor is the statistical fingerprint of a source image.
// Every ratio field is expressed 0–100.
type ImageDescriptor struct {
	Width             int               `json:"width"`
	Height            int               `json:"height"`
	SampledPixels     int               `json:"sampled_pixels"` // opaque pixels seen by the colour sampler
	OpaquePixels      int               `json:"opaque_pixels"`
	DominantColors    []DominantColor   `json:"dominant_colors"` // descending count, ties in encounter order
	Brightness        int               `json:"brightness"`      // 0–255
	Contrast          int               `json:"contrast"`
	ColorDistribution ColorDistribution `json:"color_distribution"`
	Texture           Texture           `json:"texture"`
	Pattern           Pattern           `json:"pattern"`

	// HSV is the per-sampled-pixel HSV byproduct of colour extraction.
	HSV []colorspace.HSV `json:"-"`
}

// DominantColor is one quantized colour bucket.
type DominantColor struct {
	RGB        [3]uint8 `json:"rgb"`
	Hex        string   `json:"hex"`
	Count      uint32   `json:"count"`
	Percentage float64  `json:"percentage"`
}

// ColorDistribution summarizes channel means and hue/saturation spread.
type ColorDistribution struct {
	AverageR     int `json:"average_r"`
	AverageG     int `json:"average_g"`
	AverageB     int `json:"average_b"`
	Saturation   int `json:"saturation"`
	HueVariation int `json:"hue_variation"` // degrees, circular stddev
}

// Texture metrics, computed over grayscale.
type Texture struct {
	EdgeDensity    int `json:"edge_density"`
	Roughness      int `json:"roughness"` // luma stddev, 0–128
	Directionality int `json:"directionality"`
	Uniformity     int `json:"uniformity"`
}

// Pattern metrics, computed over grayscale.
type Pattern struct {
	Repetitiveness int `json:"repetitiveness"`
	Symmetry       int `json:"symmetry"`
	Complexity     int `json:"complexity"`
	Orientation    int `json:"orientation"` // degrees [0, 180)
}
