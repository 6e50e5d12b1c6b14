package dng

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CameraModel is the capability set of one camera definition: a preset tag
// table and, for sensors that deliver packed buffers, the capture format to
// interpret them with. Models are data, not behavior; the conversion core
// never needs to know which camera it serves.
type CameraModel struct {
	Name   string
	Tags   *TagSet
	Format *CaptureFormat
}

// Converter builds a Converter over the model's preset tags.
func (m *CameraModel) Converter(opts ...func(*Options)) (*Converter, error) {
	return NewConverter(m.Tags, opts...)
}

// Unpack decodes a packed capture buffer using the model's capture format.
func (m *CameraModel) Unpack(raw []byte) (*Frame, error) {
	if m.Format == nil {
		return nil, fmt.Errorf("%w: model %q has no capture format", ErrUnsupportedFormat, m.Name)
	}
	return Unpack(raw, *m.Format)
}

// modelFile is the YAML shape of a camera definition file.
type modelFile struct {
	Name          string    `yaml:"name"`
	Width         int       `yaml:"width"`
	Height        int       `yaml:"height"`
	Stride        int       `yaml:"stride"`
	BitDepth      int       `yaml:"bit_depth"`
	Packed        bool      `yaml:"packed"`
	BlackLevel    int       `yaml:"black_level"`
	WhiteLevel    int       `yaml:"white_level"`
	Orientation   int       `yaml:"orientation"`
	CFAPattern    []int     `yaml:"cfa_pattern"`     // 2x2, row major: 0=R 1=G 2=B
	ColorMatrix   []float64 `yaml:"color_matrix"`    // 3x3 XYZ-to-camera, row major
	AsShotNeutral []float64 `yaml:"as_shot_neutral"` // camera neutral, 3 values
}

// ParseCameraModel builds a camera model from YAML definition data.
func ParseCameraModel(data []byte) (*CameraModel, error) {
	var mf modelFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("camera model: %w", err)
	}
	if mf.Name == "" {
		return nil, fmt.Errorf("camera model: name missing")
	}
	if mf.Width <= 0 || mf.Height <= 0 || mf.BitDepth <= 0 {
		return nil, fmt.Errorf("camera model %q: width, height and bit_depth are required", mf.Name)
	}
	if len(mf.CFAPattern) != 0 && len(mf.CFAPattern) != 4 {
		return nil, fmt.Errorf("camera model %q: cfa_pattern needs 4 entries", mf.Name)
	}
	if len(mf.ColorMatrix) != 0 && len(mf.ColorMatrix) != 9 {
		return nil, fmt.Errorf("camera model %q: color_matrix needs 9 entries", mf.Name)
	}
	if len(mf.AsShotNeutral) != 0 && len(mf.AsShotNeutral) != 3 {
		return nil, fmt.Errorf("camera model %q: as_shot_neutral needs 3 entries", mf.Name)
	}

	tags := NewTagSet()
	tags.Set(TagImageWidth, mf.Width)
	tags.Set(TagImageLength, mf.Height)
	tags.Set(TagBitsPerSample, mf.BitDepth)
	tags.Set(TagSamplesPerPixel, 1)
	tags.Set(TagPlanarConfiguration, 1)
	tags.Set(TagUniqueCameraModel, mf.Name)
	orientation := mf.Orientation
	if orientation == 0 {
		orientation = 1
	}
	tags.Set(TagOrientation, orientation)
	if len(mf.CFAPattern) == 4 {
		tags.Set(TagPhotometricInterpretation, PhotometricCFA)
		tags.Set(TagCFARepeatPatternDim, []int{2, 2})
		tags.Set(TagCFAPattern, mf.CFAPattern)
	} else {
		tags.Set(TagPhotometricInterpretation, PhotometricBlackIsZero)
	}
	if mf.BlackLevel > 0 {
		tags.Set(TagBlackLevel, mf.BlackLevel)
	}
	whiteLevel := mf.WhiteLevel
	if whiteLevel == 0 {
		whiteLevel = 1<<mf.BitDepth - 1
	}
	tags.Set(TagWhiteLevel, whiteLevel)
	if len(mf.ColorMatrix) == 9 {
		tags.Set(TagColorMatrix1, mf.ColorMatrix)
		tags.Set(TagCalibrationIlluminant1, 21) // D65
	}
	if len(mf.AsShotNeutral) == 3 {
		tags.Set(TagAsShotNeutral, mf.AsShotNeutral)
	}

	packing := PackingUnpacked
	if mf.Packed {
		packing = PackingCSI2
	}
	return &CameraModel{
		Name: mf.Name,
		Tags: tags,
		Format: &CaptureFormat{
			Width:      mf.Width,
			Height:     mf.Height,
			Stride:     mf.Stride,
			StoredBits: mf.BitDepth,
			Packing:    packing,
		},
	}, nil
}

// LoadCameraModel reads and parses a YAML camera definition file.
func LoadCameraModel(path string) (*CameraModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCameraModel(data)
}
