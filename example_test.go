package dng_test

import (
	"fmt"

	dng "github.com/openraw/godng"
)

func ExampleUnpack() {
	raw := []byte{0, 0, 0, 1, 0b00111001} // four 10-bit samples, one packed group

	frame, err := dng.Unpack(raw, dng.CaptureFormat{
		Width:      4,
		Height:     1,
		StoredBits: 10,
		Packing:    dng.PackingCSI2,
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(frame.Pix)
	// Output:
	// [1 2 3 4]
}

func ExampleConverter_Convert() {
	tags := dng.NewTagSet()
	tags.Set(dng.TagImageWidth, 128)
	tags.Set(dng.TagImageLength, 1)
	tags.Set(dng.TagBitsPerSample, 12)

	conv, err := dng.NewConverter(tags)
	if err != nil {
		fmt.Println(err)
		return
	}
	res, err := conv.Convert(dng.NewFrame(128, 1, make([]uint16, 128)))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(len(res.Buf) > 0)
	// Output:
	// true
}

func ExampleConverter_Convert_compressed() {
	tags := dng.NewTagSet()
	tags.Set(dng.TagImageWidth, 16)
	tags.Set(dng.TagImageLength, 8)
	tags.Set(dng.TagBitsPerSample, 12)

	conv, err := dng.NewConverter(tags, func(o *dng.Options) {
		o.Compress = true
		o.Predictor = 6
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	_, err = conv.Convert(dng.NewFrame(16, 8, make([]uint16, 16*8)))
	fmt.Println(err)
	// Output:
	// <nil>
}

func ExampleParseCameraModel() {
	model, err := dng.ParseCameraModel([]byte(`
name: ExampleCam
width: 8
height: 4
bit_depth: 12
packed: true
`))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(model.Name, model.Format.StoredBits)
	// Output:
	// ExampleCam 12
}
