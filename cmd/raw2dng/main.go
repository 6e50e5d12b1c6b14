package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	dng "github.com/openraw/godng"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "raw2dng:", err)
		os.Exit(1)
	}
}

func run() error {
	in := pflag.String("in", "", "raw capture buffer file")
	model := pflag.String("model", "", "camera model YAML definition")
	outDir := pflag.String("out-dir", ".", "output directory")
	name := pflag.String("name", "", "output filename (defaults to the input name, .dng enforced)")
	compress := pflag.Bool("compress", false, "lossless JPEG compression")
	predictor := pflag.Int("predictor", 6, "compression predictor, 1 or 6")
	stripRows := pflag.Int("strip-rows", 0, "rows per strip for uncompressed output, 0 for one strip")
	info := pflag.Bool("info", false, "print a summary of the written container")
	pflag.Parse()

	if *in == "" || *model == "" {
		pflag.Usage()
		return fmt.Errorf("both --in and --model are required")
	}

	m, err := dng.LoadCameraModel(*model)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	frame, err := m.Unpack(raw)
	if err != nil {
		return err
	}

	conv, err := m.Converter(func(opt *dng.Options) {
		opt.OutputDir = *outDir
		opt.Compress = *compress
		opt.Predictor = *predictor
		opt.StripRows = *stripRows
	})
	if err != nil {
		return err
	}

	out := *name
	if out == "" {
		base := filepath.Base(*in)
		out = strings.TrimSuffix(base, filepath.Ext(base))
	}
	path, res, err := conv.ConvertFile(frame, out)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "raw2dng:", w.Error())
	}
	fmt.Println(path)

	if *info {
		i, err := dng.Inspect(res.Buf)
		if err != nil {
			return err
		}
		fmt.Printf("%dx%d %d-bit, compression %d, %d strip(s), %d strip bytes\n",
			i.Width, i.Height, i.BitsPerSample, i.Compression, i.Strips, i.StripBytes)
	}
	return nil
}
