// Command gridconvert converts a grid JSON file between sample formats
// offline, without the service.
//
// The file format matches the API upload body: name, format, axes, and
// samples in storage order (first axis fastest).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/pixelgrid/internal/grid"
)

var (
	inPath  = flag.String("in", "", "Input grid JSON file")
	outPath = flag.String("out", "", "Output grid JSON file (default: stdout)")
	format  = flag.String("format", "", "Destination sample format")
)

type gridFile struct {
	Name              string      `json:"name"`
	Format            string      `json:"format"`
	Axes              []grid.Axis `json:"axes"`
	CompositeChannels int         `json:"composite_channels,omitempty"`
	RGBMerged         bool        `json:"rgb_merged,omitempty"`
	Samples           []float64   `json:"samples"`
}

func load(path string) (*grid.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var gf gridFile
	if err := json.Unmarshal(data, &gf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	f, err := grid.ParseFormat(gf.Format)
	if err != nil {
		return nil, err
	}
	g, err := grid.New(gf.Name, f, gf.Axes)
	if err != nil {
		return nil, err
	}
	if gf.CompositeChannels > 0 {
		g.CompositeChannels = gf.CompositeChannels
	}
	g.RGBMerged = gf.RGBMerged
	if err := g.SetSamples(gf.Samples); err != nil {
		return nil, err
	}
	return g, nil
}

func save(g *grid.Grid, path string) error {
	gf := gridFile{
		Name:              g.Name,
		Format:            string(g.Format),
		Axes:              g.Axes,
		CompositeChannels: g.CompositeChannels,
		RGBMerged:         g.RGBMerged,
		Samples:           g.Samples(),
	}
	data, err := json.MarshalIndent(gf, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func main() {
	flag.Parse()

	if *inPath == "" || *format == "" {
		fmt.Fprintf(os.Stderr, "usage: gridconvert -in grid.json -format uint8 [-out converted.json]\n")
		fmt.Fprintf(os.Stderr, "formats: %v\n", grid.Formats())
		os.Exit(2)
	}

	f, err := grid.ParseFormat(*format)
	if err != nil {
		log.Fatalf("bad format: %v", err)
	}

	src, err := load(*inPath)
	if err != nil {
		log.Fatalf("load grid: %v", err)
	}

	dst, err := grid.ChangeType(src, f)
	if err != nil {
		log.Fatalf("convert: %v", err)
	}

	if err := save(dst, *outPath); err != nil {
		log.Fatalf("save grid: %v", err)
	}

	s := grid.Summarize(dst)
	log.Printf("converted %q %s -> %s: rank %d -> %d, n=%d min=%.4g max=%.4g mean=%.4g",
		src.Name, src.Format, dst.Format, src.Rank(), dst.Rank(), s.Count, s.Min, s.Max, s.Mean)
}
