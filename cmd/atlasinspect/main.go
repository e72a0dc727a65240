// Command atlasinspect exercises an atlas.Atlas against an in-memory
// fake backend and prints a colorized occupancy grid and cache counters,
// as a way to inspect slot-assignment and eviction behavior without a
// real GPU backend.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/muesli/termenv"

	"github.com/rhcher/contour/atlas"
)

var (
	tileSize    = flag.Int("tile_size", 16, "Pixel size of one tile edge")
	tileCount   = flag.Int("tile_count", 12, "Number of LRU-managed tile slots to request")
	directCount = flag.Int("direct_count", 4, "Number of direct-mapped slots to reserve")
	inserts     = flag.Int("inserts", 20, "Number of distinct synthetic hashes to insert, to force eviction")
)

// recordingBackend just counts configure/upload calls; atlasinspect has
// no real texture to draw into.
type recordingBackend struct {
	size       atlas.Size
	props      atlas.Properties
	uploads    int
	configures int
}

func (b *recordingBackend) AtlasSize() atlas.Size { return b.size }

func (b *recordingBackend) ConfigureAtlas(size atlas.Size, props atlas.Properties) error {
	b.size = size
	b.props = props
	b.configures++
	return nil
}

func (b *recordingBackend) UploadTile(cmd atlas.UploadCommand) error {
	b.uploads++
	return nil
}

func (b *recordingBackend) RenderTile(cmd atlas.RenderCommand) error { return nil }

func main() {
	flag.Parse()

	out := termenv.NewOutput(os.Stdout)

	be := &recordingBackend{}
	a, err := atlas.New[string](be, atlas.Config{
		Format:             atlas.FormatRGBA8,
		TileSize:           *tileSize,
		TileCount:          *tileCount,
		DirectMappingCount: *directCount,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	for i := 0; i < *directCount; i++ {
		label := fmt.Sprintf("direct-%d", i)
		if err := a.SetDirectMapping(i, atlas.FactoryResult[string]{
			Size:     atlas.Size{Width: *tileSize, Height: *tileSize},
			Metadata: label,
		}); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	cyan := out.Color("6")
	green := out.Color("2")

	owners := make(map[atlas.Location]string)
	for i := 0; i < *directCount; i++ {
		owners[a.TileLocation(i)] = out.String(fmt.Sprintf("D%d", i)).Foreground(cyan).String()
	}

	for i := 0; i < *inserts; i++ {
		hash := atlas.Sum([]byte(fmt.Sprintf("synthetic-tile-%d", i)))
		label := fmt.Sprintf("L%d", i)
		entry, err := a.GetOrEmplace(hash, func(loc atlas.Location, slot int) atlas.FactoryResult[string] {
			return atlas.FactoryResult[string]{
				Size:     atlas.Size{Width: *tileSize, Height: *tileSize},
				Metadata: label,
			}
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		owners[entry.Location] = out.String(label).Foreground(green).String()
	}

	printGrid(out, be, owners, *tileSize)

	stats := a.Stats()
	fmt.Println()
	fmt.Println(out.String("stats").Bold())
	fmt.Printf("  hits=%d misses=%d evictions=%d uploads=%d (backend uploads=%d, configures=%d)\n",
		stats.Hits, stats.Misses, stats.Evictions, stats.Uploads, be.uploads, be.configures)
}

func printGrid(out *termenv.Output, be *recordingBackend, owners map[atlas.Location]string, tileSize int) {
	if tileSize <= 0 {
		return
	}
	edge := be.size.Width / tileSize
	fmt.Println(out.String(fmt.Sprintf("atlas grid %dx%d tiles (%dx%d px)", edge, edge, be.size.Width, be.size.Height)).Bold())
	for y := 0; y < edge; y++ {
		for x := 0; x < edge; x++ {
			loc := atlas.Location{X: x * tileSize, Y: y * tileSize}
			if label, ok := owners[loc]; ok {
				fmt.Printf("[%3s]", label)
			} else {
				fmt.Print(out.String("[ .. ]").Faint())
			}
		}
		fmt.Println()
	}
}
