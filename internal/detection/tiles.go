package detection

import (
	"context"
	"image"

	"golang.org/x/sync/errgroup"
)

// Tiles partitions region into tiles for ScanTiles, row by row from the
// top-left. Tile sizes are rounded up to a multiple of the window strides so
// every tile origin lies on the scan grid; tiles on the right and bottom
// edges are smaller when the region is not a multiple of the tile size. A
// non-positive tile dimension covers the whole extent on that axis.
func (w *SlidingWindow) Tiles(region image.Rectangle, tileW, tileH int) []image.Rectangle {
	if region.Empty() {
		return nil
	}
	tileW = roundUp(tileW, w.stepX, region.Dx())
	tileH = roundUp(tileH, w.stepY, region.Dy())

	cols := (region.Dx() + tileW - 1) / tileW
	rows := (region.Dy() + tileH - 1) / tileH
	tiles := make([]image.Rectangle, 0, cols*rows)
	for y := region.Min.Y; y < region.Max.Y; y += tileH {
		for x := region.Min.X; x < region.Max.X; x += tileW {
			tiles = append(tiles, image.Rect(x, y, min(x+tileW, region.Max.X), min(y+tileH, region.Max.Y)))
		}
	}
	return tiles
}

func roundUp(size, step, extent int) int {
	if size <= 0 || size >= extent {
		return extent
	}
	if rem := size % step; rem != 0 {
		size += step - rem
	}
	return size
}

// ScanTiles scans region of mask as independent tiles on up to limit
// goroutines (no limit when limit <= 0) and merges the results.
//
// Tiles only partition window corners: windows are still clipped against
// region, so the union of all tiles finds the same windows as RunRegion when
// the tiles come from Tiles. The summed-area table is built once and shared
// read-only. Per-tile box sets are concatenated in tile order and then
// consolidated, so an object straddling a tile seam ends up in one box.
//
// Cancelling ctx stops tiles that have not started and returns ctx's error.
func (w *SlidingWindow) ScanTiles(ctx context.Context, mask image.Image, threshold float64, region image.Rectangle, tiles []image.Rectangle, limit int) (*BoxSet, error) {
	sat, err := NewSAT(mask)
	if err != nil {
		return nil, err
	}

	results := make([]*BoxSet, len(tiles))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, tile := range tiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = w.scan(sat, threshold, tile, region)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := NewBoxSetWithArea(sat, w.area)
	for _, r := range results {
		merged.appendBoxes(r)
	}
	merged.Consolidate()
	return merged, nil
}
