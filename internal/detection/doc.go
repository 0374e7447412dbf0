// Package detection finds regions of interest in binary object masks.
//
// A mask is an *image.Gray in which every pixel is either MaskOn (255) or
// MaskOff (0), typically produced by thresholding a photograph with a
// colour rule. Detection works in three layers:
//
//  1. SAT: a summed-area table built once per mask. It counts the on pixels
//     of any axis-aligned rectangle in constant time and expresses the count
//     as a fill ratio (percentage of a reference area).
//  2. SlidingWindow: sweeps a fixed-size window over the mask (or a region
//     of it) at a fixed stride and keeps every window whose fill ratio is
//     strictly greater than a threshold.
//  3. BoxSet: merges kept windows into bounding boxes. A window joins the
//     first box, in creation order, whose union it overlaps; otherwise it
//     starts a new box. Each box remembers its best-scoring window.
//
// # Coordinate System
//
// Rectangles are image.Rectangle values: Min is inclusive, Max is exclusive,
// coordinates are those of the mask (not relative to its origin). Two
// rectangles intersect only when they share a positive area; touching edges
// do not count.
//
// # Edge Clipping
//
// Windows that would reach the right or bottom edge of the scanned region
// are clipped so they end one pixel short of it, and are still scored
// against the full window area. A clipped window therefore scores lower than
// an identical unclipped one.
//
// # Merging Limitations
//
// BoxSet.Push is a single greedy pass: two boxes created apart may later
// grow into each other and stay separate. BoxSet.Consolidate runs a
// union-find pass that merges such boxes; ScanTiles always applies it to
// join detections across tile seams.
//
// # Thread Safety
//
// SAT and SlidingWindow are immutable and safe for concurrent use. BoxSet
// and BoundingBox are not synchronised.
package detection
