// Package imaging turns photographs into binary masks for object detection
// and renders the detections back onto images.
//
// It wraps third-party image libraries: disintegration/imaging for decoding,
// saving, cropping and copying, anthonynsimon/bild for luminance thresholds,
// image differences and morphology, and lucasb-eyer/go-colorful for HSV
// conversion. Decoded images are kept in a bounded LRU ImageCache.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y downward. Regions are image.Rectangle values:
// Min is inclusive, Max exclusive.
//
// # Masks
//
// A mask is an *image.Gray whose pixels are either detection.MaskOff or
// detection.MaskOn. Threshold builds one from a caller supplied Predicate,
// LuminanceMask from brightness, and BackgroundModel.ForegroundMask from the
// difference against one or more shots of the empty scene. Threshold keeps
// the bounds of its input; masks built by bild operations start at (0,0).
//
// # Color Representation
//
// HSV values use hue in degrees (0-360) and saturation and value in percent
// (0-100). Hex colours are "#RRGGBB" with alpha excluded.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The other functions are stateless
// and may run concurrently on different images; they never modify their
// inputs.
package imaging
