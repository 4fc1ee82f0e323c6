package internal

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"sync"
)

// Dimensions holds the pixel size of a surface or its container
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IsZero returns true if either side has no extent
func (d Dimensions) IsZero() bool {
	return d.Width <= 0 || d.Height <= 0
}

// Surface is a raster the renderer can paint onto
type Surface interface {
	Size() Dimensions
	Clear()
	FillRect(x, y, w, h float64, c color.NRGBA)
}

// Surfaces looks up drawing surfaces and the geometry of their containers by
// identifier. Both lookups fail with ErrSurfaceNotFound if nothing is mounted
// under the identifier.
type Surfaces interface {
	Geometry(id string) (Dimensions, error)
	Surface(id string, dim Dimensions) (Surface, error)
}

// Raster is an in-memory Surface backed by an RGBA image
type Raster struct {
	mu  sync.RWMutex
	img *image.RGBA
}

// NewRaster creates a transparent raster of the given size
func NewRaster(dim Dimensions) *Raster {
	return &Raster{img: image.NewRGBA(image.Rect(0, 0, dim.Width, dim.Height))}
}

// Size returns the pixel size of the raster
func (r *Raster) Size() Dimensions {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b := r.img.Bounds()
	return Dimensions{Width: b.Dx(), Height: b.Dy()}
}

// Clear resets every pixel to transparent
func (r *Raster) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	draw.Draw(r.img, r.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// FillRect composites a filled rectangle over the existing pixels, so
// translucent fills accumulate. The rectangle is snapped to whole pixels and
// clipped to the raster.
func (r *Raster) FillRect(x, y, w, h float64, c color.NRGBA) {
	rect := image.Rect(
		int(math.Floor(x)),
		int(math.Floor(y)),
		int(math.Floor(x+w)),
		int(math.Floor(y+h)),
	)

	r.mu.Lock()
	defer r.mu.Unlock()
	rect = rect.Intersect(r.img.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(r.img, rect, image.NewUniform(c), image.Point{}, draw.Over)
}

// At returns the colour of a single pixel
func (r *Raster) At(x, y int) color.RGBA {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.img.RGBAAt(x, y)
}

// WritePNG encodes the current raster contents as a PNG image
func (r *Raster) WritePNG(w io.Writer) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return png.Encode(w, r.img)
}

// Canvas is the registry of mounted surfaces. It also tracks the window
// dimensions, which every mounted surface is laid out to fill.
type Canvas struct {
	mu      sync.Mutex
	window  Dimensions
	mounted map[string]*Raster
}

// NewCanvas creates an empty registry laid out in a window of the given size
func NewCanvas(window Dimensions) *Canvas {
	return &Canvas{
		window:  window,
		mounted: make(map[string]*Raster),
	}
}

// Mount makes a surface available under id, mounting an already mounted id is
// a no-op
func (c *Canvas) Mount(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.mounted[id]; !ok {
		c.mounted[id] = NewRaster(c.window)
	}
}

// Unmount discards the surface mounted under id
func (c *Canvas) Unmount(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.mounted, id)
}

// Resize changes the window dimensions, mounted surfaces keep their current
// size until they are next acquired
func (c *Canvas) Resize(window Dimensions) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.window = window
}

// Geometry returns the layout dimensions of the container holding id
func (c *Canvas) Geometry(id string) (Dimensions, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.mounted[id]; !ok {
		return Dimensions{}, fmt.Errorf("%w: %q", ErrSurfaceNotFound, id)
	}
	return c.window, nil
}

// Surface returns the surface mounted under id, reallocated to dim if its
// size differs
func (c *Canvas) Surface(id string, dim Dimensions) (Surface, error) {
	r, err := c.raster(id, dim)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Raster returns the raster mounted under id without resizing it
func (c *Canvas) Raster(id string) (*Raster, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.mounted[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSurfaceNotFound, id)
	}
	return r, nil
}

func (c *Canvas) raster(id string, dim Dimensions) (*Raster, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.mounted[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSurfaceNotFound, id)
	}
	if r.Size() != dim {
		r = NewRaster(dim)
		c.mounted[id] = r
	}
	return r, nil
}
