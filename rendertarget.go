package canopy

import (
	"image"
	"math/bits"

	"github.com/hajimehoshi/ebiten/v2"
)

// maxPooledPerSize bounds how many idle layers of one size are kept. Masked
// objects draw one at a time, so a frame needs two per size in practice.
const maxPooledPerSize = 4

// layerPool recycles the offscreen images a Canvas hands out for mask layers
// and text. Sizes are rounded up to powers of two so nearby sizes share a
// bucket.
type layerPool struct {
	idle map[image.Point][]*ebiten.Image
}

// Acquire returns a cleared image of at least w by h pixels.
func (p *layerPool) Acquire(w, h int) *ebiten.Image {
	size := image.Pt(nextPowerOfTwo(w), nextPowerOfTwo(h))
	if stack := p.idle[size]; len(stack) > 0 {
		img := stack[len(stack)-1]
		stack[len(stack)-1] = nil
		p.idle[size] = stack[:len(stack)-1]
		img.Clear()
		return img
	}
	return ebiten.NewImageWithOptions(image.Rectangle{Max: size}, &ebiten.NewImageOptions{Unmanaged: true})
}

// Release hands img back. Images beyond the per-size limit are deallocated.
func (p *layerPool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	size := img.Bounds().Size()
	if p.idle == nil {
		p.idle = make(map[image.Point][]*ebiten.Image)
	}
	if len(p.idle[size]) >= maxPooledPerSize {
		img.Deallocate()
		return
	}
	p.idle[size] = append(p.idle[size], img)
}

// Len returns the number of idle images across all sizes.
func (p *layerPool) Len() int {
	n := 0
	for _, stack := range p.idle {
		n += len(stack)
	}
	return n
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
