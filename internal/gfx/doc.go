// Package gfx renders monochrome images for displays that cannot hold a
// full frame buffer.
//
// A Frame renders its canvas in horizontal strips: each DrawPart call
// receives a buffer for a few rows, runs the draw callback against a
// Renderer scoped to those rows and returns. Drawing primitives take
// canvas coordinates and a Clip, and silently drop everything outside the
// active strip, so the same callback produces bit-identical output for
// any chunking of the canvas.
//
// Rows are packed MSB first: pixel x is bit 0x80>>(x&7) of byte x>>3. A
// set bit is white.
//
//	frame := gfx.NewFrame(400, 300, func(r *gfx.Renderer) {
//		r.Clear(gfx.White)
//		gfx.NewRectangle(10, 10, 100, 40, gfx.Black).Draw(r.FullFrame(), r)
//	})
//	buf := make([]byte, frame.Stride()*16)
//	for row := 0; row < frame.Height(); row += 16 {
//		n := min(16, frame.Height()-row)
//		frame.DrawPart(row, buf[:n*frame.Stride()])
//		// send buf[:n*frame.Stride()] to the panel
//	}
//
// Nothing in this package allocates per pixel or logs; precondition
// violations panic.
package gfx
