package arch

import (
	"iter"
	"slices"
)

// Segment is a contiguous run of output bytes.
type Segment struct {
	Addr int64 // Byte address of the first byte.
	Data []byte
}

// End returns the byte address after the segment.
func (seg *Segment) End() int64 {
	return seg.Addr + int64(len(seg.Data))
}

// Program is an assembled memory image.
type Program struct {
	Segments []Segment // Segments in emission order.
}

// Write appends data at a byte address, extending the last segment
// when the write is contiguous with it.
func (prog *Program) Write(addr int64, data []byte) {
	if len(data) == 0 {
		return
	}

	if n := len(prog.Segments); n > 0 {
		last := &prog.Segments[n-1]
		if last.End() == addr {
			last.Data = append(last.Data, data...)
			return
		}
	}

	prog.Segments = append(prog.Segments, Segment{Addr: addr, Data: slices.Clone(data)})
}

// Empty returns true if nothing was written.
func (prog *Program) Empty() bool {
	return len(prog.Segments) == 0
}

// sorted returns the segments in address order. Segments at the same
// address keep their emission order.
func (prog *Program) sorted() []Segment {
	segs := slices.Clone(prog.Segments)
	slices.SortStableFunc(segs, func(a, b Segment) int {
		switch {
		case a.Addr < b.Addr:
			return -1
		case a.Addr > b.Addr:
			return 1
		}
		return 0
	})
	return segs
}

// Origin returns the lowest written byte address.
func (prog *Program) Origin() (addr int64) {
	for n, seg := range prog.Segments {
		if n == 0 || seg.Addr < addr {
			addr = seg.Addr
		}
	}
	return
}

// Bytes iterates the written bytes in address order.
func (prog *Program) Bytes() iter.Seq2[int64, byte] {
	return func(yield func(addr int64, data byte) bool) {
		for _, seg := range prog.sorted() {
			for n, data := range seg.Data {
				if !yield(seg.Addr+int64(n), data) {
					return
				}
			}
		}
	}
}

// Binary flattens the image, starting at its origin. Gaps between
// segments are filled with fill. Later writes to an address win.
func (prog *Program) Binary(fill byte) (bin []byte) {
	if prog.Empty() {
		return
	}

	origin := prog.Origin()
	var end int64
	for _, seg := range prog.Segments {
		end = max(end, seg.End())
	}

	bin = make([]byte, end-origin)
	if fill != 0 {
		for n := range bin {
			bin[n] = fill
		}
	}
	for _, seg := range prog.Segments {
		copy(bin[seg.Addr-origin:], seg.Data)
	}

	return
}
