package pixarray

import (
	"fmt"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// MMapFile mirrors the strip into a memory-mapped file, one byte per
// channel in the given order, so that another process can watch it.
type MMapFile struct {
	f      *os.File
	m      mmap.MMap
	ba     *baseArray
	staged []byte
}

func OpenMMapFile(path string, numPixels int, order int) (*MMapFile, error) {
	if numPixels <= 0 {
		return nil, fmt.Errorf("need at least one pixel, got %d", numPixels)
	}
	if _, ok := offsets[order]; !ok {
		return nil, fmt.Errorf("unknown colour order %d", order)
	}
	size := numPixels * NumColors(order)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("couldn't open %s: %w", path, err)
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, fmt.Errorf("couldn't size %s to %d bytes: %w", path, size, err)
	}
	m, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("couldn't map %s: %w", path, err)
	}
	staged := make([]byte, size)
	return &MMapFile{
		f:      f,
		m:      m,
		ba:     newBaseArray(numPixels, staged, order, nil),
		staged: staged,
	}, nil
}

func (mf *MMapFile) Begin() error {
	return nil
}

func (mf *MMapFile) NumPixels() int {
	return mf.ba.numPixels
}

func (mf *MMapFile) SetPixelColor(i int, c uint32) {
	mf.ba.SetOne(i, Unpack(c))
}

func (mf *MMapFile) Show() error {
	copy(mf.m, mf.staged)
	if err := mf.m.Flush(); err != nil {
		return fmt.Errorf("couldn't flush mapping: %w", err)
	}
	return nil
}

func (mf *MMapFile) Close() error {
	if err := mf.m.Unmap(); err != nil {
		mf.f.Close()
		return fmt.Errorf("couldn't unmap: %w", err)
	}
	return mf.f.Close()
}
