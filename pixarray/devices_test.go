package pixarray

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	opc "github.com/kellydunn/go-opc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/spi"
)

type fakeSPI struct {
	writes [][]byte
	err    error
}

func (f *fakeSPI) String() string {
	return "fakeSPI"
}

func (f *fakeSPI) Tx(w, r []byte) error {
	if f.err != nil {
		return f.err
	}
	b := make([]byte, len(w))
	copy(b, w)
	f.writes = append(f.writes, b)
	return nil
}

func (f *fakeSPI) Duplex() conn.Duplex {
	return conn.Half
}

func (f *fakeSPI) TxPackets(p []spi.Packet) error {
	for _, pk := range p {
		if err := f.Tx(pk.W, pk.R); err != nil {
			return err
		}
	}
	return nil
}

func TestLPD8806(t *testing.T) {
	f := &fakeSPI{}
	l, err := NewLPD8806(f, 40, GRB)
	require.NoError(t, err)
	assert.Equal(t, 40, l.NumPixels())

	require.NoError(t, l.Begin())
	require.Len(t, f.writes, 1)
	assert.Equal(t, []byte{0, 0}, f.writes[0])

	l.SetPixelColor(1, Pixel{R: 0xff, G: 0x10, B: 0x02}.Packed())
	require.NoError(t, l.Show())
	require.Len(t, f.writes, 2)
	frame := f.writes[1]
	require.Len(t, frame, 40*3+2)
	// untouched pixels still carry the high bit
	assert.Equal(t, []byte{0x80, 0x80, 0x80}, frame[0:3])
	// GRB, 7 bits per channel
	assert.Equal(t, []byte{0x88, 0xff, 0x81}, frame[3:6])
	assert.Equal(t, []byte{0, 0}, frame[120:])
}

func TestLPD8806Errors(t *testing.T) {
	_, err := NewLPD8806(&fakeSPI{}, 10, GRBW)
	assert.Error(t, err)
	_, err = NewLPD8806(&fakeSPI{}, 10, 99)
	assert.Error(t, err)

	boom := errors.New("boom")
	l, err := NewLPD8806(&fakeSPI{err: boom}, 10, RGB)
	require.NoError(t, err)
	assert.ErrorIs(t, l.Begin(), boom)
	assert.ErrorIs(t, l.Show(), boom)
}

func TestLPD8806ThroughStrip(t *testing.T) {
	f := &fakeSPI{}
	l, err := NewLPD8806(f, 2, RGB)
	require.NoError(t, err)
	s := NewStrip(l, DebugDryRun)
	require.NoError(t, s.Init())
	s.Set(0, Pixel{R: 2})
	require.NoError(t, s.Show())
	// reset and the initial blank only
	assert.Len(t, f.writes, 2)
}

type fakeSender struct {
	sent []*opc.Message
	err  error
}

func (f *fakeSender) Send(m *opc.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

func TestOPC(t *testing.T) {
	f := &fakeSender{}
	o := NewOPC(f, 1, 8)
	assert.Equal(t, 8, o.NumPixels())
	require.NoError(t, o.Begin())
	o.SetPixelColor(7, Pixel{R: 1, G: 2, B: 3, W: 4}.Packed())
	assert.Equal(t, uint32(0x04010203), o.colors[7])
	require.NoError(t, o.Show())
	require.Len(t, f.sent, 1)
	assert.NotNil(t, f.sent[0])

	boom := errors.New("boom")
	f.err = boom
	assert.ErrorIs(t, o.Show(), boom)
}

func TestMMapFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strip")
	mf, err := OpenMMapFile(path, 3, GRBW)
	require.NoError(t, err)
	assert.Equal(t, 3, mf.NumPixels())

	s := NewStrip(mf, DebugNone)
	require.NoError(t, s.Init())
	s.Set(2, Pixel{R: 1, G: 2, B: 3, W: 4})

	// nothing reaches the file before Show
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 12), b)

	require.NoError(t, s.Show())
	b, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0, 2, 1, 3, 4}, b)

	require.NoError(t, mf.Close())
}

func TestMMapFileErrors(t *testing.T) {
	_, err := OpenMMapFile(filepath.Join(t.TempDir(), "x"), 0, RGB)
	assert.Error(t, err)
	_, err = OpenMMapFile(filepath.Join(t.TempDir(), "x"), 1, 42)
	assert.Error(t, err)
	_, err = OpenMMapFile(filepath.Join(t.TempDir(), "missing", "x"), 1, RGB)
	assert.Error(t, err)
}
