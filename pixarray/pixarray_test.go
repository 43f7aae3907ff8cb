package pixarray

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingDev struct {
	*Memory
	beginErr error
	showErr  error
}

func (f *failingDev) Begin() error {
	if f.beginErr != nil {
		return f.beginErr
	}
	return f.Memory.Begin()
}

func (f *failingDev) Show() error {
	if f.showErr != nil {
		return f.showErr
	}
	return f.Memory.Show()
}

func TestSetOneThenGetOneByOne(t *testing.T) {
	s := NewStrip(NewMemory(100), DebugNone)
	ps := Pixel{10, 25, 45, 0}
	s.Set(20, ps)
	for i := 0; i < 100; i++ {
		pg := s.Get(i)
		if i == 20 {
			assert.Equal(t, ps, pg, "set pixel")
		} else {
			assert.Equal(t, Black, pg, "unset pixel %d", i)
		}
	}
}

func TestSetOneThenGetAll(t *testing.T) {
	s := NewStrip(NewMemory(100), DebugNone)
	ps := Pixel{10, 25, 45, 1}
	s.Set(20, ps)
	py := s.Pixels()
	require.Len(t, py, 100)
	assert.Equal(t, ps, py[20])
	assert.False(t, s.Dark())

	// Pixels is a copy
	py[20] = Black
	assert.Equal(t, ps, s.Get(20))
}

func TestInitBlanksEvenInDryRun(t *testing.T) {
	for _, mode := range []DebugMode{DebugNone, DebugPrint, DebugDryRun} {
		t.Run(mode.String(), func(t *testing.T) {
			m := NewMemory(4)
			m.SetPixelColor(2, 0xffffffff)
			m.Show()
			s := NewStrip(m, mode)
			require.NoError(t, s.Init())
			assert.True(t, m.Began())
			assert.Equal(t, 2, m.Shows())
			assert.Equal(t, Black, m.Shown(2))
			assert.True(t, s.Dark())
		})
	}
}

func TestShowRespectsDryRun(t *testing.T) {
	tests := []struct {
		mode      DebugMode
		wantShows int
	}{
		{DebugNone, 3},
		{DebugPrint, 3},
		{DebugDryRun, 0},
	}
	for _, test := range tests {
		t.Run(test.mode.String(), func(t *testing.T) {
			m := NewMemory(10)
			s := NewStrip(m, test.mode)
			s.Set(1, Pixel{R: 1})
			for i := 0; i < 3; i++ {
				require.NoError(t, s.Show())
			}
			require.NoError(t, s.Clear())
			assert.Equal(t, test.wantShows+boolToInt(test.mode != DebugDryRun), m.Shows())
			assert.Equal(t, uint64(m.Shows()), s.Shows())
			assert.True(t, s.Dark())
		})
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func TestSetPacksForDevice(t *testing.T) {
	m := NewMemory(3)
	s := NewStrip(m, DebugNone)
	s.Set(0, Pixel{R: 0x11, G: 0x22, B: 0x33, W: 0x44})
	assert.Equal(t, uint32(0x44112233), m.staged[0])
	require.NoError(t, s.Show())
	assert.Equal(t, Pixel{R: 0x11, G: 0x22, B: 0x33, W: 0x44}, m.Shown(0))
}

func TestDeviceErrors(t *testing.T) {
	boom := errors.New("boom")

	s := NewStrip(&failingDev{Memory: NewMemory(2), beginErr: boom}, DebugNone)
	err := s.Init()
	assert.ErrorIs(t, err, boom)

	s = NewStrip(&failingDev{Memory: NewMemory(2), showErr: boom}, DebugNone)
	assert.ErrorIs(t, s.Show(), boom)
	assert.ErrorIs(t, s.Clear(), boom)

	s = NewStrip(&failingDev{Memory: NewMemory(2), showErr: boom}, DebugDryRun)
	assert.NoError(t, s.Show())
}

func TestParseDebugMode(t *testing.T) {
	tests := []struct {
		in      string
		want    DebugMode
		wantErr bool
	}{
		{"none", DebugNone, false},
		{"PRINT", DebugPrint, false},
		{"DryRun", DebugDryRun, false},
		{"loud", DebugNone, true},
	}
	for _, test := range tests {
		m, err := ParseDebugMode(test.in)
		if test.wantErr {
			assert.Error(t, err, test.in)
			continue
		}
		require.NoError(t, err, test.in)
		assert.Equal(t, test.want, m, test.in)
	}
	assert.Equal(t, "DebugMode(7)", DebugMode(7).String())
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("grbw")
	require.NoError(t, err)
	assert.Equal(t, GRBW, o)
	assert.Equal(t, 4, NumColors(o))
	assert.Equal(t, 3, NumColors(RGB))
	_, err = ParseOrder("XYZ")
	assert.Error(t, err)
}

func BenchmarkStripSetAllShow(b *testing.B) {
	s := NewStrip(NewMemory(300), DebugNone)
	for i := 0; i < b.N; i++ {
		s.SetAll(Pixel{R: uint8(i)})
		s.Show()
	}
}
