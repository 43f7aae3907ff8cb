package pixarray

// Memory is a Device that keeps its frames in memory. It backs dry setups
// without LEDs attached.
type Memory struct {
	staged []uint32
	shown  []uint32
	began  bool
	shows  int
}

func NewMemory(numPixels int) *Memory {
	return &Memory{
		staged: make([]uint32, numPixels),
		shown:  make([]uint32, numPixels),
	}
}

func (m *Memory) Begin() error {
	m.began = true
	return nil
}

func (m *Memory) NumPixels() int {
	return len(m.staged)
}

func (m *Memory) SetPixelColor(i int, c uint32) {
	m.staged[i] = c
}

func (m *Memory) Show() error {
	copy(m.shown, m.staged)
	m.shows++
	return nil
}

func (m *Memory) Began() bool {
	return m.began
}

func (m *Memory) Shows() int {
	return m.shows
}

// Shown is the colour of pixel i as of the last Show.
func (m *Memory) Shown(i int) Pixel {
	return Unpack(m.shown[i])
}
