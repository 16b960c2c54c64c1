package core

// MainMemory is the 2048x16-bit main memory. It is cleared to zero at
// reset and may be externally preloaded before a run (see the loader
// package).
type MainMemory [2048]uint16

func addr11(a uint16) uint16 { return a & 0x7FF }

// Read returns MainMemory[addr & 0x7FF]. Addresses wider than 11 bits
// simply have their high bits masked off rather than erroring.
func (m *MainMemory) Read(addr uint16) uint16 {
	return m[addr11(addr)]
}

// Write stores v at MainMemory[addr & 0x7FF].
func (m *MainMemory) Write(addr, v uint16) {
	m[addr11(addr)] = v
}

func (m *MainMemory) reset() {
	for i := range m {
		m[i] = 0
	}
}
