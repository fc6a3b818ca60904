package emu

import "fmt"

// DefaultMemorySize is the size in bytes of both instruction and data
// memory in the reference configuration.
const DefaultMemorySize = 4096

// DataPort is the path the memory stage takes to data memory. *Memory
// implements it directly; a cache can sit in between.
type DataPort interface {
	// Load returns size bytes at addr assembled little-endian.
	Load(addr uint32, size int) uint32
	// Store writes the low size bytes of value at addr, little-endian.
	Store(addr uint32, size int, value uint32)
}

// Memory is a flat, byte-addressable, little-endian memory of fixed size.
// Accesses outside the memory read as zero and drop writes.
type Memory struct {
	data []byte
}

// NewMemory creates a zero-filled memory. size must be a power of two so
// that addresses can be masked into range.
func NewMemory(size int) *Memory {
	if size <= 0 || size&(size-1) != 0 {
		panic(fmt.Sprintf("emu: memory size %d is not a power of two", size))
	}
	return &Memory{data: make([]byte, size)}
}

// Size returns the memory size in bytes.
func (m *Memory) Size() int {
	return len(m.data)
}

// Mask returns the address mask of the memory's address space.
func (m *Memory) Mask() uint32 {
	return uint32(len(m.data) - 1)
}

// Fits reports whether width bytes starting at addr are inside the memory.
func (m *Memory) Fits(addr uint32, width int) bool {
	return uint64(addr)+uint64(width) <= uint64(len(m.data))
}

// LoadImage copies image into the start of memory. Bytes beyond the
// memory size are ignored. It returns the number of bytes copied.
func (m *Memory) LoadImage(image []byte) int {
	return copy(m.data, image)
}

// Read8 reads a byte.
func (m *Memory) Read8(addr uint32) uint8 {
	if !m.Fits(addr, 1) {
		return 0
	}
	return m.data[addr]
}

// Write8 writes a byte.
func (m *Memory) Write8(addr uint32, value uint8) {
	if !m.Fits(addr, 1) {
		return
	}
	m.data[addr] = value
}

// Read16 reads a little-endian halfword.
func (m *Memory) Read16(addr uint32) uint16 {
	return uint16(m.Load(addr, 2))
}

// Write16 writes a little-endian halfword.
func (m *Memory) Write16(addr uint32, value uint16) {
	m.Store(addr, 2, uint32(value))
}

// Read32 reads a little-endian word.
func (m *Memory) Read32(addr uint32) uint32 {
	return m.Load(addr, 4)
}

// Write32 writes a little-endian word.
func (m *Memory) Write32(addr uint32, value uint32) {
	m.Store(addr, 4, value)
}

// Load implements DataPort.
func (m *Memory) Load(addr uint32, size int) uint32 {
	var value uint32
	for i := 0; i < size; i++ {
		value |= uint32(m.Read8(addr+uint32(i))) << (8 * i)
	}
	return value
}

// Store implements DataPort.
func (m *Memory) Store(addr uint32, size int, value uint32) {
	for i := 0; i < size; i++ {
		m.Write8(addr+uint32(i), uint8(value>>(8*i)))
	}
}
