package emu

// funct3 encodings of the loads and stores the memory stage performs.
const (
	funct3LB  uint8 = 0b000
	funct3SH  uint8 = 0b001
	funct3LW  uint8 = 0b010 // also SW
	funct3LBU uint8 = 0b100
)

// MemoryResult holds the result of the memory stage.
type MemoryResult struct {
	// Addr is the masked data-memory address.
	Addr uint32
	// Data is the loaded value, valid only when Loaded is true.
	Data int32
	// Loaded is true if a load completed.
	Loaded bool
	// Stored is true if a store was performed.
	Stored bool
	// StoreValue is the register value the store wrote from.
	StoreValue int32
}

// MemoryStage implements RV32I loads and stores against data memory.
// Accesses that would run past the end of memory are dropped silently.
type MemoryStage struct {
	port DataPort
	size uint32
}

// NewMemoryStage creates a memory stage for a data memory of size bytes
// reached through port.
func NewMemoryStage(port DataPort, size int) *MemoryStage {
	return &MemoryStage{
		port: port,
		size: uint32(size),
	}
}

// Access performs the load or store selected by ctrl and funct3. It is a
// no-op when neither MemRead nor MemWrite is set.
func (s *MemoryStage) Access(ctrl Control, funct3 uint8, aluResult, storeValue int32) MemoryResult {
	result := MemoryResult{}

	if !ctrl.MemRead && !ctrl.MemWrite {
		return result
	}

	addr := uint32(aluResult) & (s.size - 1)
	result.Addr = addr

	if ctrl.MemWrite {
		s.store(&result, funct3, addr, storeValue)
	} else if ctrl.MemRead {
		s.load(&result, funct3, addr)
	}

	return result
}

func (s *MemoryStage) store(result *MemoryResult, funct3 uint8, addr uint32, value int32) {
	var width int
	switch funct3 {
	case funct3SH:
		width = 2
	case funct3LW:
		width = 4
	default:
		return
	}

	if !s.fits(addr, width) {
		return
	}

	s.port.Store(addr, width, uint32(value))
	result.Stored = true
	result.StoreValue = value
}

func (s *MemoryStage) load(result *MemoryResult, funct3 uint8, addr uint32) {
	switch funct3 {
	case funct3LB:
		if !s.fits(addr, 1) {
			return
		}
		// Sign extend from 8 to 32 bits
		result.Data = int32(int8(s.port.Load(addr, 1)))
	case funct3LBU:
		if !s.fits(addr, 1) {
			return
		}
		result.Data = int32(s.port.Load(addr, 1))
	case funct3LW:
		if !s.fits(addr, 4) {
			return
		}
		result.Data = int32(s.port.Load(addr, 4))
	default:
		return
	}

	result.Loaded = true
}

func (s *MemoryStage) fits(addr uint32, width int) bool {
	return uint64(addr)+uint64(width) <= uint64(s.size)
}
