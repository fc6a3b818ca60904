// Package trace prints a per-cycle dump of the CPU's stage outputs.
package trace

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora/v4"

	"github.com/sarchlab/rvsim/emu"
)

// Printer writes one block of text per executed cycle. It implements
// emu.Tracer.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter creates a Printer writing to w. With color set, headers and
// values are colored with ANSI escapes.
func NewPrinter(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

func (p *Printer) header(s string) string {
	if !p.color {
		return s
	}
	return aurora.Colorize(s, aurora.CyanFg|aurora.BoldFm).String()
}

func (p *Printer) value(v any) string {
	s := fmt.Sprint(v)
	if !p.color {
		return s
	}
	return aurora.Colorize(s, aurora.YellowFg|aurora.BrightFg).String()
}

func (p *Printer) warn(s string) string {
	if !p.color {
		return s
	}
	return aurora.Colorize(s, aurora.RedFg|aurora.BrightFg).String()
}

func flag(b bool) string {
	if b {
		return "T"
	}
	return "F"
}

// TraceCycle prints the state of one cycle.
func (p *Printer) TraceCycle(s emu.CycleState) {
	w := p.w
	inst := s.Inst

	fmt.Fprintln(w, p.header(fmt.Sprintf("================== CYCLE %d ==================", s.Cycle)))
	fmt.Fprintf(w, "PC: 0x%x\n", s.PC)
	fmt.Fprintf(w, "Instruction: 0x%08x  [%s]\n", s.Word, inst)

	fmt.Fprintln(w, p.header("--- DECODE ---"))
	fmt.Fprintf(w, "rs1: x%d = %s   rs2: x%d = %s\n",
		inst.Rs1, p.value(s.Rs1Val), inst.Rs2, p.value(s.Rs2Val))
	fmt.Fprintf(w, "Immediate: %s\n", p.value(inst.Imm))

	fmt.Fprintln(w, p.header("--- EXECUTE ---"))
	fmt.Fprintf(w, "ALU Result: %s (Zero Flag: %s)\n", p.value(s.ALUResult), flag(s.Zero))

	if s.Control.MemRead {
		fmt.Fprintln(w, p.header("--- MEMORY ---"))
		if s.Mem.Loaded {
			fmt.Fprintf(w, "Reading from address %d, Value: %s\n", s.Mem.Addr, p.value(s.Mem.Data))
		} else {
			fmt.Fprintf(w, "Reading from address %d, %s\n", s.Mem.Addr, p.warn("dropped"))
		}
	}

	if s.Control.MemWrite {
		fmt.Fprintln(w, p.header("--- MEMORY ---"))
		if s.Mem.Stored {
			fmt.Fprintf(w, "Writing %s to address %d\n", p.value(s.Mem.StoreValue), s.Mem.Addr)
		} else {
			fmt.Fprintf(w, "Writing %d to address %d, %s\n", s.Rs2Val, s.Mem.Addr, p.warn("dropped"))
		}
	}

	if s.Writeback.Written {
		fmt.Fprintln(w, p.header("--- WRITE BACK ---"))
		fmt.Fprintf(w, "Writing %s to register x%d\n", p.value(s.Writeback.Value), s.Writeback.Rd)
	}

	fmt.Fprintln(w)
}

var _ emu.Tracer = (*Printer)(nil)
