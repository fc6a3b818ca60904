// Package loader reads RV32I programs into an instruction memory image.
// Programs come as hex-byte text, raw little-endian binaries or 32-bit
// RISC-V ELF executables.
package loader

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrProgramTooLarge is returned when an ELF segment does not fit in
// instruction memory.
var ErrProgramTooLarge = errors.New("program does not fit in instruction memory")

// Format names a program file format.
type Format string

// Supported formats.
const (
	FormatAuto   Format = "auto"
	FormatHex    Format = "hex"
	FormatBinary Format = "bin"
	FormatELF    Format = "elf"
)

// ParseFormat converts a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatAuto, FormatHex, FormatBinary, FormatELF:
		return f, nil
	case "":
		return FormatAuto, nil
	default:
		return "", fmt.Errorf("unknown program format %q (want hex, bin, elf or auto)", s)
	}
}

// Program is an instruction memory image ready to hand to the CPU.
type Program struct {
	// Image is copied to instruction memory starting at address 0.
	Image []byte
	// Length is the number of program bytes. It bounds the run: the
	// driver halts once the PC passes InstructionCount()*4.
	Length int
	// Entry is the initial PC.
	Entry uint32
	// Segments lists the ELF segments the image was built from.
	Segments []Segment
}

// InstructionCount returns Length/4, dropping a trailing partial word.
func (p *Program) InstructionCount() int {
	return p.Length / 4
}

// LoadHex reads whitespace-separated hexadecimal byte tokens, such as
// "13 05 50 00", up to limit bytes. Tokens past the limit are ignored. A
// token may carry a 0x prefix.
func LoadHex(r io.Reader, limit int) (*Program, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	image := make([]byte, 0, limit)
	for len(image) < limit && scanner.Scan() {
		tok := scanner.Text()
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(tok), "0x"), 16, 32)
		if err != nil {
			return nil, fmt.Errorf("byte %d: invalid hex token %q", len(image), tok)
		}
		if v > 0xFF {
			return nil, fmt.Errorf("byte %d: value 0x%x does not fit in a byte", len(image), v)
		}
		image = append(image, byte(v))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read hex program: %w", err)
	}

	return &Program{Image: image, Length: len(image)}, nil
}

// LoadBinary reads a raw little-endian image, keeping at most limit bytes.
func LoadBinary(r io.Reader, limit int) (*Program, error) {
	image, err := io.ReadAll(io.LimitReader(r, int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("failed to read binary program: %w", err)
	}

	return &Program{Image: image, Length: len(image)}, nil
}

// Load reads the program at path in the given format. FormatAuto picks ELF
// by magic number, hex by extension or content, and binary otherwise.
func Load(path string, format Format, limit int) (*Program, error) {
	if format == FormatAuto {
		detected, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	if format == FormatELF {
		return LoadELF(path, limit)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch format {
	case FormatHex:
		return LoadHex(f, limit)
	case FormatBinary:
		return LoadBinary(f, limit)
	default:
		return nil, fmt.Errorf("unknown program format %q", format)
	}
}

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

// DetectFormat guesses the format of the file at path.
func DetectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open program: %w", err)
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read program: %w", err)
	}
	head = head[:n]

	if bytes.HasPrefix(head, elfMagic) {
		return FormatELF, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".hex", ".txt":
		return FormatHex, nil
	case ".bin":
		return FormatBinary, nil
	}

	if n > 0 && isHexText(head) {
		return FormatHex, nil
	}

	return FormatBinary, nil
}

func isHexText(data []byte) bool {
	for _, b := range data {
		switch {
		case b >= '0' && b <= '9', b >= 'a' && b <= 'f', b >= 'A' && b <= 'F':
		case b == ' ', b == '\t', b == '\n', b == '\r', b == 'x', b == 'X':
		default:
			return false
		}
	}
	return true
}
