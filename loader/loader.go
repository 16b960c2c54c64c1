// Package loader preloads a core.Machine's MainMemory, MicroROM, and IP
// from raw-binary or binary-string files, adapted to bcomp's 40-bit
// microwords, 2048-word 11-bit-addressed memory, and symbol table.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/dkjowett-bcomp/bcomp/core"
)

// LoadBinaryROMFile reads a 256x40-bit microcode ROM from a raw binary
// file: each entry is 5 bytes, big-endian, high byte first.
func LoadBinaryROMFile(fp string) ([256]uint64, error) {
	var rom [256]uint64
	buff, err := ioutil.ReadFile(fp)
	if err != nil {
		return rom, err
	}
	if len(buff)%5 != 0 {
		return rom, fmt.Errorf("binary microcode file %q is not a multiple of 5 bytes in length", fp)
	}
	if len(buff)/5 > 256 {
		return rom, fmt.Errorf("binary microcode file %q has more than 256 entries", fp)
	}
	for i := 0; i*5 < len(buff); i++ {
		var word uint64
		for b := 0; b < 5; b++ {
			word = word<<8 | uint64(buff[i*5+b])
		}
		rom[i] = word
	}
	log.Printf("loaded %d microcode words from %s", len(buff)/5, fp)
	return rom, nil
}

// LoadBinaryStringROMFile reads a microcode ROM as one 40-character
// binary string per line, %b-scanned.
func LoadBinaryStringROMFile(fp string) ([256]uint64, error) {
	var rom [256]uint64
	file, err := os.Open(fp)
	if err != nil {
		return rom, err
	}
	defer file.Close()

	s := bufio.NewScanner(file)
	i := 0
	for s.Scan() {
		if i >= 256 {
			return rom, fmt.Errorf("binary string microcode file %q has more than 256 entries", fp)
		}
		var word uint64
		if _, err := fmt.Sscanf(s.Text(), "%b", &word); err != nil {
			return rom, fmt.Errorf("parsing microcode line %d of %q: %w", i, fp, err)
		}
		rom[i] = word
		i++
	}
	if err := s.Err(); err != nil {
		return rom, err
	}
	log.Printf("loaded %d microcode words from %s", i, fp)
	return rom, nil
}

// LoadBinaryMemFile reads main memory from a raw binary file, two bytes
// per word, big-endian.
func LoadBinaryMemFile(fp string) ([]uint16, error) {
	ret := make([]uint16, 0, 2048)
	buff, err := ioutil.ReadFile(fp)
	if err != nil {
		return ret, err
	}
	if len(buff)%2 != 0 {
		return ret, errors.New(fmt.Sprintf("binary memory file %q is not a multiple of 2 bytes in length", fp))
	}
	for i := 0; i < len(buff); i += 2 {
		ret = append(ret, uint16(buff[i])<<8|uint16(buff[i+1]))
	}
	return ret, nil
}

// LoadBinaryStringMemFile reads main memory as one 16-character binary
// string per line, with `#name: value` comment lines building a symbol
// table.
func LoadBinaryStringMemFile(fp string) ([]uint16, []core.Symbol, error) {
	ret := make([]uint16, 0, 2048)
	syms := make([]core.Symbol, 0)
	file, err := os.Open(fp)
	if err != nil {
		return ret, syms, err
	}
	defer file.Close()

	s := bufio.NewScanner(file)
	for s.Scan() {
		line := s.Text()
		if line == "" {
			continue
		}
		if line[0] != '#' {
			var word uint16
			if _, err := fmt.Sscanf(line, "%b", &word); err != nil {
				return ret, syms, fmt.Errorf("parsing memory line in %q: %w", fp, err)
			}
			ret = append(ret, word)
			continue
		}
		ss := strings.Split(line[1:], ":")
		if len(ss) != 2 {
			continue
		}
		name := strings.TrimSpace(ss[0])
		var val uint16
		if _, err := fmt.Sscanf(strings.TrimSpace(ss[1]), "%d", &val); err != nil {
			return ret, syms, fmt.Errorf("parsing symbol %q in %q: %w", name, fp, err)
		}
		syms = append(syms, core.Symbol{Name: name, Val: val})
	}
	if err := s.Err(); err != nil {
		return ret, syms, err
	}
	return ret, syms, nil
}

// Preload writes mem into m.Memory starting at address 0 and sets IP to
// entry. It is an external collaborator, not a core responsibility.
func Preload(m *core.Machine, mem []uint16, entry uint16) {
	for i, v := range mem {
		m.Memory.Write(uint16(i), v)
	}
	m.SetIP(entry)
}
