/* Copyright (C) 2018 David Jowett
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program; if not, write to the Free Software Foundation,
 * Inc., 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301  USA
 */
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dkjowett-bcomp/bcomp/core"
	"github.com/dkjowett-bcomp/bcomp/debug"
	"github.com/dkjowett-bcomp/bcomp/loader"
	"github.com/dkjowett-bcomp/bcomp/replctl"
	"github.com/dkjowett-bcomp/bcomp/trace"
)

func main() {
	uromf := flag.String("urom", "", "MicroROM override in a raw binary file")
	uromsf := flag.String("uroms", "", "MicroROM override in a binary string file")
	memf := flag.String("mem", "", "Main memory in a raw binary file")
	memsf := flag.String("mems", "", "Main memory in a binary string file")
	headless := flag.Bool("headless", false, "run the line-mode debugger instead of the gocui TUI")
	traceFlag := flag.Bool("trace", false, "print the per-instruction trace to stdout")
	structured := flag.Bool("trace-structured", false, "pretty-print trace lines with pp instead of the plain columns")
	flag.Parse()

	m := core.NewMachine()

	if *uromf != "" {
		log.Println("reading raw binary MicroROM override:", *uromf)
		rom, err := loader.LoadBinaryROMFile(*uromf)
		if err != nil {
			log.Fatal(err)
		}
		m.LoadMicroROM(rom)
	} else if *uromsf != "" {
		log.Println("reading binary string MicroROM override:", *uromsf)
		rom, err := loader.LoadBinaryStringROMFile(*uromsf)
		if err != nil {
			log.Fatal(err)
		}
		m.LoadMicroROM(rom)
	}

	var mem []uint16
	var syms []core.Symbol
	var err error

	if *memf != "" {
		log.Println("reading raw binary memory file:", *memf)
		mem, err = loader.LoadBinaryMemFile(*memf)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("loaded %d memory words", len(mem))
	} else if *memsf != "" {
		log.Println("reading binary string memory file:", *memsf)
		mem, syms, err = loader.LoadBinaryStringMemFile(*memsf)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("loaded %d memory words, %d symbols", len(mem), len(syms))
	} else {
		fmt.Println("no memory file given; main memory starts zeroed")
	}
	loader.Preload(m, mem, m.IP)

	if *traceFlag {
		var t *trace.Tracer
		if *structured {
			t = trace.NewStructured(os.Stdout)
		} else {
			t = trace.New(os.Stdout)
		}
		t.Attach(m)
	}

	if *headless {
		r, err := replctl.New(m, syms, "")
		if err != nil {
			log.Fatal(err)
		}
		if err := r.Run(); err != nil {
			log.Fatal(err)
		}
		return
	}

	g, err := debug.New(m, syms)
	if err != nil {
		log.Panicln(err)
	}
	if err := g.Run(); err != nil {
		log.Panicln(err)
	}
}
