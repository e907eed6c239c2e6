// Package asset parses release asset file names into platform tokens.
package asset

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/glorpus-work/relfetch/pkg/archive"
	"github.com/glorpus-work/relfetch/pkg/platform"
)

// Tokens are the platform fragments recognised in an asset name.
// Zero values mean the name does not declare that field.
type Tokens struct {
	OS   platform.OS
	Arch platform.Arch
	Libc platform.Libc
	Ext  archive.Kind
	Bits int

	// Leftover holds segments no table recognised, in name order.
	Leftover []string
	// Raw is the name as published.
	Raw string
	// Stem is Raw without its extension.
	Stem string
}

type segment struct {
	text       string
	start, end int
}

// osSource records how strongly the current OS token is backed.
type osSource int

const (
	osNone osSource = iota
	// osLeading is a lone OS word opening the name, usually part of the project name.
	osLeading
	osSingle
	osComposite
)

// scanner carries the per-name state Tokens itself does not expose.
type scanner struct {
	Tokens
	os osSource
}

// Tokenize splits name on every non-alphanumeric rune and looks the case-folded segments
// up in the alias tables. It never fails; unrecognised names simply yield empty tokens.
//
// Each field keeps the first value found, with two exceptions for the OS: a composite
// such as linux-android overrides a lone OS word, and an OS word opening the name
// yields to any later one.
func Tokenize(name string) Tokens {
	s := scanner{Tokens: Tokens{Raw: name, Stem: name}}
	segs := split(name)

	end := len(segs)
	for width := archive.MaxSuffixSegments; width >= 1; width-- {
		if width >= end || !dotted(name, segs[end-width:end]) {
			continue
		}
		if kind, ok := archive.LookupSuffix(texts(segs[end-width : end])...); ok {
			s.Ext = kind
			s.Stem = name[:segs[end-width].start-1]
			end -= width
			break
		}
	}

	for i := 0; i < end; {
		if n := s.matchComposite(segs[i:end]); n > 0 {
			i += n
			continue
		}
		if !s.matchSingle(segs[i].text, i == 0) {
			s.Leftover = append(s.Leftover, segs[i].text)
		}
		i++
	}

	return s.Tokens
}

// matchComposite tries the widest run of segments first and returns how many it consumed.
func (s *scanner) matchComposite(segs []segment) int {
	for width := platform.MaxCompositeWindow; width >= 1; width-- {
		if width > len(segs) {
			continue
		}
		if c, ok := platform.LookupComposite(texts(segs[:width])...); ok {
			s.setOS(c.OS, osComposite)
			s.setArch(c.Arch)
			s.setLibc(c.Libc)
			s.setBits(c.Bits)
			return width
		}
	}
	return 0
}

func (s *scanner) matchSingle(seg string, leading bool) bool {
	if os, ok := platform.LookupOS(seg); ok {
		src := osSingle
		if leading {
			src = osLeading
		}
		s.setOS(os, src)
		return true
	}
	if arch, ok := platform.LookupArch(seg); ok {
		s.setArch(arch)
		return true
	}
	if libc, ok := platform.LookupLibc(seg); ok {
		s.setLibc(libc)
		return true
	}
	if bits, ok := platform.LookupBits(seg); ok {
		s.setBits(bits)
		return true
	}
	return false
}

func (s *scanner) setOS(os platform.OS, src osSource) {
	if os == "" {
		return
	}
	switch {
	case s.os == osNone, s.os == osLeading:
	case src == osComposite && s.os != osComposite:
	default:
		return
	}
	s.OS = os
	s.os = src
}

func (t *Tokens) setArch(arch platform.Arch) {
	if t.Arch == "" {
		t.Arch = arch
	}
}

func (t *Tokens) setLibc(libc platform.Libc) {
	if t.Libc == platform.LibcUnknown {
		t.Libc = libc
	}
}

func (t *Tokens) setBits(bits int) {
	if t.Bits == 0 {
		t.Bits = bits
	}
}

// String renders the recognised fields for diagnostics.
func (t Tokens) String() string {
	field := func(k, v string) string {
		if v == "" {
			v = "-"
		}
		return k + "=" + v
	}
	bits := ""
	if t.Bits != 0 {
		bits = strconv.Itoa(t.Bits)
	}
	return strings.Join([]string{
		field("os", string(t.OS)),
		field("arch", string(t.Arch)),
		field("libc", string(t.Libc)),
		field("bits", bits),
		field("ext", string(t.Ext)),
	}, " ")
}

func split(name string) []segment {
	var segs []segment
	start := -1
	for i, r := range name {
		alnum := unicode.IsLetter(r) || unicode.IsDigit(r)
		switch {
		case alnum && start < 0:
			start = i
		case !alnum && start >= 0:
			segs = append(segs, segment{text: strings.ToLower(name[start:i]), start: start, end: i})
			start = -1
		}
	}
	if start >= 0 {
		segs = append(segs, segment{text: strings.ToLower(name[start:]), start: start, end: len(name)})
	}
	return segs
}

// dotted reports whether every segment is introduced by a single '.'.
func dotted(name string, segs []segment) bool {
	for _, s := range segs {
		if s.start == 0 || name[s.start-1] != '.' {
			return false
		}
	}
	return true
}

func texts(segs []segment) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.text
	}
	return out
}
