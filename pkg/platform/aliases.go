package platform

import "strings"

// MaxCompositeWindow is the widest run of name segments that forms a single alias.
const MaxCompositeWindow = 3

// Composite is a multi-field signal carried by one alias, such as a target triple fragment.
type Composite struct {
	OS   OS
	Arch Arch
	Libc Libc
	Bits int
}

var osAliases = map[string]OS{
	"linux":        OSLinux,
	"darwin":       OSDarwin,
	"macos":        OSDarwin,
	"macosx":       OSDarwin,
	"osx":          OSDarwin,
	"windows":      OSWindows,
	"win":          OSWindows,
	"freebsd":      OSFreeBSD,
	"openbsd":      OSOpenBSD,
	"netbsd":       OSNetBSD,
	"dragonfly":    OSDragonfly,
	"dragonflybsd": OSDragonfly,
	"solaris":      OSSolaris,
	"illumos":      OSIllumos,
	"android":      OSAndroid,
	"aix":          OSAIX,
}

var archAliases = map[string]Arch{
	"amd64":       ArchAMD64,
	"x64":         ArchAMD64,
	"x8664":       ArchAMD64,
	"x86_64":      ArchAMD64,
	"386":         Arch386,
	"i386":        Arch386,
	"i486":        Arch386,
	"i586":        Arch386,
	"i686":        Arch386,
	"x86":         Arch386,
	"ia32":        Arch386,
	"arm64":       ArchARM64,
	"aarch64":     ArchARM64,
	"arm":         ArchARM,
	"armv5":       ArchARM,
	"armv6":       ArchARM,
	"armv6l":      ArchARM,
	"armv7":       ArchARM,
	"armv7l":      ArchARM,
	"armv7a":      ArchARM,
	"armhf":       ArchARM,
	"armel":       ArchARM,
	"ppc64":       ArchPPC64,
	"ppc64le":     ArchPPC64LE,
	"powerpc64le": ArchPPC64LE,
	"s390x":       ArchS390X,
	"riscv64":     ArchRISCV64,
	"riscv64gc":   ArchRISCV64,
	"mips":        ArchMIPS,
	"mipsle":      ArchMIPSLE,
	"mipsel":      ArchMIPSLE,
	"mips64":      ArchMIPS64,
	"mips64le":    ArchMIPS64LE,
	"mips64el":    ArchMIPS64LE,
	"loong64":     ArchLoong64,
	"loongarch64": ArchLoong64,
	"universal":   ArchUniversal,
	"universal2":  ArchUniversal,
}

var libcAliases = map[string]Libc{
	"gnu":        LibcGNU,
	"glibc":      LibcGNU,
	"gnueabi":    LibcGNU,
	"gnueabihf":  LibcGNU,
	"musl":       LibcMusl,
	"musleabi":   LibcMusl,
	"musleabihf": LibcMusl,
	"msvc":       LibcMSVC,
}

var bitsAliases = map[string]int{
	"64bit": 64,
	"32bit": 32,
}

// compositeAliases are keyed by segments joined with "-".
var compositeAliases = map[string]Composite{
	"x86-64":                   {Arch: ArchAMD64},
	"unknown-linux-gnu":        {OS: OSLinux, Libc: LibcGNU},
	"unknown-linux-gnueabi":    {OS: OSLinux, Libc: LibcGNU},
	"unknown-linux-gnueabihf":  {OS: OSLinux, Libc: LibcGNU},
	"unknown-linux-musl":       {OS: OSLinux, Libc: LibcMusl},
	"unknown-linux-musleabi":   {OS: OSLinux, Libc: LibcMusl},
	"unknown-linux-musleabihf": {OS: OSLinux, Libc: LibcMusl},
	"linux-gnu":                {OS: OSLinux, Libc: LibcGNU},
	"linux-musl":               {OS: OSLinux, Libc: LibcMusl},
	"unknown-linux-android":    {OS: OSAndroid},
	"linux-android":            {OS: OSAndroid},
	"linux-androideabi":        {OS: OSAndroid},
	"pc-windows-msvc":          {OS: OSWindows, Libc: LibcMSVC},
	"pc-windows-gnu":           {OS: OSWindows, Libc: LibcGNU},
	"windows-msvc":             {OS: OSWindows, Libc: LibcMSVC},
	"windows-gnu":              {OS: OSWindows, Libc: LibcGNU},
	"apple-darwin":             {OS: OSDarwin},
	"unknown-freebsd":          {OS: OSFreeBSD},
	"unknown-netbsd":           {OS: OSNetBSD},
	"unknown-illumos":          {OS: OSIllumos},
	"win64":                    {OS: OSWindows, Bits: 64},
	"win32":                    {OS: OSWindows, Bits: 32},
	"linux64":                  {OS: OSLinux, Bits: 64},
	"linux32":                  {OS: OSLinux, Bits: 32},
}

// LookupOS resolves a single case-folded segment to an OS.
func LookupOS(segment string) (OS, bool) {
	os, ok := osAliases[segment]
	return os, ok
}

// LookupArch resolves a single case-folded segment to an architecture.
func LookupArch(segment string) (Arch, bool) {
	arch, ok := archAliases[segment]
	return arch, ok
}

// LookupLibc resolves a single case-folded segment to a libc variant.
func LookupLibc(segment string) (Libc, bool) {
	libc, ok := libcAliases[segment]
	return libc, ok
}

// LookupBits resolves a single case-folded segment to a word size.
func LookupBits(segment string) (int, bool) {
	bits, ok := bitsAliases[segment]
	return bits, ok
}

// LookupComposite resolves a run of case-folded segments to a multi-field alias.
func LookupComposite(segments ...string) (Composite, bool) {
	c, ok := compositeAliases[strings.Join(segments, "-")]
	return c, ok
}

// BitsOf returns the word size of an architecture, 0 when unknown.
func BitsOf(arch Arch) int {
	switch arch {
	case Arch386, ArchARM, ArchMIPS, ArchMIPSLE:
		return 32
	case "":
		return 0
	default:
		return 64
	}
}
