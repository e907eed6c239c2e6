// Package platform describes the invoking machine and holds the alias vocabularies used to
// recognise platform fragments in release asset names.
package platform

// OS is a canonical operating system family, spelled as GOOS.
type OS string

// Arch is a canonical CPU architecture, spelled as GOARCH.
type Arch string

// Libc is the C runtime a binary was linked against.
type Libc string

const (
	// OSWindows represents the Windows operating system.
	OSWindows OS = "windows"
	// OSLinux represents the Linux operating system.
	OSLinux OS = "linux"
	// OSDarwin represents the macOS operating system.
	OSDarwin OS = "darwin"
	// OSFreeBSD represents the FreeBSD operating system.
	OSFreeBSD OS = "freebsd"
	// OSOpenBSD represents the OpenBSD operating system.
	OSOpenBSD OS = "openbsd"
	// OSNetBSD represents the NetBSD operating system.
	OSNetBSD    OS = "netbsd"
	OSDragonfly OS = "dragonfly"
	OSSolaris   OS = "solaris"
	OSIllumos   OS = "illumos"
	OSAndroid   OS = "android"
	OSAIX       OS = "aix"

	// ArchAMD64 represents the AMD64 (x86_64) architecture.
	ArchAMD64 Arch = "amd64"
	// Arch386 represents the 32-bit x86 architecture.
	Arch386 Arch = "386"
	// ArchARM represents the ARM architecture (32-bit).
	ArchARM Arch = "arm"
	// ArchARM64 represents the ARM64 (AArch64) architecture.
	ArchARM64    Arch = "arm64"
	ArchPPC64    Arch = "ppc64"
	ArchPPC64LE  Arch = "ppc64le"
	ArchS390X    Arch = "s390x"
	ArchRISCV64  Arch = "riscv64"
	ArchMIPS     Arch = "mips"
	ArchMIPSLE   Arch = "mipsle"
	ArchMIPS64   Arch = "mips64"
	ArchMIPS64LE Arch = "mips64le"
	ArchLoong64  Arch = "loong64"
	// ArchUniversal is a macOS fat binary. It never describes a machine.
	ArchUniversal Arch = "universal"

	LibcGNU  Libc = "gnu"
	LibcMusl Libc = "musl"
	LibcMSVC Libc = "msvc"
	// LibcUnknown is the zero value: the libc could not be determined or was not declared.
	LibcUnknown Libc = ""
)

// ValidOS returns a list of valid OS values.
func ValidOS() []string {
	return []string{
		string(OSWindows),
		string(OSLinux),
		string(OSDarwin),
		string(OSFreeBSD),
		string(OSOpenBSD),
		string(OSNetBSD),
		string(OSDragonfly),
		string(OSSolaris),
		string(OSIllumos),
		string(OSAndroid),
		string(OSAIX),
	}
}

// ValidArch returns a list of valid architecture values.
func ValidArch() []string {
	return []string{
		string(ArchAMD64),
		string(Arch386),
		string(ArchARM),
		string(ArchARM64),
		string(ArchPPC64),
		string(ArchPPC64LE),
		string(ArchS390X),
		string(ArchRISCV64),
		string(ArchMIPS),
		string(ArchMIPSLE),
		string(ArchMIPS64),
		string(ArchMIPS64LE),
		string(ArchLoong64),
	}
}

// ValidLibc returns a list of valid libc values.
func ValidLibc() []string {
	return []string{string(LibcGNU), string(LibcMusl), string(LibcMSVC), "unknown"}
}

// String renders the libc, spelling out the unknown value.
func (l Libc) String() string {
	if l == LibcUnknown {
		return "unknown"
	}
	return string(l)
}
