package archive

import "strings"

// Kind is the packaging of a release asset as told by its file extension.
type Kind string

// Class groups kinds by how the pipeline treats them.
type Class int

const (
	ClassNone Class = iota
	// ClassArchive holds a tree of files.
	ClassArchive
	// ClassCompressed is a single compressed file.
	ClassCompressed
	ClassExecutable
	// ClassPackage is a system package. Selectable, never unpacked.
	ClassPackage
	// ClassMetadata is a checksum, signature, SBOM or document. Never selectable.
	ClassMetadata
)

const (
	KindNone Kind = ""

	KindTarGz  Kind = "tar.gz"
	KindTarXz  Kind = "tar.xz"
	KindTarBz2 Kind = "tar.bz2"
	KindTarZst Kind = "tar.zst"
	KindTar    Kind = "tar"
	KindZip    Kind = "zip"
	Kind7z     Kind = "7z"

	KindGz  Kind = "gz"
	KindXz  Kind = "xz"
	KindBz2 Kind = "bz2"
	KindZst Kind = "zst"

	KindExe      Kind = "exe"
	KindAppImage Kind = "appimage"

	KindDeb Kind = "deb"
	KindRpm Kind = "rpm"
	KindApk Kind = "apk"
	KindMsi Kind = "msi"
	KindDmg Kind = "dmg"
	KindPkg Kind = "pkg"

	KindSha256  Kind = "sha256"
	KindSha512  Kind = "sha512"
	KindSha1    Kind = "sha1"
	KindMd5     Kind = "md5"
	KindSig     Kind = "sig"
	KindAsc     Kind = "asc"
	KindMinisig Kind = "minisig"
	KindPem     Kind = "pem"
	KindSbom    Kind = "sbom"
	KindTxt     Kind = "txt"
	KindJSON    Kind = "json"
	KindMd      Kind = "md"
	KindYaml    Kind = "yaml"
)

var kindClasses = map[Kind]Class{
	KindTarGz: ClassArchive, KindTarXz: ClassArchive, KindTarBz2: ClassArchive, KindTarZst: ClassArchive,
	KindTar: ClassArchive, KindZip: ClassArchive, Kind7z: ClassArchive,

	KindGz: ClassCompressed, KindXz: ClassCompressed, KindBz2: ClassCompressed, KindZst: ClassCompressed,

	KindExe: ClassExecutable, KindAppImage: ClassExecutable,

	KindDeb: ClassPackage, KindRpm: ClassPackage, KindApk: ClassPackage,
	KindMsi: ClassPackage, KindDmg: ClassPackage, KindPkg: ClassPackage,

	KindSha256: ClassMetadata, KindSha512: ClassMetadata, KindSha1: ClassMetadata, KindMd5: ClassMetadata,
	KindSig: ClassMetadata, KindAsc: ClassMetadata, KindMinisig: ClassMetadata, KindPem: ClassMetadata,
	KindSbom: ClassMetadata, KindTxt: ClassMetadata, KindJSON: ClassMetadata, KindMd: ClassMetadata,
	KindYaml: ClassMetadata,
}

// suffixAliases maps trailing name segments, joined with ".", to a kind.
var suffixAliases = map[string]Kind{
	"tar.gz":    KindTarGz,
	"tgz":       KindTarGz,
	"tar.xz":    KindTarXz,
	"txz":       KindTarXz,
	"tar.bz2":   KindTarBz2,
	"tbz":       KindTarBz2,
	"tbz2":      KindTarBz2,
	"tar.zst":   KindTarZst,
	"tzst":      KindTarZst,
	"tar":       KindTar,
	"zip":       KindZip,
	"7z":        Kind7z,
	"gz":        KindGz,
	"xz":        KindXz,
	"bz2":       KindBz2,
	"zst":       KindZst,
	"exe":       KindExe,
	"appimage":  KindAppImage,
	"deb":       KindDeb,
	"rpm":       KindRpm,
	"apk":       KindApk,
	"msi":       KindMsi,
	"dmg":       KindDmg,
	"pkg":       KindPkg,
	"sha256":    KindSha256,
	"sha256sum": KindSha256,
	"sha512":    KindSha512,
	"sha512sum": KindSha512,
	"sha1":      KindSha1,
	"md5":       KindMd5,
	"sig":       KindSig,
	"asc":       KindAsc,
	"minisig":   KindMinisig,
	"pem":       KindPem,
	"crt":       KindPem,
	"sbom":      KindSbom,
	"spdx":      KindSbom,
	"txt":       KindTxt,
	"json":      KindJSON,
	"jsonl":     KindJSON,
	"md":        KindMd,
	"yaml":      KindYaml,
	"yml":       KindYaml,
}

// MaxSuffixSegments is the longest run of trailing segments that forms one kind.
const MaxSuffixSegments = 2

// LookupSuffix resolves trailing case-folded name segments to a kind.
func LookupSuffix(segments ...string) (Kind, bool) {
	k, ok := suffixAliases[strings.Join(segments, ".")]
	return k, ok
}

// Class returns the class of k.
func (k Kind) Class() Class {
	return kindClasses[k]
}

// IsArchive reports whether k holds a tree of files.
func (k Kind) IsArchive() bool { return k.Class() == ClassArchive }

// IsCompressed reports whether k is a single compressed file.
func (k Kind) IsCompressed() bool { return k.Class() == ClassCompressed }

// IsMetadata reports whether k describes another asset rather than being one.
func (k Kind) IsMetadata() bool { return k.Class() == ClassMetadata }

// Recognized reports whether k is an archive or compressed format the pipeline unpacks.
func (k Kind) Recognized() bool { return k.IsArchive() || k.IsCompressed() }
