package resolve

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/relfetch/pkg/archive"
	"github.com/glorpus-work/relfetch/pkg/platform"
	"github.com/glorpus-work/relfetch/pkg/release"
)

var (
	linuxGNU     = platform.Profile{OS: platform.OSLinux, Arch: platform.ArchAMD64, Libc: platform.LibcGNU, Bits: 64}
	linuxUnknown = platform.Profile{OS: platform.OSLinux, Arch: platform.ArchAMD64, Libc: platform.LibcUnknown, Bits: 64}
	linuxMusl    = platform.Profile{OS: platform.OSLinux, Arch: platform.ArchAMD64, Libc: platform.LibcMusl, Bits: 64}
	darwinARM    = platform.Profile{OS: platform.OSDarwin, Arch: platform.ArchARM64, Bits: 64}
	windows64    = platform.Profile{OS: platform.OSWindows, Arch: platform.ArchAMD64, Libc: platform.LibcMSVC, Bits: 64}
	windows32    = platform.Profile{OS: platform.OSWindows, Arch: platform.Arch386, Libc: platform.LibcMSVC, Bits: 32}
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		profile  platform.Profile
		assets   []string
		outcome  Outcome
		expected []string
	}{
		{
			name:    "exact arch and libc wins",
			profile: linuxGNU,
			assets: []string{
				"tool-x86_64-unknown-linux-gnu.tar.gz",
				"tool-x86_64-unknown-linux-musl.tar.gz",
				"tool-aarch64-unknown-linux-gnu.tar.gz",
			},
			outcome:  Unique,
			expected: []string{"tool-x86_64-unknown-linux-gnu.tar.gz"},
		},
		{
			name:    "unknown libc accepts both variants equally",
			profile: linuxUnknown,
			assets: []string{
				"tool-x86_64-unknown-linux-gnu.tar.gz",
				"tool-x86_64-unknown-linux-musl.tar.gz",
			},
			outcome: Ambiguous,
			expected: []string{
				"tool-x86_64-unknown-linux-gnu.tar.gz",
				"tool-x86_64-unknown-linux-musl.tar.gz",
			},
		},
		{
			name:    "musl profile",
			profile: linuxMusl,
			assets: []string{
				"tool-x86_64-unknown-linux-gnu.tar.gz",
				"tool-x86_64-unknown-linux-musl.tar.gz",
			},
			outcome:  Unique,
			expected: []string{"tool-x86_64-unknown-linux-musl.tar.gz"},
		},
		{
			name:    "undeclared libc beats declared under unknown profile libc",
			profile: linuxUnknown,
			assets: []string{
				"tool-x86_64-unknown-linux-gnu.tar.gz",
				"tool_linux_amd64.tar.gz",
			},
			outcome:  Unique,
			expected: []string{"tool_linux_amd64.tar.gz"},
		},
		{
			name:    "go style release",
			profile: darwinARM,
			assets: []string{
				"tool_darwin_amd64.zip",
				"tool_darwin_arm64.zip",
				"tool_linux_amd64.tar.gz",
				"tool_windows_amd64.zip",
				"checksums.txt",
			},
			outcome:  Unique,
			expected: []string{"tool_darwin_arm64.zip"},
		},
		{
			name:    "exact arch beats universal",
			profile: darwinARM,
			assets: []string{
				"tool-macos-universal.tar.gz",
				"tool-macos-arm64.tar.gz",
			},
			outcome:  Unique,
			expected: []string{"tool-macos-arm64.tar.gz"},
		},
		{
			name:     "universal accepted on darwin",
			profile:  darwinARM,
			assets:   []string{"tool-macos-universal.tar.gz", "tool-linux-arm64.tar.gz"},
			outcome:  Unique,
			expected: []string{"tool-macos-universal.tar.gz"},
		},
		{
			name:     "archive beats bare executable",
			profile:  linuxGNU,
			assets:   []string{"tool-linux-amd64", "tool-linux-amd64.tar.gz"},
			outcome:  Unique,
			expected: []string{"tool-linux-amd64.tar.gz"},
		},
		{
			name:     "bare executable is still selectable",
			profile:  linuxGNU,
			assets:   []string{"tool-linux-amd64", "tool-linux-amd64.sha256"},
			outcome:  Unique,
			expected: []string{"tool-linux-amd64"},
		},
		{
			name:     "word size without arch",
			profile:  windows64,
			assets:   []string{"tool-win32.exe", "tool-win64.exe"},
			outcome:  Unique,
			expected: []string{"tool-win64.exe"},
		},
		{
			name:     "32-bit windows",
			profile:  windows32,
			assets:   []string{"tool-win32.exe", "tool-win64.exe"},
			outcome:  Unique,
			expected: []string{"tool-win32.exe"},
		},
		{
			name:    "windows msvc over gnu",
			profile: windows64,
			assets: []string{
				"tool-x86_64-pc-windows-gnu.zip",
				"tool-x86_64-pc-windows-msvc.zip",
			},
			outcome:  Unique,
			expected: []string{"tool-x86_64-pc-windows-msvc.zip"},
		},
		{
			name:     "windows gnu only release",
			profile:  windows64,
			assets:   []string{"tool-x86_64-pc-windows-gnu.zip", "tool-x86_64-unknown-linux-gnu.tar.gz"},
			outcome:  Unique,
			expected: []string{"tool-x86_64-pc-windows-gnu.zip"},
		},
		{
			name:    "android build is not linux",
			profile: linuxGNU,
			assets: []string{
				"tool-x86_64-linux-android.tar.gz",
				"tool-aarch64-linux-android.tar.gz",
				"tool_linux_amd64.tar.gz",
			},
			outcome:  Unique,
			expected: []string{"tool_linux_amd64.tar.gz"},
		},
		{
			name:    "android only release",
			profile: linuxGNU,
			assets:  []string{"tool-x86_64-linux-android.tar.gz", "tool-x86_64-apple-darwin.tar.gz"},
			outcome: NoMatch,
		},
		{
			name:     "zip and tar.gz tie without preference",
			profile:  linuxGNU,
			assets:   []string{"tool-linux-amd64.zip", "tool-linux-amd64.tar.gz"},
			outcome:  Ambiguous,
			expected: []string{"tool-linux-amd64.zip", "tool-linux-amd64.tar.gz"},
		},
		{
			name:    "no OS token anywhere",
			profile: linuxGNU,
			assets: []string{
				"CHANGELOG.md",
				"source-code.tar.gz",
				"tool-amd64.tar.gz",
			},
			outcome: NoMatch,
		},
		{
			name:    "metadata is never selected",
			profile: linuxGNU,
			assets: []string{
				"tool-linux-amd64.tar.gz.sha256",
				"tool-linux-amd64.tar.gz.sig",
				"tool-linux-amd64.sbom.json",
			},
			outcome: NoMatch,
		},
		{
			name:    "empty release",
			profile: linuxGNU,
			outcome: NoMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.assets, tt.profile)
			assert.Equal(t, tt.outcome, res.Outcome)
			assert.Len(t, res.Scored, len(tt.assets))
			if tt.expected == nil {
				assert.Empty(t, res.Candidates)
				return
			}
			assert.Equal(t, tt.expected, res.Names())
		})
	}
}

func TestResolveOrderIndependent(t *testing.T) {
	assets := []string{
		"tool-x86_64-unknown-linux-gnu.tar.gz",
		"tool-x86_64-unknown-linux-musl.tar.gz",
		"tool-aarch64-unknown-linux-gnu.tar.gz",
		"tool-x86_64-apple-darwin.tar.gz",
		"tool-x86_64-pc-windows-msvc.zip",
		"tool_linux_amd64",
		"checksums.txt",
		"source.tar.gz",
	}

	profiles := []platform.Profile{linuxGNU, linuxUnknown, linuxMusl, darwinARM, windows64}
	rng := rand.New(rand.NewSource(42))

	for _, profile := range profiles {
		t.Run(profile.String(), func(t *testing.T) {
			want := Resolve(assets, profile)
			wantNames := map[string]bool{}
			for _, n := range want.Names() {
				wantNames[n] = true
			}

			for i := 0; i < 20; i++ {
				shuffled := append([]string(nil), assets...)
				rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

				got := Resolve(shuffled, profile)
				require.Equal(t, want.Outcome, got.Outcome, shuffled)

				gotNames := map[string]bool{}
				for _, n := range got.Names() {
					gotNames[n] = true
				}
				require.Equal(t, wantNames, gotNames, shuffled)
			}
		})
	}
}

func TestResolveAmbiguousKeepsInputOrder(t *testing.T) {
	assets := []string{
		"tool-x86_64-unknown-linux-musl.tar.gz",
		"README.md",
		"tool-x86_64-unknown-linux-gnu.tar.gz",
	}

	res := Resolve(assets, linuxUnknown)
	require.Equal(t, Ambiguous, res.Outcome)
	assert.Equal(t, []string{assets[0], assets[2]}, res.Names())
	assert.Equal(t, 0, res.Candidates[0].Index)
	assert.Equal(t, 2, res.Candidates[1].Index)
	for _, c := range res.Candidates {
		assert.Equal(t, res.Candidates[0].Score, c.Score)
	}
}

func TestResolveWithPreference(t *testing.T) {
	assets := []string{"tool-linux-amd64.zip", "tool-linux-amd64.tar.gz", "tool-linux-amd64.tar.xz"}

	res := Resolve(assets, linuxGNU, WithPreference(archive.KindTarXz, archive.KindTarGz))
	require.Equal(t, Unique, res.Outcome)
	assert.Equal(t, []string{"tool-linux-amd64.tar.xz"}, res.Names())

	// preference never beats a higher score
	res = Resolve([]string{"tool-linux-amd64.zip", "tool-linux.tar.xz"}, linuxGNU, WithPreference(archive.KindTarXz))
	require.Equal(t, Unique, res.Outcome)
	assert.Equal(t, []string{"tool-linux-amd64.zip"}, res.Names())

	// unlisted kinds still tie
	res = Resolve([]string{"tool-linux-amd64.zip", "tool-linux-amd64.7z"}, linuxGNU, WithPreference(archive.KindTarGz))
	assert.Equal(t, Ambiguous, res.Outcome)
}

func TestResolveAssets(t *testing.T) {
	assets := []release.Asset{
		{Name: "tool-aarch64-unknown-linux-gnu.tar.gz", DownloadURL: "https://example.com/arm"},
		{Name: "tool-x86_64-unknown-linux-gnu.tar.gz", DownloadURL: "https://example.com/x86", Size: 42},
	}

	res, selected := ResolveAssets(assets, linuxGNU)
	require.Equal(t, Unique, res.Outcome)
	require.NotNil(t, selected)
	assert.Equal(t, assets[1], *selected)

	res, selected = ResolveAssets(assets, darwinARM)
	assert.Equal(t, NoMatch, res.Outcome)
	assert.Nil(t, selected)

	_, ok := res.Best()
	assert.False(t, ok)
}

func TestResolveReportsRejections(t *testing.T) {
	res := Resolve([]string{
		"CHANGELOG.md",
		"tool-darwin-amd64.tar.gz",
		"tool-linux-arm64.tar.gz",
		"tool-linux-amd64-musl.tar.gz",
		"tool-linux-amd64.tar.gz.sha256",
	}, linuxGNU)

	reasons := make([]string, len(res.Scored))
	for i, c := range res.Scored {
		assert.False(t, c.Compatible)
		assert.Zero(t, c.Score)
		reasons[i] = c.Reason
	}
	assert.Equal(t, []string{
		"no operating system in name",
		"operating system mismatch",
		"architecture mismatch",
		"libc mismatch",
		"not a binary",
	}, reasons)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "unique", Unique.String())
	assert.Equal(t, "ambiguous", Ambiguous.String())
	assert.Equal(t, "no match", NoMatch.String())
}
