package fs

import (
	"embed"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/fwojciec/unhtml"
)

// SystemConfigDir holds system-wide configuration fragments.
const SystemConfigDir = "/etc/unhtml"

// DefaultsName identifies the embedded defaults in diagnostics.
const DefaultsName = "(defaults)"

//go:embed defaults
var embeddedDefaults embed.FS

// DefaultsFS returns the embedded default configuration fragments.
func DefaultsFS() iofs.FS {
	sub, err := iofs.Sub(embeddedDefaults, "defaults")
	if err != nil {
		panic(err)
	}
	return sub
}

// DirSource returns a configuration source reading fragments from dir.
func DirSource(dir string) unhtml.ConfigSource {
	return unhtml.ConfigSource{Name: dir, FS: os.DirFS(dir)}
}

// DefaultSources returns the embedded defaults followed by the system and
// user configuration directories. The user directory is omitted when it
// cannot be determined.
func DefaultSources() []unhtml.ConfigSource {
	sources := []unhtml.ConfigSource{
		{Name: DefaultsName, FS: DefaultsFS()},
		DirSource(SystemConfigDir),
	}
	if dir, err := os.UserConfigDir(); err == nil {
		sources = append(sources, DirSource(filepath.Join(dir, "unhtml")))
	}
	return sources
}
