package levels

import (
	"embed"
	"errors"
	"io/fs"
	"os"
)

//go:embed *.tmj tilesets
var LevelsFS embed.FS

// Overlay serves files from primary and falls back to fallback when primary
// does not have them. It lets on-disk edits shadow the embedded levels.
type Overlay struct {
	Primary  fs.FS
	Fallback fs.FS
}

func (o Overlay) Open(name string) (fs.File, error) {
	if o.Primary != nil {
		f, err := o.Primary.Open(name)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	if o.Fallback == nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return o.Fallback.Open(name)
}

// Source returns the filesystem levels are read from. When dir exists on
// disk its files take precedence over the embedded copies.
func Source(dir string) fs.FS {
	if dir == "" {
		return LevelsFS
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return LevelsFS
	}
	return Overlay{Primary: os.DirFS(dir), Fallback: LevelsFS}
}
