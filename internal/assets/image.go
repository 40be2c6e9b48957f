package assets

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	diskfs "github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/disk"
	"github.com/diskfs/go-diskfs/filesystem"
)

// MapDir is the directory holding the map files on the game disc.
const MapDir = "/MAP"

// Image is a read-only ISO9660 disc image.
// Only images with 2048 byte sectors are supported.
type Image struct {
	path string
	disk *disk.Disk
	fs   filesystem.FileSystem
}

// OpenImage opens the disc image at file.
func OpenImage(file string) (*Image, error) {
	d, err := diskfs.Open(file, diskfs.WithOpenMode(diskfs.ReadOnly))
	if err != nil {
		return nil, fmt.Errorf("opening disc image %s: %w", file, err)
	}
	fs, err := d.GetFilesystem(0)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("reading filesystem of %s: %w", file, err)
	}
	return &Image{path: file, disk: d, fs: fs}, nil
}

// ReadFile reads the file with the base name of name from MapDir.
// ISO9660 names are upper case, so lookups are too.
func (img *Image) ReadFile(name string) ([]byte, error) {
	p := path.Join(MapDir, strings.ToUpper(path.Base(filepath.ToSlash(name))))

	f, err := img.fs.OpenFile(p, os.O_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("%s:%s: %w", img.path, p, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Close releases the image file.
func (img *Image) Close() error {
	return img.disk.Close()
}
