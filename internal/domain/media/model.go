package media

import (
	"path"

	"github.com/rotisserie/eris"
)

// ErrNotFound indicates the requested image asset does not exist.
var ErrNotFound = eris.New("image not found")

// Image is an uploaded image asset. File is relative to the media root.
type Image struct {
	ID     uint
	File   string
	Name   string
	Width  int
	Height int
}

// Label returns the display name of the image, falling back to its file name.
func (i Image) Label() string {
	if i.Name != "" {
		return i.Name
	}
	return path.Base(i.File)
}
