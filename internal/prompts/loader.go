package prompts

import (
	"github.com/maxaizer/lead-dorker/internal/domain/errs"
	"github.com/pkg/errors"
	"os"
	"path/filepath"
)

type FileLoader struct {
	dir string
}

func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{dir: dir}
}

// Load returns the content of the named prompt file. A missing file is reported as errs.ErrMissingResource.
func (l *FileLoader) Load(name string) (string, error) {
	path := filepath.Join(l.dir, name)

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", errors.Wrapf(errs.ErrMissingResource, "could not find prompt file %s", path)
		}
		return "", errors.Wrapf(err, "error reading prompt file %s", path)
	}
	return string(content), nil
}
