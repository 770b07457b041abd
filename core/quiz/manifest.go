package quiz

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrOutsideRoot = errors.New("path is outside the import root")

// Manifest lists the files of an import batch, in order.
//
//	quizzes:
//	  - week: Week 1
//	    path: week1.txt
//	  - week: Final Exam
//	    path: final.txt
//	    final_exam: true
type Manifest struct {
	Quizzes []ImportEntry `yaml:"quizzes"`
}

func LoadManifest(r io.Reader) ([]ImportEntry, error) {
	var m Manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if err == io.EOF {
			return []ImportEntry{}, nil
		}
		return nil, errors.Wrap(err, "decoding manifest")
	}
	if m.Quizzes == nil {
		m.Quizzes = []ImportEntry{}
	}
	return m.Quizzes, nil
}

// ResolvePaths makes every entry path relative to `root` and slash-separated, as fs.FS expects.
// Relative paths are taken relative to `baseDir` first. Paths escaping `root` are rejected.
func ResolvePaths(entries []ImportEntry, baseDir, root string) ([]ImportEntry, error) {
	resolved := make([]ImportEntry, 0, len(entries))
	for _, e := range entries {
		p := e.Path
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving %q", e.Path)
		}
		if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, errors.Wrapf(ErrOutsideRoot, "%s: %q", e.Week, e.Path)
		}
		e.Path = filepath.ToSlash(rel)
		resolved = append(resolved, e)
	}
	return resolved, nil
}
