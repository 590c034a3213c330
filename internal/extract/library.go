package extract

import (
	"context"

	"golift.io/xtractr"

	"github.com/vermeil/vae/internal/models"
)

const (
	fileMode = 0o644
	dirMode  = 0o755
)

// LibraryTags are the general archive formats LibraryExtractor handles.
var LibraryTags = []string{
	".zip", ".rar", ".7z",
	".tar", ".tar.gz", ".tgz", ".tar.xz", ".tar.bz2",
	".gz", ".xz", ".bz2",
}

// LibraryExtractor decodes general archive formats in-process with
// golift.io/xtractr.
type LibraryExtractor struct {
	// Password is tried for encrypted RAR and 7z archives.
	Password string
}

// NewLibraryExtractor returns an extractor for LibraryTags. An empty
// password means archives are opened without one.
func NewLibraryExtractor(password string) *LibraryExtractor {
	return &LibraryExtractor{Password: password}
}

// Extract unpacks src into dst. xtractr does not take a context, so ctx is
// only checked before starting.
func (l *LibraryExtractor) Extract(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, _, _, err := xtractr.ExtractFile(&xtractr.XFile{
		FilePath:  src,
		OutputDir: dst,
		FileMode:  fileMode,
		DirMode:   dirMode,
		Password:  l.Password,
	})
	if err != nil {
		return &ExtractError{
			Tool:   "xtractr",
			Source: src,
			Kind:   classifyLibrary(err),
			Err:    err,
		}
	}
	return nil
}

// classifyLibrary treats anything that is not an environment problem as a
// decode failure, since xtractr wraps format errors as plain strings.
func classifyLibrary(err error) models.FailureKind {
	if kind := models.Classify(err); kind != models.FailureOther {
		return kind
	}
	return models.FailureCorruptOrUnsupported
}
