package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kdomanski/iso9660"

	"github.com/vermeil/vae/internal/models"
)

// errUnsafeName is returned for image entries that would escape the
// destination directory.
var errUnsafeName = errors.New("unsafe entry name in image")

// ISOExtractor copies the file tree of an ISO 9660 image.
type ISOExtractor struct{}

// Extract copies every file and directory of the image at src under dst.
// ctx is checked between entries.
func (ISOExtractor) Extract(ctx context.Context, src, dst string) error {
	if err := extractISO(ctx, src, dst); err != nil {
		kind := models.Classify(err)
		if kind == models.FailureOther && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			kind = models.FailureCorruptOrUnsupported
		}
		return &ExtractError{Tool: "iso9660", Source: src, Kind: kind, Err: err}
	}
	return nil
}

func extractISO(ctx context.Context, src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	img, err := iso9660.OpenImage(f)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}

	root, err := img.RootDir()
	if err != nil {
		return fmt.Errorf("read root directory: %w", err)
	}

	return copyISODir(ctx, root, dst)
}

func copyISODir(ctx context.Context, dir *iso9660.File, path string) error {
	children, err := dir.GetChildren()
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	for _, child := range children {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := child.Name()
		if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("%w: %q", errUnsafeName, name)
		}
		childPath := filepath.Join(path, name)

		if child.IsDir() {
			if err := os.MkdirAll(childPath, dirMode); err != nil {
				return err
			}
			if err := copyISODir(ctx, child, childPath); err != nil {
				return err
			}
			continue
		}

		if err := copyISOFile(child, childPath); err != nil {
			return err
		}
	}
	return nil
}

func copyISOFile(file *iso9660.File, path string) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fileMode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, file.Reader()); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", path, err)
	}
	return out.Close()
}
