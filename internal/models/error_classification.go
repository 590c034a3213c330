package models

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"io"
	"io/fs"
	"os/exec"
	"regexp"
)

// FailureKind classifies why a scan, extraction or move failed.
type FailureKind string

const (
	FailureNotFound             FailureKind = "NOT_FOUND"
	FailurePermissionDenied     FailureKind = "PERMISSION_DENIED"
	FailureCorruptOrUnsupported FailureKind = "CORRUPT_OR_UNSUPPORTED"
	FailureOther                FailureKind = "OTHER"
)

// ErrCorrupt marks an archive that could not be decoded. Extractors wrap it
// when the underlying decoder reports a format problem without a typed error.
var ErrCorrupt = errors.New("corrupt or unsupported archive")

// Classifier is implemented by errors that already know their failure kind.
type Classifier interface {
	FailureKind() FailureKind
}

// corruptPattern matches decoder and extractor messages that indicate a
// damaged or unrecognised archive rather than an environment problem.
var corruptPattern = regexp.MustCompile(`(?i)` +
	`corrupt|unsupported|unknown archive|not a valid|invalid (header|archive|data)|` +
	`checksum|crc failed|bad magic|unexpected end|data error|headers error|` +
	`can ?not open (the )?file as (an )?archive|not an? (zip|rar|7z|gzip|tar|iso)`)

// Classify maps an error onto the failure taxonomy. A nil error yields "".
func Classify(err error) FailureKind {
	if err == nil {
		return ""
	}

	var classified Classifier
	if errors.As(err, &classified) {
		if kind := classified.FailureKind(); kind != "" {
			return kind
		}
	}

	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, exec.ErrNotFound):
		return FailureNotFound
	case errors.Is(err, fs.ErrPermission):
		return FailurePermissionDenied
	case isCorrupt(err):
		return FailureCorruptOrUnsupported
	default:
		return FailureOther
	}
}

func isCorrupt(err error) bool {
	for _, target := range []error{
		ErrCorrupt,
		zip.ErrFormat,
		zip.ErrAlgorithm,
		zip.ErrChecksum,
		gzip.ErrHeader,
		gzip.ErrChecksum,
		tar.ErrHeader,
		io.ErrUnexpectedEOF,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return corruptPattern.MatchString(err.Error())
}

// MatchCorrupt reports whether free-form tool output describes a damaged or
// unsupported archive.
func MatchCorrupt(output string) bool {
	return corruptPattern.MatchString(output)
}
