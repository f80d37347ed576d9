package cmdutil

import (
	"errors"
	"io/fs"

	oerrors "github.com/openprint3d/op3d/internal/errors"
	"github.com/openprint3d/op3d/internal/mapping"
	"github.com/openprint3d/op3d/internal/mirror"
	"github.com/openprint3d/op3d/internal/profile"
	"github.com/openprint3d/op3d/internal/validate"
)

// classified keeps the original error text while also matching an op3d
// sentinel, so ExitCodeFromError picks the right code.
type classified struct {
	err      error
	sentinel error
}

func (c *classified) Error() string   { return c.err.Error() }
func (c *classified) Unwrap() []error { return []error{c.err, c.sentinel} }

// Classify attaches the op3d sentinel matching a domain error. Errors that
// already carry a sentinel, or match none, are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, s := range []error{oerrors.ErrNotFound, oerrors.ErrInvalidFormat, oerrors.ErrUsage, oerrors.ErrValidation, oerrors.ErrConflict} {
		if errors.Is(err, s) {
			return err
		}
	}

	var sentinel error
	switch {
	case errors.Is(err, fs.ErrNotExist):
		sentinel = oerrors.ErrNotFound
	case errors.Is(err, validate.ErrInvalid):
		sentinel = oerrors.ErrValidation
	case errors.Is(err, profile.ErrStructuralConflict):
		sentinel = oerrors.ErrConflict
	case errors.Is(err, profile.ErrUnknownKind),
		errors.Is(err, profile.ErrUnknownDialect),
		errors.Is(err, mapping.ErrNoTable):
		sentinel = oerrors.ErrUsage
	case errors.Is(err, profile.ErrNotProfile),
		errors.Is(err, profile.ErrUnsupportedFormat),
		errors.Is(err, mirror.ErrNotProfile),
		errors.Is(err, mapping.ErrSectionMissing):
		sentinel = oerrors.ErrInvalidFormat
	default:
		return err
	}
	return &classified{err: err, sentinel: sentinel}
}

// LoadError classifies a failure to read an input document. Anything other
// than a missing file is treated as a format problem.
func LoadError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return oerrors.NewNotFoundError(err.Error(), path, "")
	}
	if c := Classify(err); c != err {
		return c
	}
	return oerrors.NewInvalidFormatError(err.Error(), path, err)
}

// BatchFailed returns the exit error for a batch whose failures were already
// reported line by line.
func BatchFailed(err error, code int) error {
	return &oerrors.ExitError{Err: err, Code: code, Printed: true}
}
