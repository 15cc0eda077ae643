package metadata

import (
	"errors"
	"fmt"
)

// ErrMalformedFilename matches any *MalformedFilenameError via errors.Is.
var ErrMalformedFilename = errors.New("malformed filename")

// MalformedFilenameError is returned when a filename stem does not split into
// exactly four underscore-delimited fields.
type MalformedFilenameError struct {
	Filename string
	Fields   int
}

func (e *MalformedFilenameError) Error() string {
	return fmt.Sprintf("malformed filename %q: expected 4 underscore-delimited fields, got %d\n\n"+
		"Hint: corpus filenames look like {type}_{year}[-{year}]_{chamber}_{number}.xml, e.g. prot_1882_adeln_003.xml",
		e.Filename, e.Fields)
}

func (e *MalformedFilenameError) Is(target error) bool {
	return target == ErrMalformedFilename
}
