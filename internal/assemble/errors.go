package assemble

import (
	"errors"
	"fmt"
)

// ErrUnknownDocumentType matches any *UnknownDocumentTypeError via errors.Is.
var ErrUnknownDocumentType = errors.New("unknown document type")

// UnknownDocumentTypeError is returned when a document type has no tag mapping.
type UnknownDocumentTypeError struct {
	DocumentType string
}

func (e *UnknownDocumentTypeError) Error() string {
	return fmt.Sprintf("unknown document type %q (expected one of ask, hand, prot, ptk, bil, reg, sis)", e.DocumentType)
}

func (e *UnknownDocumentTypeError) Is(target error) bool {
	return target == ErrUnknownDocumentType
}
