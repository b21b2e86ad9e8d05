package codec

import "errors"

// Decode failure causes.
var (
	ErrCorruptPayload      = errors.New("corrupt payload")
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
	ErrMissingField        = errors.New("missing required field")
	ErrPayloadTooLarge     = errors.New("decompressed payload too large")
)

// Import failure causes.
var (
	ErrImportDecompress   = errors.New("import file is not gzip-compressed")
	ErrImportParse        = errors.New("import file is not valid JSON")
	ErrImportMissingField = errors.New("import file is missing board fields")
)

// DecodeError reports a payload that could not be decoded into a board.
type DecodeError struct {
	Err  error
	Form string // Payload form being decoded
}

func (e *DecodeError) Error() string {
	return "decode " + e.Form + " payload: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ImportError reports a rejected import file.
type ImportError struct {
	Err error
}

func (e *ImportError) Error() string {
	return "import rejected: " + e.Err.Error()
}

func (e *ImportError) Unwrap() error {
	return e.Err
}
