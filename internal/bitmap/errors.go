package bitmap

// ErrorKind classifies encoder failures.
type ErrorKind int

const (
	UnsupportedImage ErrorKind = iota // input could not be decoded as an image
	InvalidGeometry                   // crop window empty or offset negative
	EncodingFailure                   // pipeline produced no pixels
)

var errorKindNames = map[ErrorKind]string{
	UnsupportedImage: "unsupported image",
	InvalidGeometry:  "invalid geometry",
	EncodingFailure:  "encoding failure",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// EncodeError indicates an encoder-level error.
type EncodeError struct {
	Kind ErrorKind
	Msg  string
}

func (e *EncodeError) Error() string { return e.Kind.String() + ": " + e.Msg }
