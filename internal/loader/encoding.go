package loader

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type encoding struct {
	name   string
	decode func([]byte) (string, error)
}

// fallbackEncodings are tried in order for local files.
var fallbackEncodings = []encoding{
	{name: "utf-8", decode: decodeUTF8},
	{name: "latin-1", decode: decodeCharmap(charmap.ISO8859_1)},
	{name: "cp1252", decode: decodeCharmap(charmap.Windows1252)},
}

var errInvalidUTF8 = errors.New("invalid utf-8 byte sequence")

func decodeUTF8(b []byte) (string, error) {
	b = bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})
	if !utf8.Valid(b) {
		return "", errInvalidUTF8
	}
	return string(b), nil
}

func decodeCharmap(cm *charmap.Charmap) func([]byte) (string, error) {
	return func(b []byte) (string, error) {
		out, _, err := transform.Bytes(cm.NewDecoder(), b)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

func encodingNames(encs []encoding) string {
	names := make([]string, len(encs))
	for i, e := range encs {
		names[i] = e.name
	}
	return strings.Join(names, ", ")
}
