// Package encodings turns raw byte streams into decoded text readers,
// honoring an explicit charset when one was negotiated and falling back
// to BOM sniffing otherwise.
package encodings

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/logflow/gridflow/pkg/errors"
)

// NewTextReader wraps r in a decoder for the given charset. explicit is
// the batch-wide encoding option; an empty string means "unspecified"
// and falls back to the per-file hint, then to BOM detection, then to
// UTF-8 passthrough.
func NewTextReader(r io.Reader, explicit, hint string) (io.Reader, error) {
	name := explicit
	if name == "" {
		name = hint
	}

	if name == "" {
		return sniff(r)
	}

	if isUTF8(name) {
		// Still strip a BOM if one is present.
		return sniff(r)
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeEncodingError, "unknown character encoding").
			WithContext("encoding", name)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

func isUTF8(name string) bool {
	switch strings.ToLower(name) {
	case "utf-8", "utf8", "ascii", "us-ascii":
		return true
	}
	return false
}

// sniff inspects the first bytes of r for a byte order mark and picks
// the matching decoder. Streams without a BOM pass through unchanged.
func sniff(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(3)
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, errors.CodeEncodingError, "failed to sniff encoding")
	}

	if len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		br.Discard(3)
		return br, nil
	}
	if len(head) >= 2 {
		if head[0] == 0xFF && head[1] == 0xFE {
			dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
			return transform.NewReader(br, dec), nil
		}
		if head[0] == 0xFE && head[1] == 0xFF {
			dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
			return transform.NewReader(br, dec), nil
		}
	}

	return br, nil
}
