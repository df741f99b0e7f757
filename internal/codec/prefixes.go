package codec

import (
	"bytes"
	"regexp"

	"github.com/roach88/rdfkit/internal/rdf"
)

var (
	turtlePrefixRe = regexp.MustCompile(`(?i)(?:@prefix|\bprefix)\s+([A-Za-z][\w.-]*)?:\s*<([^>]*)>`)
	xmlnsRe        = regexp.MustCompile(`xmlns:([A-Za-z_][\w.-]*)\s*=\s*["']([^"']*)["']`)
)

// maxPending bounds the bytes a prefixSniffer holds while waiting for a
// newline.
const maxPending = 1 << 20

// prefixSniffer is an io.Writer that scans a document for namespace
// declarations as it streams past. It is fed through an io.TeeReader so
// the parser and the sniffer see the same bytes.
type prefixSniffer struct {
	re      *regexp.Regexp
	pending []byte
	found   rdf.PrefixMapping
}

func newPrefixSniffer(format Format) *prefixSniffer {
	s := &prefixSniffer{found: rdf.PrefixMapping{}}
	switch format {
	case FormatTurtle, FormatN3:
		s.re = turtlePrefixRe
	case FormatRDFXML:
		s.re = xmlnsRe
	}
	return s
}

func (s *prefixSniffer) Write(p []byte) (int, error) {
	if s.re == nil {
		return len(p), nil
	}
	s.pending = append(s.pending, p...)
	if i := bytes.LastIndexByte(s.pending, '\n'); i >= 0 {
		s.scan(s.pending[:i+1])
		s.pending = append(s.pending[:0], s.pending[i+1:]...)
	}
	if len(s.pending) > maxPending {
		// Keep a tail so a declaration split across writes is still seen.
		s.scan(s.pending)
		tail := s.pending[len(s.pending)-1024:]
		s.pending = append(s.pending[:0], tail...)
	}
	return len(p), nil
}

func (s *prefixSniffer) scan(b []byte) {
	for _, m := range s.re.FindAllSubmatch(b, -1) {
		s.found.Set(string(m[1]), string(m[2]))
	}
}

// Prefixes returns every declaration seen. Later declarations of the same
// prefix win.
func (s *prefixSniffer) Prefixes() rdf.PrefixMapping {
	if s.re != nil && len(s.pending) > 0 {
		s.scan(s.pending)
		s.pending = s.pending[:0]
	}
	return s.found
}
