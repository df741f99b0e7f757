package codec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	krdf "github.com/knakk/rdf"

	"github.com/roach88/rdfkit/internal/graph"
	"github.com/roach88/rdfkit/internal/rdf"
)

// DefaultBatchSize is the number of triples committed per Model.Add call.
const DefaultBatchSize = 512

// ImportResult summarizes one import.
type ImportResult struct {
	// Parsed is the number of triples read from the document.
	Parsed int
	// Added is the number of those triples that were new to the model.
	Added int
	// Prefixes holds the namespace declarations found in the document.
	Prefixes rdf.PrefixMapping
}

// Importer parses documents into a graph.Model.
type Importer struct {
	blankGen  rdf.BlankGenerator
	batchSize int
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithBlankGenerator sets the source of fresh blank node labels.
func WithBlankGenerator(gen rdf.BlankGenerator) ImporterOption {
	return func(im *Importer) {
		im.blankGen = gen
	}
}

// WithBatchSize sets how many triples are committed per Model.Add call.
func WithBatchSize(n int) ImporterOption {
	return func(im *Importer) {
		if n > 0 {
			im.batchSize = n
		}
	}
}

// NewImporter creates an Importer. Blank labels default to UUIDGenerator.
func NewImporter(opts ...ImporterOption) *Importer {
	im := &Importer{
		blankGen:  rdf.UUIDGenerator{},
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Import reads r in the given format and adds its triples to model.
//
// Triples are committed in batches as they are parsed. On a parse error
// the batches committed so far stay in the model. Namespace declarations
// are recorded only when the whole document parsed.
//
// Errors are *graph.Error: MALFORMED_INPUT for content that does not
// parse, IO_ERROR when the model rejects a batch or r fails. A failure of
// r that already carries an error code keeps it.
func (im *Importer) Import(ctx context.Context, model graph.Model, r io.Reader, format Format) (ImportResult, error) {
	res := ImportResult{Prefixes: rdf.PrefixMapping{}}

	kf, ok := decoderFormat(format)
	if !ok {
		return res, graph.NewError(graph.ErrCodeUnsupportedFormat, unsupportedImportMessage, nil)
	}

	sniffer := newPrefixSniffer(format)
	root := &rootWatcher{}
	src := &recordingReader{r: r}
	dec := krdf.NewTripleDecoder(io.TeeReader(src, io.MultiWriter(sniffer, root)), kf)
	relabel := rdf.NewRelabeler(im.blankGen)

	finished := false
	defer func() {
		if !finished {
			drain(dec, format)
		}
	}()

	batch := make([]rdf.Triple, 0, im.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := model.Add(ctx, batch)
		res.Added += n
		batch = batch[:0]
		if err != nil {
			return graph.NewError(graph.ErrCodeIO, "could not store triples", err)
		}
		return nil
	}

	for {
		kt, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			finished = true
			if src.err != nil {
				if ferr := flush(); ferr != nil {
					return res, ferr
				}
				return res, readError(src.err)
			}
			if format == FormatRDFXML && !root.seen {
				return res, parseError(format, errNoRootElement)
			}
			break
		}
		if err != nil {
			if ferr := flush(); ferr != nil {
				return res, ferr
			}
			if src.err != nil {
				return res, readError(src.err)
			}
			return res, parseError(format, err)
		}

		t, err := convertTriple(kt, relabel)
		if err != nil {
			if ferr := flush(); ferr != nil {
				return res, ferr
			}
			return res, parseError(format, err)
		}
		batch = append(batch, t)
		res.Parsed++

		if len(batch) >= im.batchSize {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			if err := flush(); err != nil {
				return res, err
			}
		}
	}
	if err := flush(); err != nil {
		return res, err
	}

	res.Prefixes = sniffer.Prefixes()
	if len(res.Prefixes) > 0 {
		if err := model.AddNamespaces(ctx, res.Prefixes); err != nil {
			return res, graph.NewError(graph.ErrCodeIO, "could not store namespaces", err)
		}
	}
	return res, nil
}

func decoderFormat(f Format) (krdf.Format, bool) {
	switch f {
	case FormatRDFXML:
		return krdf.RDFXML, true
	case FormatNTriple:
		return krdf.NTriples, true
	case FormatTurtle, FormatN3:
		return krdf.Turtle, true
	}
	return 0, false
}

var errNoRootElement = errors.New("no root element")

// parseError maps a decoder failure onto the error reported to callers.
// Turtle-grammar failures carry the parser message in the text and no
// separate cause.
func parseError(format Format, err error) *graph.Error {
	switch format {
	case FormatTurtle, FormatN3:
		return graph.NewError(graph.ErrCodeMalformedInput, "Error while parsing file: "+err.Error(), nil)
	default:
		return graph.NewError(graph.ErrCodeMalformedInput, "File format is not correct.", err)
	}
}

func readError(err error) error {
	if graph.CodeOf(err) != "" {
		return err
	}
	return graph.NewError(graph.ErrCodeIO, "could not read document", err)
}

// drain runs dec to the end of its input. The N-Triples and Turtle
// decoders lex on a goroutine that only exits once every token has been
// consumed. The RDF/XML decoder has no such goroutine, and its XML syntax
// errors repeat forever.
func drain(dec krdf.TripleDecoder, format Format) {
	if format == FormatRDFXML {
		return
	}
	for {
		if _, err := dec.Decode(); errors.Is(err, io.EOF) {
			return
		}
	}
}

// rootWatcher records whether an element start tag has streamed past.
// An RDF/XML document without one has no content to parse.
type rootWatcher struct {
	afterLT bool
	seen    bool
}

func (w *rootWatcher) Write(p []byte) (int, error) {
	if w.seen {
		return len(p), nil
	}
	for _, b := range p {
		if w.afterLT && isNameStart(b) {
			w.seen = true
			break
		}
		w.afterLT = b == '<'
	}
	return len(p), nil
}

// isNameStart reports whether b can open an XML name. Bytes of multi-byte
// UTF-8 sequences are accepted.
func isNameStart(b byte) bool {
	return b == '_' || b == ':' || b >= 0x80 ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// recordingReader remembers the first non-EOF error of r, so a failing
// source is not reported as malformed content.
type recordingReader struct {
	r   io.Reader
	err error
}

func (rr *recordingReader) Read(p []byte) (int, error) {
	n, err := rr.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && rr.err == nil {
		rr.err = err
	}
	return n, err
}

func convertTriple(kt krdf.Triple, relabel *rdf.Relabeler) (rdf.Triple, error) {
	s, err := convertTerm(kt.Subj, relabel)
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("subject: %w", err)
	}
	p, ok := kt.Pred.(krdf.IRI)
	if !ok {
		return rdf.Triple{}, fmt.Errorf("predicate %v is not an IRI", kt.Pred)
	}
	o, err := convertTerm(kt.Obj, relabel)
	if err != nil {
		return rdf.Triple{}, fmt.Errorf("object: %w", err)
	}

	t := rdf.CanonicalTriple(rdf.Triple{S: s, P: rdf.IRI(p.String()), O: o})
	if err := t.Validate(); err != nil {
		return rdf.Triple{}, err
	}
	return t, nil
}

func convertTerm(term krdf.Term, relabel *rdf.Relabeler) (rdf.Term, error) {
	switch v := term.(type) {
	case krdf.IRI:
		return rdf.IRI(v.String()), nil
	case krdf.Blank:
		return relabel.Blank(strings.TrimPrefix(v.String(), "_:")), nil
	case krdf.Literal:
		if lang := v.Lang(); lang != "" {
			return rdf.NewLangLiteral(v.String(), lang), nil
		}
		return rdf.NewTypedLiteral(v.String(), rdf.IRI(v.DataType.String())), nil
	case nil:
		return nil, errors.New("missing term")
	}
	return nil, fmt.Errorf("unsupported term %T", term)
}
