package manager

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/roach88/rdfkit/internal/codec"
	"github.com/roach88/rdfkit/internal/graph"
	"github.com/roach88/rdfkit/internal/objstore"
)

// ImportFromStream parses r in the named format into s. An empty format
// selects RDF/XML.
//
// Triples parsed before a failure may already be committed.
func (m *Manager) ImportFromStream(ctx context.Context, s graph.Store, r io.Reader, format string) (codec.ImportResult, error) {
	model, err := native(s, msgNativeOnly)
	if err != nil {
		return codec.ImportResult{}, err
	}
	f, err := codec.ParseFormat(format)
	if err != nil {
		return codec.ImportResult{}, err
	}

	start := time.Now()
	res, err := m.importer.Import(ctx, model, r, f)
	if err != nil {
		m.logger.Debug("import failed", "format", f, "parsed", res.Parsed, "error", err)
		return res, err
	}

	size, err := model.Size(ctx)
	if err != nil {
		return res, graph.NewError(graph.ErrCodeIO, "could not count triples", err)
	}
	m.logger.Info("import finished",
		"format", f,
		"parsed", res.Parsed,
		"added", res.Added,
		"size", size,
		"elapsed", time.Since(start),
	)
	return res, nil
}

// ImportFromString imports content in the named format.
func (m *Manager) ImportFromString(ctx context.Context, s graph.Store, content, format string) (codec.ImportResult, error) {
	return m.ImportFromStream(ctx, s, strings.NewReader(content), format)
}

// ImportFromFile imports the file at path, resolved against the manager
// root when relative.
func (m *Manager) ImportFromFile(ctx context.Context, s graph.Store, path, format string) (codec.ImportResult, error) {
	if _, err := native(s, msgNativeOnly); err != nil {
		return codec.ImportResult{}, err
	}
	f, err := os.Open(m.resolve(path))
	if err != nil {
		return codec.ImportResult{}, graph.NewError(graph.ErrCodeIO, "could not open "+path, err)
	}
	defer f.Close()
	return m.ImportFromStream(ctx, s, f, format)
}

// ImportURL imports the RDF/XML document at url.
func (m *Manager) ImportURL(ctx context.Context, s graph.Store, url string) (codec.ImportResult, error) {
	return m.ImportURLWithHeaders(ctx, s, url, nil)
}

// ImportURLWithHeaders imports the RDF/XML document at url, sending
// headers after the default Accept header.
func (m *Manager) ImportURLWithHeaders(ctx context.Context, s graph.Store, url string, headers map[string]string) (codec.ImportResult, error) {
	if _, err := native(s, msgNativeOnly); err != nil {
		return codec.ImportResult{}, err
	}
	resp, err := m.remote.Fetch(ctx, url, headers)
	if err != nil {
		return codec.ImportResult{}, err
	}
	defer resp.Close()
	return m.ImportFromStream(ctx, s, resp.Body, "")
}

// ImportFromObject imports the object at an s3://bucket/key location.
func (m *Manager) ImportFromObject(ctx context.Context, s graph.Store, location, format string) (codec.ImportResult, error) {
	if _, err := native(s, msgNativeOnly); err != nil {
		return codec.ImportResult{}, err
	}
	loc, err := m.objectLocation(location)
	if err != nil {
		return codec.ImportResult{}, err
	}
	body, err := m.objects.Open(ctx, loc)
	if err != nil {
		return codec.ImportResult{}, err
	}
	defer body.Close()
	return m.ImportFromStream(ctx, s, body, format)
}

func (m *Manager) objectLocation(location string) (objstore.Location, error) {
	if m.objects == nil {
		return objstore.Location{}, graph.NewError(graph.ErrCodeIO, "object store is not configured", nil)
	}
	loc, err := objstore.ParseLocation(location)
	if err != nil {
		return objstore.Location{}, graph.NewError(graph.ErrCodeIO, err.Error(), err)
	}
	return loc, nil
}
