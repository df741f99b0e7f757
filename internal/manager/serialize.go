package manager

import (
	"bytes"
	"context"
	"strings"

	"github.com/roach88/rdfkit/internal/codec"
	"github.com/roach88/rdfkit/internal/graph"
)

// Serialize renders the content of s as N3 or TURTLE.
func (m *Manager) Serialize(ctx context.Context, s graph.Store, format string) (string, error) {
	var buf bytes.Buffer
	if err := m.serializeTo(ctx, &buf, s, format); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// AsTurtle renders the content of s as Turtle.
func (m *Manager) AsTurtle(ctx context.Context, s graph.Store) (string, error) {
	return m.Serialize(ctx, s, string(codec.FormatTurtle))
}

// AsN3 renders the content of s as N3.
func (m *Manager) AsN3(ctx context.Context, s graph.Store) (string, error) {
	return m.Serialize(ctx, s, string(codec.FormatN3))
}

// ExportToObject serializes s and stores the text at an s3://bucket/key
// location.
func (m *Manager) ExportToObject(ctx context.Context, s graph.Store, format, location string) error {
	loc, err := m.objectLocation(location)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := m.serializeTo(ctx, &buf, s, format); err != nil {
		return err
	}
	contentType := "text/turtle"
	if strings.EqualFold(format, string(codec.FormatN3)) {
		contentType = "text/n3"
	}
	return m.objects.Put(ctx, loc, &buf, int64(buf.Len()), contentType)
}

func (m *Manager) serializeTo(ctx context.Context, buf *bytes.Buffer, s graph.Store, format string) error {
	model, err := native(s, msgSerializeNative)
	if err != nil {
		return err
	}
	f, err := codec.ParseExportFormat(format)
	if err != nil {
		return err
	}
	if err := codec.Serialize(ctx, buf, model, f); err != nil {
		return err
	}
	m.logger.Debug("store serialized", "format", f, "bytes", buf.Len())
	return nil
}
