package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/roach88/rdfkit/internal/graph"
)

// HTTPError represents a non-2xx HTTP response returned by the remote service.
type HTTPError struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, string(e.Body))
}

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 4096

func handleError(host string, resp *http.Response) error {
	defer closeBody(resp.Body)
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return networkError(host, err)
	}
	httpErr := &HTTPError{
		StatusCode: resp.StatusCode,
		Body:       body,
		Header:     resp.Header.Clone(),
	}
	return graph.NewError(graph.ErrCodeIO, fmt.Sprintf("request to %s failed with status %d", host, resp.StatusCode), httpErr)
}

// networkError maps a transport failure. Context cancellation is passed
// through unchanged.
func networkError(host string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return graph.NewError(graph.ErrCodeNetwork, "Unknown or unresponsive host: "+host, err)
}

func closeBody(rc io.ReadCloser) {
	if rc != nil {
		_ = rc.Close()
	}
}
