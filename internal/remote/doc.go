// Package remote is the HTTP transport of rdfkit.
//
// Two kinds of request are made:
//
//   - Fetch downloads an RDF document for URL import. It applies both the
//     connect timeout (to dialing) and the read timeout (to every read of
//     the connection, so a stalled body is cut off).
//   - Select runs a SPARQL SELECT query against an endpoint using the
//     SPARQL protocol. The connect timeout bounds dialing and is also sent
//     to the service as the timeout parameter, in milliseconds. No read
//     timeout is applied to the response.
//
// Transport failures (unresolvable host, refused connection, timeouts)
// are reported as NETWORK_ERROR naming the host. Non-2xx responses are
// reported as IO_ERROR wrapping an *HTTPError. Nothing is retried.
package remote
