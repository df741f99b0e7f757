package rdf

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainTriple is the domain prefix for triple identity hashes.
// The version suffix enables future algorithm migration.
const DomainTriple = "rdfkit/triple/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// TripleID computes the content-addressed identity of a triple.
// Stores use it to give triples set semantics.
func TripleID(t Triple) string {
	return hashWithDomain(DomainTriple, []byte(t.String()))
}
