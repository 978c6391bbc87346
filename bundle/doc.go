// Package bundle resolves URIs to resource bundles.
//
// A bundle is a zip archive. Resolving one validates the archive, lists its
// files, and computes its sha256 digest. A URI may pin the expected digest in
// its fragment:
//
//	https://example.com/packs/ocean.zip#sha256:9f86d081...
//
// [FileResolver] and [HTTPResolver] read local and remote archives, and a
// [Mux] selects between resolvers by URI scheme.
package bundle
