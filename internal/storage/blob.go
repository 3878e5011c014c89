package storage

import "io"

// BlobStore holds generated documents so export history can re-serve them.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
}
