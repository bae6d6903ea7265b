// Package export serialises captured form data into the data.json artifact,
// either as an HTTP attachment, a file on disk, or a raw stream.
package export
