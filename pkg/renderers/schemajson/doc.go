// Package schemajson serializes role form schemas for renderers that live
// outside this module, such as a browser form library.
package schemajson
