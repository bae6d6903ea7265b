// Package apidoc describes the role form HTTP host as an OpenAPI 3 document
// built with kin-openapi. The payload schema follows the form, so the
// document changes with the loaded role dataset.
package apidoc
