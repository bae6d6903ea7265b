// Package rules implements the reactive rule engine for role forms. Select
// changes show or hide checkbox/textfield pairs and recompute the submit
// button; checkbox changes flip the paired textfield only. The submit button
// is derived from checkbox visibility, not checked state, and is not
// recomputed on checkbox changes.
package rules
