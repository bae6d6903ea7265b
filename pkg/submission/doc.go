// Package submission rewrites captured role form data into the outgoing
// payload and defines the synchronous pre-submit hook contract hosts use to
// run it.
package submission
