// Package session binds a role form schema to its captured data. A Session
// serialises change events through the rule engine, runs the pre-submit hook
// on submit and keeps the last payload around for export. Manager indexes
// sessions by id for multi-form hosts.
package session
