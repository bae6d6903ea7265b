// Package render defines the contract shared by role form hosts: the Renderer
// interface, a name-keyed Registry, per-request RenderOptions and the go-theme
// resolution that turns a theme selection into renderer configuration.
package render
