// Package pages holds the example forms served by the playground. Every page
// expects to run behind playground.Middleware and reads the per-request
// harness from the context.
package pages
