// Package orchestrator wires the loader, schema parser or OpenAPI importer,
// form construction and renderer registry into a single entry point.
package orchestrator
