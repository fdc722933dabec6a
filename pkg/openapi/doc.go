// Package openapi builds dynamic form schemas from OpenAPI documents. A form
// can come from a component schema or from the JSON request body of an
// operation. Only flat object schemas map to forms: nested objects and arrays
// are skipped.
package openapi
