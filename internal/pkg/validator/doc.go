// Package validator provides a small validation abstraction for request and
// domain structs.
//
// Business code depends on the Validator interface. The go-playground/validator
// v10 implementation reports failures keyed by the struct's json field names so
// they line up with the payload the client sent.
package validator
