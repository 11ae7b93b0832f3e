package validator

// Validator validates structs annotated with `validate` tags.
type Validator interface {
	// Validate returns nil when data is valid, a V10ValidationError when one or
	// more fields fail, or another error when data cannot be validated at all.
	Validate(data any) error
}
