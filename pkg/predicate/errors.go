package predicate

import "errors"

// ErrAttrMissing is returned (wrapped with context) when FilterByAttr
// is asked to read a non-special attribute a node does not carry. This
// is an InputError-class condition: a property should not be penalised
// for bad upstream data.
var ErrAttrMissing = errors.New("predicate: node missing required attribute")

// ErrFilterTypeMismatch is returned (wrapped with context) when a
// string filter is applied to a non-string attribute value, or a
// numeric filter to a non-numeric one. Also InputError-class.
var ErrFilterTypeMismatch = errors.New("predicate: attribute type does not match filter kind")

// ErrMalformedTerm is returned when a Term's operand evaluates to a
// Kind incompatible with the operator (e.g. comparing a set where an
// int was expected). This indicates a badly constructed predicate, not
// a runtime data condition, it is the predicate-package analogue of
// MalformedProperty.
var ErrMalformedTerm = errors.New("predicate: malformed term")
