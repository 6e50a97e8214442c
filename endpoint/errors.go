package endpoint

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is matching against the typed errors below.
var (
	// ErrDuplicateArgumentName is matched by *DuplicateArgumentNameError.
	ErrDuplicateArgumentName = errors.New("endpoint: duplicate argument name")
	// ErrInvalidDefinition is matched by *DefinitionError.
	ErrInvalidDefinition = errors.New("endpoint: invalid definition")
	// ErrMissingArgument is matched by *MissingArgumentError.
	ErrMissingArgument = errors.New("endpoint: missing argument")
	// ErrMissingTemplateArgument is matched by *MissingTemplateArgumentError.
	ErrMissingTemplateArgument = errors.New("endpoint: missing template argument")
	// ErrMissingBody is matched by *MissingBodyError.
	ErrMissingBody = errors.New("endpoint: missing body")
)

// DuplicateArgumentNameError reports an argument name declared by more than
// one source (path, query, header, body) of the same endpoint.
type DuplicateArgumentNameError struct {
	// Name is the colliding argument name.
	Name string
	// Sources lists where the name was declared, in declaration order.
	Sources []string
}

// Error implements the error interface.
func (e *DuplicateArgumentNameError) Error() string {
	return fmt.Sprintf("endpoint: argument %q is declared more than once (%s)",
		e.Name, strings.Join(e.Sources, ", "))
}

// Is reports whether target is ErrDuplicateArgumentName.
func (e *DuplicateArgumentNameError) Is(target error) bool {
	return target == ErrDuplicateArgumentName
}

// DefinitionError reports an endpoint or argument definition that can never
// be invoked correctly, such as a required argument with a default.
type DefinitionError struct {
	// Subject names the offending part ("arg limit", "path", "header Authorization").
	Subject string
	// Reason describes the problem.
	Reason string
}

// Error implements the error interface.
func (e *DefinitionError) Error() string {
	return fmt.Sprintf("endpoint: invalid %s: %s", e.Subject, e.Reason)
}

// Is reports whether target is ErrInvalidDefinition.
func (e *DefinitionError) Is(target error) bool {
	return target == ErrInvalidDefinition
}

// MissingArgumentError reports a required argument absent at call time.
type MissingArgumentError struct {
	Name string
}

// Error implements the error interface.
func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("endpoint: `%s` arg is required", e.Name)
}

// Is reports whether target is ErrMissingArgument.
func (e *MissingArgumentError) Is(target error) bool {
	return target == ErrMissingArgument
}

// MissingTemplateArgumentError reports a template placeholder with no value.
type MissingTemplateArgumentError struct {
	Name     string
	Template string
}

// Error implements the error interface.
func (e *MissingTemplateArgumentError) Error() string {
	return fmt.Sprintf("endpoint: no value for placeholder {%s} in template %q", e.Name, e.Template)
}

// Is reports whether target is ErrMissingTemplateArgument.
func (e *MissingTemplateArgumentError) Is(target error) bool {
	return target == ErrMissingTemplateArgument
}

// MissingBodyError reports a call without a body on an endpoint that requires one.
type MissingBodyError struct {
	// Arg is the name of the body argument the caller should have supplied.
	Arg string
}

// Error implements the error interface.
func (e *MissingBodyError) Error() string {
	return fmt.Sprintf("endpoint: request body is required (pass it as `%s`)", e.Arg)
}

// Is reports whether target is ErrMissingBody.
func (e *MissingBodyError) Is(target error) bool {
	return target == ErrMissingBody
}
