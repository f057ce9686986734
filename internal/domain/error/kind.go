// Package error defines domain-specific errors for the Finly application.
package error

import (
	"errors"
	"strings"
)

// Kind classifies a domain error independently of the domain that raised it.
type Kind string

const (
	KindValidation          Kind = "validation"
	KindNotFound            Kind = "not_found"
	KindConflict            Kind = "conflict"
	KindAuthorization       Kind = "authorization"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindEmptyResult         Kind = "empty_result"
	KindAuthentication      Kind = "authentication"
	KindInternal            Kind = "internal"
)

// KindedError is implemented by every typed domain error.
type KindedError interface {
	error
	Kind() Kind
	ErrorCode() string
	PublicMessage() string
}

// Error codes follow the format PREFIX-XXYYYY where XX selects the kind.
var kindsByCategory = map[string]Kind{
	"01": KindValidation,
	"02": KindNotFound,
	"03": KindConflict,
	"04": KindAuthorization,
	"05": KindUpstreamUnavailable,
	"06": KindEmptyResult,
	"07": KindAuthentication,
}

// kindFromCode derives the kind from the category digits of an error code.
func kindFromCode(code string) Kind {
	idx := strings.IndexByte(code, '-')
	if idx < 0 || len(code) < idx+3 {
		return KindInternal
	}
	if kind, ok := kindsByCategory[code[idx+1:idx+3]]; ok {
		return kind
	}
	return KindInternal
}

// KindOf returns the kind of the first typed domain error in err's chain,
// or KindInternal when there is none.
func KindOf(err error) Kind {
	var kinded KindedError
	if errors.As(err, &kinded) {
		return kinded.Kind()
	}
	return KindInternal
}

// CodeOf returns the machine-readable code of the first typed domain error in err's chain.
func CodeOf(err error) string {
	var kinded KindedError
	if errors.As(err, &kinded) {
		return kinded.ErrorCode()
	}
	return ""
}

// MessageOf returns the client-facing message of the first typed domain error
// in err's chain, or an empty string when there is none.
func MessageOf(err error) string {
	var kinded KindedError
	if errors.As(err, &kinded) {
		return kinded.PublicMessage()
	}
	return ""
}
