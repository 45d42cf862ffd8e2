// Package crate implements the statement-compilation core of a CrateDB
// client adapter: it translates abstract INSERT/UPDATE statement
// descriptors into the SQL dialect accepted by CrateDB.
//
// The compilation entry points live in the dialect/sql sub-package; this
// package defines the error taxonomy shared across the adapter. All
// compilation errors are raised synchronously at compile time and are
// non-retryable: the caller must fix the statement or parameters and
// compile again. No partial SQL text is ever returned alongside an error.
package crate

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for the compilation error classes.
var (
	// ErrUnsupportedFeature is returned when a statement requests a feature
	// the configured server version or dialect capabilities cannot express.
	ErrUnsupportedFeature = errors.New("crate: unsupported feature")

	// ErrConfiguration is returned when a statement is malformed in a way
	// that no parameter binding can fix, such as parameter keys that do not
	// map to any declared or table column.
	ErrConfiguration = errors.New("crate: configuration error")

	// ErrMissingRequiredValue is returned when a column marked required by
	// the parameter resolver has no bound replacement by render time.
	ErrMissingRequiredValue = errors.New("crate: missing required value")
)

// UnsupportedFeatureError reports a statement/capability mismatch. When the
// feature is gated on a minimum server version, MinVersion names it so
// callers can branch on the engine version.
type UnsupportedFeatureError struct {
	Feature    string
	MinVersion string
}

// Error returns the error string.
func (e *UnsupportedFeatureError) Error() string {
	if e.MinVersion != "" {
		return fmt.Sprintf("crate: %s requires server version >= %s", e.Feature, e.MinVersion)
	}
	return fmt.Sprintf("crate: %s is not supported", e.Feature)
}

// Is reports whether the target error matches UnsupportedFeatureError.
// This allows errors.Is(err, ErrUnsupportedFeature) to return true.
func (e *UnsupportedFeatureError) Is(err error) bool {
	return err == ErrUnsupportedFeature
}

// NewUnsupportedFeatureError returns a new UnsupportedFeatureError for the
// named feature.
func NewUnsupportedFeatureError(feature string) *UnsupportedFeatureError {
	return &UnsupportedFeatureError{Feature: feature}
}

// NewVersionGatedError returns an UnsupportedFeatureError carrying the
// minimum server version that provides the feature.
func NewVersionGatedError(feature, minVersion string) *UnsupportedFeatureError {
	return &UnsupportedFeatureError{Feature: feature, MinVersion: minVersion}
}

// IsUnsupportedFeature returns true if the error is an UnsupportedFeatureError.
func IsUnsupportedFeature(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedFeatureError
	return errors.As(err, &e) || errors.Is(err, ErrUnsupportedFeature)
}

// ConfigurationError reports a statement that cannot be compiled regardless
// of the bound parameter values.
type ConfigurationError struct {
	msg string
}

// Error returns the error string.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("crate: %s", e.msg)
}

// Is reports whether the target error matches ConfigurationError.
func (e *ConfigurationError) Is(err error) bool {
	return err == ErrConfiguration
}

// NewConfigurationError returns a new ConfigurationError with the given message.
func NewConfigurationError(msg string) *ConfigurationError {
	return &ConfigurationError{msg: msg}
}

// NewUnconsumedColumnsError returns the ConfigurationError raised when
// explicit statement parameter keys cannot be mapped to any declared or
// table column.
func NewUnconsumedColumnsError(columns []string) *ConfigurationError {
	return &ConfigurationError{
		msg: fmt.Sprintf("unconsumed column names: %s", strings.Join(columns, ", ")),
	}
}

// IsConfigurationError returns true if the error is a ConfigurationError.
func IsConfigurationError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigurationError
	return errors.As(err, &e) || errors.Is(err, ErrConfiguration)
}

// MissingRequiredValueError reports a required column that reached render
// time without a bound value or a resolvable default.
type MissingRequiredValueError struct {
	Column string
}

// Error returns the error string.
func (e *MissingRequiredValueError) Error() string {
	return fmt.Sprintf("crate: missing required value for column %q", e.Column)
}

// Is reports whether the target error matches MissingRequiredValueError.
func (e *MissingRequiredValueError) Is(err error) bool {
	return err == ErrMissingRequiredValue
}

// NewMissingRequiredValueError returns a new MissingRequiredValueError for
// the given column.
func NewMissingRequiredValueError(column string) *MissingRequiredValueError {
	return &MissingRequiredValueError{Column: column}
}

// IsMissingRequiredValue returns true if the error is a MissingRequiredValueError.
func IsMissingRequiredValue(err error) bool {
	if err == nil {
		return false
	}
	var e *MissingRequiredValueError
	return errors.As(err, &e) || errors.Is(err, ErrMissingRequiredValue)
}
