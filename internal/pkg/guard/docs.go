// Package guard provides ConstructorGuard, a marker embedded in value objects,
// commands and queries so that zero values created without their constructor
// fail validation.
package guard
