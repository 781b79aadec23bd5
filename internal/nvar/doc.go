// Package nvar binds the NVIDIA AR SDK shared library.
//
// The SDK is loaded at runtime; no headers or import libraries are needed at
// build time. Open locates the library, resolves every entry point by symbol
// name and exposes them as typed func fields on Library. Calls are forwarded
// unchanged and return the SDK status code untouched.
//
// Binding checks symbol names only. A library exporting a matching name
// with a different signature is not detected and will misbehave at call time.
package nvar
