// Package core holds the roster's business logic: the in-memory record
// store and the service the HTTP handlers and the CLI call into.
//
// The package has no transport dependencies. Handlers translate requests
// into [Service] calls and map errors to user messages with [MapError].
//
// # Record flow
//
// Records enter the store two ways:
//
//   - [Service.Submit] validates all seven fields and appends only a fully
//     valid record. Failures come back as [*FieldValidationError].
//   - [Service.Import] decodes a whole file with the codec chosen by its
//     extension and appends every decoded record. Decoding is
//     all-or-nothing. Imported records are not re-validated; the count of
//     records that would fail validation is reported in
//     [ImportResult.Invalid].
//
// [Service.Export] encodes a snapshot of the store. An empty store yields
// [ErrEmptyExport] and no file.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with codes:
//
//   - VAL001-VAL003: form validation
//   - IMP001-IMP004: import decoding and request lifecycle
//   - FILE001-FILE004: file size, type, encoding, missing file
//   - EXP001: empty export
package core
