// Package core provides the business logic for splitting tabular files.
//
// This package contains the domain logic independent of any UI or transport
// layer. It can be used by web handlers, CLI tools, or tests without
// modification.
//
// # Splitting
//
// [Service.Split] runs one split operation end to end:
//
//  1. The file name is checked: only .xlsx and .csv are accepted, and the
//     part count must be a positive integer no larger than the configured
//     maximum.
//  2. The bytes are decoded into a header-first table by the codec for the
//     file's format.
//  3. [Partition] cuts the data rows into the requested number of parts.
//     Chunks are ceil(rows/parts) long, so earlier parts absorb the
//     remainder and trailing parts may be empty. Every part repeats the
//     header.
//  4. Each part is encoded back into the source format and named
//     "<base>_PartNN.<ext>".
//
// The result is kept in memory for later download. A new split by the same
// owner replaces the previous one; results also expire after a TTL.
//
// # Archives
//
// The zip archive "<base>_split.zip" is built only when first requested,
// via [SplitResult.Archive], and then reused.
//
// # Error Handling
//
// Every error returned by Split wraps one of [ErrInvalidInput],
// [ErrDecodeFailure] or [ErrEncodingFailure]. Technical errors are mapped to
// user-friendly messages with support codes by [MapError].
//
// # History
//
// When a database is configured, completed splits are recorded in the
// split_history table and pruned after the retention period.
package core
