// Package errors provides structured error types shared across patchform.
//
// Every fatal condition in the patch pipeline carries an ErrorCode so callers
// can branch on failure class without string matching:
//
//	if errors.IsCode(err, errors.ErrCodeAmbiguousContainer) {
//	    // ask the user to name a container
//	}
//
// Fatal errors abort the whole request before any patch is emitted. Zero-target
// conditions are not errors; they are surfaced as warnings by the pipeline.
package errors
