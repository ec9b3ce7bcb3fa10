// Package manifest provides the canonical in-memory representation of
// Kubernetes objects used throughout patchform.
//
// Manifests are schema-free at this boundary: a manifest is a recursive tree
// of map[string]any nodes, []any sequences, and scalars, exactly as produced
// by YAML or JSON decoding. Only the transformer layer holds kind-specific
// field-path knowledge; everything else operates on the generic tree through
// the helpers in this package.
//
// Resources are read-only inputs. Helpers that derive new trees (DeepCopy,
// SetNested on a copy) never mutate the original manifest.
package manifest
