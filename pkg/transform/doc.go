// Package transform turns (intent, target resource) pairs into strategic
// merge patch fragments.
//
// Each transformer encodes kind-specific structural knowledge and nothing
// else: the workload transformer knows that Deployments, StatefulSets, and
// DaemonSets wrap a pod template (so container and pod fields live under
// spec.template.spec), the pod transformer writes the same fields at the
// resource root, and the service transformer owns selector and port shapes.
//
// Transformers are registered by kind in a Registry; adding support for a new
// kind means registering a new entry, not modifying a dispatcher. Transformers
// are pure functions of their inputs with no shared mutable state, so fragment
// generation may run in parallel across (intent, target) pairs.
//
// Container-targeted actions (image, resources, probes) require an
// unambiguous container: an explicit hint wins, a single-container workload
// needs none, and a multi-container workload without a hint fails rather than
// guessing. Silently picking the first container is an unsafe default for a
// tool that can mutate production workloads.
package transform
