/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the patchform command-line interface.
//
// # Overview
//
// patchform turns a natural-language change request into strategic merge
// patches for Kubernetes resources, then previews, exports, or applies
// them. Targets are discovered from manifest files on disk or from a live
// cluster.
//
// # Commands
//
// preview - Show the effect of a request without changing anything:
//
//	patchform preview --manifests ./deploy "add memory limit 512Mi to all deployments"
//
// Renders a before/after diff per matched resource, followed by the patch
// document that produces it.
//
// export - Write the patches as a Kustomize overlay:
//
//	patchform export --manifests ./deploy --out ./overlay "add label env=prod to all services"
//
// Produces a kustomization.yaml index plus one patch file per target, with
// deterministic file names, ready for kubectl kustomize.
//
// apply - Patch the live cluster:
//
//	patchform apply --undo-file prior.yaml "scale deployment web to 5 replicas"
//
// Issues one strategic merge patch call per target against the current
// kube context and records each target's prior manifest for undo.
//
// undo - Revert an earlier apply:
//
//	patchform undo prior.yaml
//
// Reads the prior-manifest snapshots written by "apply --undo-file" and
// writes them back to the cluster.
//
// # Target Discovery
//
//	--manifests, -m   Manifest files or directories (repeatable). When set,
//	                  targets come from disk and the cluster is not touched.
//	--kubeconfig      Kubeconfig path for cluster discovery (default: standard
//	                  discovery via KUBECONFIG, ~/.kube/config, in-cluster).
//
// # Environment Variables
//
//	LOG_LEVEL   Set logging verbosity (debug, info, warn, error)
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/patchform/pkg/cli.version=1.0.0'"
package cli
