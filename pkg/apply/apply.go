// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package apply sends consolidated patches to a live cluster as strategic
// merge patch calls, one per target. Calls are rate limited to avoid
// hammering the API server on wide selectors, and each applied target's
// prior manifest is snapshotted so callers can implement undo.
package apply

import (
	"context"
	"encoding/json"
	"log/slog"

	"golang.org/x/time/rate"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"

	"github.com/NVIDIA/patchform/pkg/defaults"
	"github.com/NVIDIA/patchform/pkg/errors"
	"github.com/NVIDIA/patchform/pkg/k8s/client"
	"github.com/NVIDIA/patchform/pkg/manifest"
	"github.com/NVIDIA/patchform/pkg/merge"
)

// default API call budget: sustained 10 patches/s with small bursts.
const (
	defaultRate  = rate.Limit(10)
	defaultBurst = 3
)

// Result records one applied target and its manifest before the patch, the
// snapshot an undo needs.
type Result struct {
	Target manifest.Ref   `json:"target"`
	Prior  map[string]any `json:"prior"`
}

// Applier patches live cluster objects.
type Applier struct {
	client  client.Interface
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Option configures an Applier.
type Option func(*Applier)

// WithRateLimit overrides the default API call rate.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(a *Applier) {
		a.limiter = rate.NewLimiter(r, burst)
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Applier) {
		a.logger = logger
	}
}

// New creates an Applier over the given Kubernetes client.
func New(c client.Interface, opts ...Option) *Applier {
	a := &Applier{
		client:  c,
		limiter: rate.NewLimiter(defaultRate, defaultBurst),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply patches every target in order, returning prior-manifest snapshots
// for the targets that were applied. On failure the snapshots applied so
// far are returned with the error, so a caller can still roll back.
func (a *Applier) Apply(ctx context.Context, patches []*merge.ConsolidatedPatch) ([]*Result, error) {
	results := make([]*Result, 0, len(patches))
	for _, p := range patches {
		if err := a.limiter.Wait(ctx); err != nil {
			return results, errors.Wrap(errors.ErrCodeUnavailable, "rate limit wait interrupted", err)
		}

		prior, err := a.patchOne(ctx, p)
		if err != nil {
			return results, err
		}

		a.logger.Info("patched resource", "target", p.Target.String())
		results = append(results, &Result{Target: p.Target, Prior: prior})
	}
	return results, nil
}

// patchOne snapshots the target's current manifest, then issues the
// strategic merge patch call for its kind.
func (a *Applier) patchOne(ctx context.Context, p *merge.ConsolidatedPatch) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.K8sPatchTimeout)
	defer cancel()

	ns := p.Target.Namespace
	if ns == "" {
		ns = "default"
	}
	name := p.Target.Name

	data, err := json.Marshal(p.Content)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to encode patch for "+p.Target.String(), err)
	}

	pt := types.StrategicMergePatchType
	opts := metav1.PatchOptions{}

	var prior any
	switch p.Target.Kind {
	case "Deployment":
		prior, err = a.client.AppsV1().Deployments(ns).Get(ctx, name, metav1.GetOptions{})
		if err == nil {
			_, err = a.client.AppsV1().Deployments(ns).Patch(ctx, name, pt, data, opts)
		}
	case "StatefulSet":
		prior, err = a.client.AppsV1().StatefulSets(ns).Get(ctx, name, metav1.GetOptions{})
		if err == nil {
			_, err = a.client.AppsV1().StatefulSets(ns).Patch(ctx, name, pt, data, opts)
		}
	case "DaemonSet":
		prior, err = a.client.AppsV1().DaemonSets(ns).Get(ctx, name, metav1.GetOptions{})
		if err == nil {
			_, err = a.client.AppsV1().DaemonSets(ns).Patch(ctx, name, pt, data, opts)
		}
	case "Pod":
		prior, err = a.client.CoreV1().Pods(ns).Get(ctx, name, metav1.GetOptions{})
		if err == nil {
			_, err = a.client.CoreV1().Pods(ns).Patch(ctx, name, pt, data, opts)
		}
	case "Service":
		prior, err = a.client.CoreV1().Services(ns).Get(ctx, name, metav1.GetOptions{})
		if err == nil {
			_, err = a.client.CoreV1().Services(ns).Patch(ctx, name, pt, data, opts)
		}
	case "ConfigMap":
		prior, err = a.client.CoreV1().ConfigMaps(ns).Get(ctx, name, metav1.GetOptions{})
		if err == nil {
			_, err = a.client.CoreV1().ConfigMaps(ns).Patch(ctx, name, pt, data, opts)
		}
	default:
		return nil, errors.NewWithContext(errors.ErrCodeUnsupportedKind,
			"cannot apply patch for kind "+p.Target.Kind,
			map[string]any{"kind": p.Target.Kind})
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to patch "+p.Target.String(), err)
	}

	snapshot, err := runtime.DefaultUnstructuredConverter.ToUnstructured(prior)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to snapshot prior manifest for "+p.Target.String(), err)
	}
	return snapshot, nil
}
