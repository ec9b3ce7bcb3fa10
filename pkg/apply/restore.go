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

package apply

import (
	"context"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/NVIDIA/patchform/pkg/defaults"
	"github.com/NVIDIA/patchform/pkg/errors"
	"github.com/NVIDIA/patchform/pkg/manifest"
)

// serverPopulatedFields are metadata entries the API server owns. They must
// not be sent back on restore or the update is rejected or mis-versioned.
var serverPopulatedFields = []string{
	"resourceVersion",
	"uid",
	"generation",
	"creationTimestamp",
	"managedFields",
}

// Restore writes prior-manifest snapshots back to the cluster, undoing the
// patches that produced them. Snapshots are restored in order under the same
// rate limit as Apply. On failure the targets restored so far are returned
// with the error.
func (a *Applier) Restore(ctx context.Context, results []*Result) ([]manifest.Ref, error) {
	restored := make([]manifest.Ref, 0, len(results))
	for _, r := range results {
		if r == nil || len(r.Prior) == 0 {
			return restored, errors.New(errors.ErrCodeInvalidRequest, "restore record has no prior manifest")
		}
		if err := a.limiter.Wait(ctx); err != nil {
			return restored, errors.Wrap(errors.ErrCodeUnavailable, "rate limit wait interrupted", err)
		}

		if err := a.restoreOne(ctx, r); err != nil {
			return restored, err
		}

		a.logger.Info("restored resource", "target", r.Target.String())
		restored = append(restored, r.Target)
	}
	return restored, nil
}

// restoreOne updates one target back to its snapshotted manifest.
func (a *Applier) restoreOne(ctx context.Context, r *Result) error {
	ctx, cancel := context.WithTimeout(ctx, defaults.K8sPatchTimeout)
	defer cancel()

	ns := r.Target.Namespace
	if ns == "" {
		ns = "default"
	}

	prior := sanitizePrior(r.Prior)
	opts := metav1.UpdateOptions{}

	var err error
	switch r.Target.Kind {
	case "Deployment":
		var obj appsv1.Deployment
		if err = fromSnapshot(prior, &obj, r.Target); err == nil {
			_, err = a.client.AppsV1().Deployments(ns).Update(ctx, &obj, opts)
		}
	case "StatefulSet":
		var obj appsv1.StatefulSet
		if err = fromSnapshot(prior, &obj, r.Target); err == nil {
			_, err = a.client.AppsV1().StatefulSets(ns).Update(ctx, &obj, opts)
		}
	case "DaemonSet":
		var obj appsv1.DaemonSet
		if err = fromSnapshot(prior, &obj, r.Target); err == nil {
			_, err = a.client.AppsV1().DaemonSets(ns).Update(ctx, &obj, opts)
		}
	case "Pod":
		var obj corev1.Pod
		if err = fromSnapshot(prior, &obj, r.Target); err == nil {
			_, err = a.client.CoreV1().Pods(ns).Update(ctx, &obj, opts)
		}
	case "Service":
		var obj corev1.Service
		if err = fromSnapshot(prior, &obj, r.Target); err == nil {
			_, err = a.client.CoreV1().Services(ns).Update(ctx, &obj, opts)
		}
	case "ConfigMap":
		var obj corev1.ConfigMap
		if err = fromSnapshot(prior, &obj, r.Target); err == nil {
			_, err = a.client.CoreV1().ConfigMaps(ns).Update(ctx, &obj, opts)
		}
	default:
		return errors.NewWithContext(errors.ErrCodeUnsupportedKind,
			"cannot restore kind "+r.Target.Kind,
			map[string]any{"kind": r.Target.Kind})
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnavailable, "failed to restore "+r.Target.String(), err)
	}
	return nil
}

// sanitizePrior returns a copy of the snapshot with server-populated
// metadata and status removed.
func sanitizePrior(prior map[string]any) map[string]any {
	out := make(map[string]any, len(prior))
	for k, v := range prior {
		if k == "status" {
			continue
		}
		out[k] = v
	}

	if md, ok := out["metadata"].(map[string]any); ok {
		clean := make(map[string]any, len(md))
		for k, v := range md {
			clean[k] = v
		}
		for _, field := range serverPopulatedFields {
			delete(clean, field)
		}
		out["metadata"] = clean
	}
	return out
}

func fromSnapshot(prior map[string]any, obj any, target manifest.Ref) error {
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(prior, obj); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to decode prior manifest for "+target.String(), err)
	}
	return nil
}
