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

package scanner

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/NVIDIA/patchform/pkg/defaults"
	perrors "github.com/NVIDIA/patchform/pkg/errors"
	"github.com/NVIDIA/patchform/pkg/k8s/client"
	"github.com/NVIDIA/patchform/pkg/manifest"
)

// ClusterScanner lists live resources through the Kubernetes API. Typed
// list calls keep RBAC requirements narrow; results are converted to the
// untyped resource model the pipeline works with.
type ClusterScanner struct {
	client client.Interface
}

// NewClusterScanner creates a scanner over the given Kubernetes client.
func NewClusterScanner(c client.Interface) *ClusterScanner {
	return &ClusterScanner{client: c}
}

// List fetches the current objects of the requested kind. An empty
// namespace lists across all namespaces. An empty kind is rejected here,
// unlike the file scanner, because listing every kind cluster-wide is never
// what a patch request needs.
func (s *ClusterScanner) List(ctx context.Context, kind, namespace string) ([]*manifest.Resource, error) {
	canonical, ok := CanonicalKind(kind)
	if !ok {
		return nil, perrors.NewWithContext(perrors.ErrCodeUnsupportedKind,
			"cannot scan cluster for kind "+kind,
			map[string]any{"kind": kind, "supported": SupportedKinds()})
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.K8sListTimeout)
	defer cancel()

	opts := metav1.ListOptions{}
	var out []*manifest.Resource

	switch canonical {
	case "Deployment":
		list, err := s.client.AppsV1().Deployments(namespace).List(ctx, opts)
		if err != nil {
			return nil, listErr(canonical, err)
		}
		for i := range list.Items {
			if out, err = appendTyped(out, &list.Items[i], "apps/v1", canonical); err != nil {
				return nil, err
			}
		}
	case "StatefulSet":
		list, err := s.client.AppsV1().StatefulSets(namespace).List(ctx, opts)
		if err != nil {
			return nil, listErr(canonical, err)
		}
		for i := range list.Items {
			if out, err = appendTyped(out, &list.Items[i], "apps/v1", canonical); err != nil {
				return nil, err
			}
		}
	case "DaemonSet":
		list, err := s.client.AppsV1().DaemonSets(namespace).List(ctx, opts)
		if err != nil {
			return nil, listErr(canonical, err)
		}
		for i := range list.Items {
			if out, err = appendTyped(out, &list.Items[i], "apps/v1", canonical); err != nil {
				return nil, err
			}
		}
	case "Pod":
		list, err := s.client.CoreV1().Pods(namespace).List(ctx, opts)
		if err != nil {
			return nil, listErr(canonical, err)
		}
		for i := range list.Items {
			if out, err = appendTyped(out, &list.Items[i], "v1", canonical); err != nil {
				return nil, err
			}
		}
	case "Service":
		list, err := s.client.CoreV1().Services(namespace).List(ctx, opts)
		if err != nil {
			return nil, listErr(canonical, err)
		}
		for i := range list.Items {
			if out, err = appendTyped(out, &list.Items[i], "v1", canonical); err != nil {
				return nil, err
			}
		}
	case "ConfigMap":
		list, err := s.client.CoreV1().ConfigMaps(namespace).List(ctx, opts)
		if err != nil {
			return nil, listErr(canonical, err)
		}
		for i := range list.Items {
			if out, err = appendTyped(out, &list.Items[i], "v1", canonical); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

func listErr(kind string, err error) error {
	return perrors.Wrap(perrors.ErrCodeUnavailable, "failed to list "+kind+" from cluster", err)
}

// appendTyped converts one typed API object to the untyped resource model.
// Typed list items come back without TypeMeta, so apiVersion and kind are
// restored explicitly.
func appendTyped(out []*manifest.Resource, obj any, apiVersion, kind string) ([]*manifest.Resource, error) {
	tree, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInternal, "failed to convert "+kind+" to untyped tree", err)
	}
	tree["apiVersion"] = apiVersion
	tree["kind"] = kind

	r, err := manifest.FromManifest(tree)
	if err != nil {
		return nil, err
	}
	return append(out, r), nil
}
