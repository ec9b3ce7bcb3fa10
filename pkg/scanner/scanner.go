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
	"sort"
	"strings"

	"github.com/NVIDIA/patchform/pkg/manifest"
)

// Scanner lists the current resources of one kind, optionally scoped to a
// namespace. An empty kind lists every supported kind; an empty namespace
// lists all namespaces. Scanners return resources as read-only snapshots and
// never mutate them afterwards.
type Scanner interface {
	List(ctx context.Context, kind, namespace string) ([]*manifest.Resource, error)
}

// kindAliases maps user-facing kind spellings, including kubectl short
// names, to canonical kinds.
var kindAliases = map[string]string{
	"deployment":   "Deployment",
	"deployments":  "Deployment",
	"deploy":       "Deployment",
	"statefulset":  "StatefulSet",
	"statefulsets": "StatefulSet",
	"sts":          "StatefulSet",
	"daemonset":    "DaemonSet",
	"daemonsets":   "DaemonSet",
	"ds":           "DaemonSet",
	"pod":          "Pod",
	"pods":         "Pod",
	"po":           "Pod",
	"service":      "Service",
	"services":     "Service",
	"svc":          "Service",
	"configmap":    "ConfigMap",
	"configmaps":   "ConfigMap",
	"cm":           "ConfigMap",
}

// CanonicalKind resolves a kind spelling or short name to its canonical
// form. The second return is false for kinds no scanner supports.
func CanonicalKind(kind string) (string, bool) {
	c, ok := kindAliases[strings.ToLower(strings.TrimSpace(kind))]
	return c, ok
}

// SupportedKinds returns the canonical kinds scanners can list, sorted.
func SupportedKinds() []string {
	set := map[string]struct{}{}
	for _, c := range kindAliases {
		set[c] = struct{}{}
	}
	kinds := make([]string, 0, len(set))
	for c := range set {
		kinds = append(kinds, c)
	}
	sort.Strings(kinds)
	return kinds
}
