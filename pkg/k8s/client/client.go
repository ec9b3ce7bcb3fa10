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

// Package client builds the Kubernetes clientset used by the cluster
// scanner, the patch applier, and ConfigMap-backed serialization.
//
// Configuration is discovered in order: an explicit kubeconfig path, the
// KUBECONFIG environment variable, ~/.kube/config, and finally the
// in-cluster service account when no file is available. The default client
// is shared process-wide so repeated commands reuse one connection pool.
package client

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// Interface aliases kubernetes.Interface so consumers can be wired to
// fake.NewSimpleClientset in tests.
type Interface = kubernetes.Interface

type bundle struct {
	cs  *kubernetes.Clientset
	cfg *rest.Config
	err error
}

var sharedClient = sync.OnceValue(func() bundle {
	var b bundle
	b.cs, b.cfg, b.err = build("")
	return b
})

// GetKubeClient returns the shared clientset, building it on first use from
// the default discovery chain. A failed build is cached too; commands that
// need the cluster fail fast and consistently afterwards.
func GetKubeClient() (Interface, *rest.Config, error) {
	b := sharedClient()
	return b.cs, b.cfg, b.err
}

// GetKubeClientWithConfig builds a clientset from an explicit kubeconfig
// path. An empty path falls back to the shared client.
func GetKubeClientWithConfig(kubeconfig string) (Interface, *rest.Config, error) {
	if kubeconfig == "" {
		return GetKubeClient()
	}
	return build(kubeconfig)
}

// kubeconfigPath resolves which kubeconfig file to load. An empty result
// means no file is available and the in-cluster config applies.
func kubeconfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env
	}
	home := filepath.Join(homedir.HomeDir(), ".kube", "config")
	if _, err := os.Stat(home); err == nil {
		return home
	}
	return ""
}

func build(kubeconfig string) (*kubernetes.Clientset, *rest.Config, error) {
	path := kubeconfigPath(kubeconfig)

	var cfg *rest.Config
	var err error
	if path == "" {
		cfg, err = rest.InClusterConfig()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get in-cluster config: %w", err)
		}
	} else {
		cfg, err = clientcmd.BuildConfigFromFlags("", path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build kube config from %s: %w", path, err)
		}
	}

	cs, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	return cs, cfg, nil
}
