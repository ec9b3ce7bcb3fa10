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

package client

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestKubeconfigPath_ExplicitWins(t *testing.T) {
	t.Setenv("KUBECONFIG", "/env/kubeconfig")
	if got := kubeconfigPath("/explicit/kubeconfig"); got != "/explicit/kubeconfig" {
		t.Errorf("kubeconfigPath() = %q, want explicit path", got)
	}
}

func TestKubeconfigPath_EnvFallback(t *testing.T) {
	t.Setenv("KUBECONFIG", "/env/kubeconfig")
	if got := kubeconfigPath(""); got != "/env/kubeconfig" {
		t.Errorf("kubeconfigPath() = %q, want KUBECONFIG value", got)
	}
}

func TestGetKubeClientWithConfig_MissingFile(t *testing.T) {
	_, _, err := GetKubeClientWithConfig("/nonexistent/path/to/kubeconfig")
	if err == nil {
		t.Fatal("expected error for missing kubeconfig file")
	}
	if !strings.Contains(err.Error(), "failed to build kube config") {
		t.Errorf("error = %v, want build failure", err)
	}
}

func TestGetKubeClientWithConfig_InvalidContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kubeconfig")
	if err := os.WriteFile(path, []byte("not a kubeconfig"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, _, err := GetKubeClientWithConfig(path)
	if err == nil {
		t.Fatal("expected error for malformed kubeconfig")
	}
}

// The shared client must hand every caller the same instances, whether the
// build succeeded or failed in this environment.
func TestGetKubeClient_Shared(t *testing.T) {
	prev := sharedClient
	sharedClient = sync.OnceValue(func() bundle {
		var b bundle
		b.cs, b.cfg, b.err = build("")
		return b
	})
	defer func() { sharedClient = prev }()

	cs1, cfg1, err1 := GetKubeClient()
	cs2, cfg2, err2 := GetKubeClient()

	if cs1 != cs2 {
		t.Error("GetKubeClient() returned different clientsets")
	}
	if cfg1 != cfg2 {
		t.Error("GetKubeClient() returned different configs")
	}
	//nolint:errorlint // the cached error must be the same instance
	if err1 != err2 {
		t.Errorf("GetKubeClient() returned different errors: %v vs %v", err1, err2)
	}
}
