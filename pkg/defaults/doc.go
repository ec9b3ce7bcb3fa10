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

// Package defaults provides centralized configuration constants.
//
// This package defines timeout values and other configuration defaults used
// across the codebase. Centralizing these values ensures consistency and
// makes tuning easier.
//
// # Timeout Categories
//
// Timeouts are organized by component:
//
//   - Kubernetes timeouts: For K8s API operations
//   - ConfigMap timeouts: For ConfigMap read/write operations
//   - CLI timeouts: For full command runs
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/NVIDIA/patchform/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.K8sListTimeout)
//	defer cancel()
//
// # Timeout Guidelines
//
// When choosing timeout values:
//
//   - K8s operations: 30s for list and patch calls
//   - CLI runs: 5m end to end, respects SIGINT cancellation
package defaults
