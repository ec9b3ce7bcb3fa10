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

// Package emit renders consolidated patches into their external-facing
// artifacts.
//
// Two modes are supported. Diff mode produces a human-readable before/after
// comparison per target for preview. Overlay mode produces a Kustomize
// overlay: a kustomization.yaml index plus one strategic merge patch file
// per target, with file names derived deterministically from the target's
// kind, namespace, and name so repeated runs write identical trees.
package emit
