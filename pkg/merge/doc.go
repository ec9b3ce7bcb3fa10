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

// Package merge consolidates patch fragments into one strategic merge patch
// per target resource.
//
// Fragments for the same target are ordered by their intent sequence number
// and folded together depth-first: scalars follow last writer wins, maps merge
// key-wise, and arrays of objects with a known identity key (containers and
// env by name, ports by name or port) merge element-wise. Plain arrays are
// replaced whole. The fold is pure and its output is independent of map
// iteration order, so identical fragment sets always consolidate to identical
// patches.
package merge
