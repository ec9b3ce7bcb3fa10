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

package emit

// Mode selects the output artifact rendered from a consolidated patch set.
type Mode string

const (
	// ModeDiff renders a per-target before/after preview.
	ModeDiff Mode = "diff"
	// ModeOverlay renders a Kustomize overlay directory.
	ModeOverlay Mode = "overlay"
)

func (m Mode) IsUnknown() bool {
	switch m {
	case ModeDiff, ModeOverlay:
		return false
	default:
		return true
	}
}

// SupportedModes returns all output modes, for flag help and error messages.
func SupportedModes() []string {
	return []string{string(ModeDiff), string(ModeOverlay)}
}
