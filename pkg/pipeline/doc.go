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

// Package pipeline runs one patch request end to end: resolve the request
// into intents, enforce namespace policy, discover and match targets,
// generate fragments, and consolidate them into one patch per target.
//
// Fragment generation fans out across intent/target pairs, since
// transformers are pure, but consolidation reimposes intent order through
// each fragment's sequence number, so results do not depend on completion
// order. A request either yields a complete patch set plus any zero-target
// warnings, or fails as a whole; there is no partial success.
package pipeline
