// Copyright 2025 MarketLens Authors
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


// Package maintain provides offline maintenance operations for the
// result cache.
//
// The Prewarmer walks the most popular catalog vendors and runs a
// bounded number of searches per vendor through the normal search path,
// so their results are resident in the cache before user traffic
// arrives. Searches run concurrently on a worker pool, retry with
// exponential backoff, and report progress as they go.
package maintain
