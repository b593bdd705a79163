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


// Package storage defines the persistence abstraction for MarketLens.
//
// The central type is ResultCache, a persistent memoization layer over
// search results keyed by normalized vendor/solution pairs. The cache
// tracks access statistics per entry and enforces a TTL plus a
// capacity-based eviction policy, so hot queries stay resident while
// stale and rarely-used results age out.
//
// Lookup is two-tiered: Get is an exact match on the normalized key,
// GetFuzzy falls back to approximate string matching over stored keys
// so near-duplicate queries ("Red Hat"/"RedHat") share one entry.
//
// Serialization uses the MUS binary format via the serializers in the
// core package. Backend implementations live in subpackages; the badger
// subpackage provides the BadgerDB implementation.
package storage
