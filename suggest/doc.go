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


// Package suggest provides abstractions for product alternative
// suggestion in MarketLens.
//
// When a search falls through to direct scraping (no catalog match),
// the orchestrator asks a Suggester for comparable products that ARE
// carried in the catalog, so the caller gets actionable alternatives
// instead of a dead end.
//
// Implementations live in subpackages:
//   - openai: LLM-backed suggester for OpenAI-compatible chat APIs
//   - mock: test double with controllable behavior
package suggest
