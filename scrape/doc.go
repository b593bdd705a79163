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


// Package scrape defines the marketplace retrieval abstraction.
//
// A Scraper covers exactly one marketplace and turns a free-text query
// into raw listings. The search orchestrator fans queries out across
// all registered scrapers concurrently; scrapers never score or rank,
// that is the ranker's job.
//
// The mock subpackage provides controllable test doubles.
package scrape
