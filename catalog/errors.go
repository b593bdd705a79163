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


package catalog

import "errors"

var (
	// ErrEmptyCatalog indicates the source supplied no usable rows.
	// This is fatal to startup; callers must not mask it.
	ErrEmptyCatalog = errors.New("catalog source is empty")

	// ErrUnreadableSource indicates the catalog source could not be read.
	ErrUnreadableSource = errors.New("catalog source is unreadable")

	// ErrLoaderRequired is returned when a loader is not provided.
	ErrLoaderRequired = errors.New("catalog loader required")
)
