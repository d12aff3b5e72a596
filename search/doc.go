// Copyright 2025 Poiesic Systems
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

// Package search composes query vectors and ranks conversations.
//
// The Composer turns a request into a single unit vector, Rocchio style:
// the query embedding, minus the negative query embedding, plus each
// positive exemplar centroid scaled by its weight, minus each negative
// exemplar centroid scaled by its weight and a dampening factor. Exemplars
// that do not resolve to a stored centroid are dropped silently.
//
// The Searcher runs up to three ranking strategies over the composed
// vector and raw query text, deduplicates them by session with
// first-seen-wins ordering, and applies request filters before a hit can
// enter the merged set. Strategies degrade independently: a failing vector
// index removes the vector legs, not the search.
package search
