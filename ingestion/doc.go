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

// Package ingestion turns stored conversation text into searchable vectors.
//
// The Pipeline drives two passes. RunMessages walks messages in ascending
// ID order, over-fetching candidates because noise classification removes
// items after selection, and embeds survivors in batches. RunSessions
// embeds one vector per session over its concatenated transcript,
// summarizing transcripts that exceed the configured threshold.
//
// Both passes are idempotent. Every outcome leaves an embedding record:
// a success record in the item's collection, or a failure record in the
// unembeddable collection carrying the reason. Candidate selection skips
// items that already hold a success record, items permanently excluded as
// noise, and non-finite failures inside their retry budget's cooldown.
//
// Numerically unstable content is handled by an escalation ladder: when a
// batch response contains non-finite values, the poisoned items are
// re-embedded one at a time, then as a summary, then as a rephrasing.
// Items that exhaust the ladder are parked as non-finite failures and
// re-offered by Heal once their cooldown expires.
//
// Failure handling distinguishes five classes. Content that sanitizes to
// nothing is skipped outright. Noise is excluded permanently. Non-finite
// results park the item for healing. Transient API errors are retried with
// exponential backoff inside the pass. Dimension mismatches abort the run:
// they indicate a configuration fault, not a data fault.
package ingestion
