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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidMessage indicates a Message failed validation.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrInvalidSession indicates a Session failed validation.
	ErrInvalidSession = errors.New("invalid session")

	// ErrInvalidVectorRecord indicates a VectorRecord failed validation.
	ErrInvalidVectorRecord = errors.New("invalid vector record")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")

	// ErrEmptyContent indicates the Contents field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidRole indicates an invalid Role value.
	ErrInvalidRole = errors.New("invalid role")

	// ErrEmptySessionID indicates a session identifier is missing.
	ErrEmptySessionID = errors.New("session id cannot be empty")

	// ErrInvalidExemplar indicates a weighted exemplar could not be parsed.
	ErrInvalidExemplar = errors.New("invalid weighted exemplar")

	// ErrDimensionMismatch indicates two vectors of different dimensionality
	// were combined. This is a configuration fault, never retried or coerced.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
