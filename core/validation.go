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

import (
	"fmt"
	"time"
)

// ValidateMessage validates a Message according to domain rules.
//
// Validation rules:
//   - Contents must not be empty
//   - SessionId must not be empty
//   - Role must be valid (Human or Assistant)
//   - Timestamp must not be in the future
//
// NOT validated:
//   - ContentLength (derived, populated on insert)
//   - Source/Project/Path (optional provenance)
func ValidateMessage(msg *Message) error {
	if msg == nil {
		return fmt.Errorf("%w: message is nil", ErrInvalidMessage)
	}

	if msg.Contents == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptyContent)
	}

	if msg.SessionId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptySessionID)
	}

	if err := ValidateRole(msg.Role); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	if !IsValidTimestamp(msg.Timestamp) {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateSession validates a Session according to domain rules.
func ValidateSession(session *Session) error {
	if session == nil {
		return fmt.Errorf("%w: session is nil", ErrInvalidSession)
	}

	if session.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSession, ErrEmptySessionID)
	}

	return nil
}

// ValidateVectorRecord validates a VectorRecord before upsert.
//
// Validation rules:
//   - Vector must not be empty and must contain only finite values
//   - Kind must be valid and match the populated metadata struct
func ValidateVectorRecord(record *VectorRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidVectorRecord)
	}

	if len(record.Vector) == 0 {
		return fmt.Errorf("%w: empty vector", ErrInvalidVectorRecord)
	}

	if HasNonFinite(record.Vector) {
		return fmt.Errorf("%w: non-finite vector values", ErrInvalidVectorRecord)
	}

	switch record.Kind {
	case KindMessage:
		if record.MessageMeta.SessionId == "" {
			return fmt.Errorf("%w: %w", ErrInvalidVectorRecord, ErrEmptySessionID)
		}
	case KindSession:
		if record.SessionMeta.SessionId == "" {
			return fmt.Errorf("%w: %w", ErrInvalidVectorRecord, ErrEmptySessionID)
		}
	default:
		return fmt.Errorf("%w: unknown collection kind %d", ErrInvalidVectorRecord, record.Kind)
	}

	return nil
}

// ValidateRole validates that a Role has a valid value.
func ValidateRole(role Role) error {
	if role != RoleHuman && role != RoleAssistant {
		return fmt.Errorf("%w: value %d", ErrInvalidRole, role)
	}
	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
