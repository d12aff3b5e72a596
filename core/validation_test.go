package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateMessage(t *testing.T) {
	validTime := time.Now().Add(-1 * time.Hour)
	futureTime := time.Now().Add(1 * time.Hour)

	tests := []struct {
		name    string
		msg     *Message
		wantErr error
	}{
		{
			name: "valid message",
			msg: &Message{
				Id:        1,
				SessionId: "s1",
				Role:      RoleHuman,
				Contents:  "Hello world",
				Timestamp: validTime,
			},
			wantErr: nil,
		},
		{
			name: "valid assistant message without provenance",
			msg: &Message{
				Id:        2,
				SessionId: "s1",
				Role:      RoleAssistant,
				Contents:  "Response",
				Timestamp: validTime,
			},
			wantErr: nil,
		},
		{
			name:    "nil message",
			msg:     nil,
			wantErr: ErrInvalidMessage,
		},
		{
			name: "empty contents",
			msg: &Message{
				Id:        3,
				SessionId: "s1",
				Role:      RoleHuman,
				Contents:  "",
				Timestamp: validTime,
			},
			wantErr: ErrEmptyContent,
		},
		{
			name: "missing session id",
			msg: &Message{
				Id:        4,
				Role:      RoleHuman,
				Contents:  "Hello",
				Timestamp: validTime,
			},
			wantErr: ErrEmptySessionID,
		},
		{
			name: "invalid role",
			msg: &Message{
				Id:        5,
				SessionId: "s1",
				Role:      Role(99),
				Contents:  "Hello",
				Timestamp: validTime,
			},
			wantErr: ErrInvalidRole,
		},
		{
			name: "future timestamp",
			msg: &Message{
				Id:        6,
				SessionId: "s1",
				Role:      RoleHuman,
				Contents:  "Hello",
				Timestamp: futureTime,
			},
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMessage(tt.msg)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateMessage() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateMessage() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSession(t *testing.T) {
	if err := ValidateSession(&Session{Id: "s1"}); err != nil {
		t.Errorf("valid session rejected: %v", err)
	}
	if err := ValidateSession(nil); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("nil session error = %v", err)
	}
	if err := ValidateSession(&Session{}); !errors.Is(err, ErrEmptySessionID) {
		t.Errorf("empty id error = %v", err)
	}
}

func TestValidateVectorRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  *VectorRecord
		wantErr error
	}{
		{
			name: "valid message record",
			record: &VectorRecord{
				Id:          1,
				Vector:      []float32{0.1, 0.2},
				Kind:        KindMessage,
				MessageMeta: MessageVectorMeta{SessionId: "s1"},
			},
		},
		{
			name: "valid session record",
			record: &VectorRecord{
				Id:          2,
				Vector:      []float32{0.1, 0.2},
				Kind:        KindSession,
				SessionMeta: SessionVectorMeta{SessionId: "s1"},
			},
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: ErrInvalidVectorRecord,
		},
		{
			name: "empty vector",
			record: &VectorRecord{
				Id:          3,
				Kind:        KindMessage,
				MessageMeta: MessageVectorMeta{SessionId: "s1"},
			},
			wantErr: ErrInvalidVectorRecord,
		},
		{
			name: "metadata missing session id",
			record: &VectorRecord{
				Id:     4,
				Vector: []float32{0.1},
				Kind:   KindMessage,
			},
			wantErr: ErrEmptySessionID,
		},
		{
			name: "unknown kind",
			record: &VectorRecord{
				Id:     5,
				Vector: []float32{0.1},
			},
			wantErr: ErrInvalidVectorRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVectorRecord(tt.record)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateVectorRecord() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateVectorRecord() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
