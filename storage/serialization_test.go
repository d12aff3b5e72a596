package storage

import (
	"testing"
	"time"

	"github.com/poiesic/recall/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("test content")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalMessage(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	message := &core.Message{
		Id:            core.MessageID("session-1", 3, "How do I rotate credentials?"),
		SessionId:     "session-1",
		Role:          core.RoleHuman,
		Contents:      "How do I rotate credentials?",
		ContentLength: 28,
		Source:        "claude",
		Project:       "infra",
		Path:          "/home/user/infra",
		Timestamp:     now,
		InsertedAt:    now,
	}

	decoded, err := UnmarshalMessage(MarshalMessage(message))
	require.NoError(t, err)
	assertSameInstant(t, message.Timestamp, decoded.Timestamp)
	assertSameInstant(t, message.InsertedAt, decoded.InsertedAt)
	decoded.Timestamp = message.Timestamp
	decoded.InsertedAt = message.InsertedAt
	assert.Equal(t, message, decoded)
}

func TestMarshalUnmarshalSession(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	session := &core.Session{
		Id:            "session-1",
		Source:        "claude",
		Project:       "infra",
		Path:          "/home/user/infra",
		Title:         "Credential rotation",
		ContentLength: 4096,
		StartedAt:     now.Add(-time.Hour),
		UpdatedAt:     now,
	}

	decoded, err := UnmarshalSession(MarshalSession(session))
	require.NoError(t, err)
	assertSameInstant(t, session.StartedAt, decoded.StartedAt)
	assertSameInstant(t, session.UpdatedAt, decoded.UpdatedAt)
	decoded.StartedAt = session.StartedAt
	decoded.UpdatedAt = session.UpdatedAt
	assert.Equal(t, session, decoded)
}

func TestMarshalUnmarshalEmbeddingRecord(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name   string
		record *core.EmbeddingRecord
	}{
		{
			name: "embedded message",
			record: &core.EmbeddingRecord{
				ItemId:              core.ID(7),
				Collection:          core.CollectionMessages,
				VectorKey:           "7",
				Model:               "nomic-embed-text",
				Dimensions:          768,
				ContentCharsAtEmbed: 120,
				FailureReason:       core.FailureNone,
				UpdatedAt:           now,
			},
		},
		{
			name: "noise failure",
			record: &core.EmbeddingRecord{
				ItemId:        core.ID(8),
				Collection:    core.CollectionUnembeddable,
				FailureReason: core.FailureNoise,
				FailureDetail: "too-short",
				RetryCount:    2,
				UpdatedAt:     now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := UnmarshalEmbeddingRecord(MarshalEmbeddingRecord(tt.record))
			require.NoError(t, err)
			assertSameInstant(t, tt.record.UpdatedAt, decoded.UpdatedAt)
			decoded.UpdatedAt = tt.record.UpdatedAt
			assert.Equal(t, tt.record, decoded)
		})
	}
}

func TestMarshalUnmarshalCentroid(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	centroid := &core.Centroid{
		Kind:        core.ScopeProject,
		ScopeId:     "infra",
		Vector:      []float32{0.6, 0.8},
		SourceCount: 42,
		ComputedAt:  now,
	}

	decoded, err := UnmarshalCentroid(MarshalCentroid(centroid))
	require.NoError(t, err)
	assertSameInstant(t, centroid.ComputedAt, decoded.ComputedAt)
	decoded.ComputedAt = centroid.ComputedAt
	assert.Equal(t, centroid, decoded)
}

func TestMarshalUnmarshalVectorRecord(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	record := &core.VectorRecord{
		Id:       core.ID(9),
		Vector:   []float32{0.1, 0.2, 0.3},
		Document: "How do I rotate credentials?",
		Kind:     core.KindMessage,
		MessageMeta: core.MessageVectorMeta{
			SessionId:     "session-1",
			Source:        "claude",
			Project:       "infra",
			Path:          "/home/user/infra",
			Role:          core.RoleHuman,
			Timestamp:     now,
			ContentLength: 28,
		},
	}

	decoded, err := UnmarshalVectorRecord(MarshalVectorRecord(record))
	require.NoError(t, err)
	assertSameInstant(t, record.MessageMeta.Timestamp, decoded.MessageMeta.Timestamp)
	decoded.MessageMeta.Timestamp = record.MessageMeta.Timestamp
	assert.Equal(t, record, decoded)
}

// assertSameInstant compares wall-clock instants. The codec restores
// timestamps with a different internal location representation than the
// values written, so a deep struct compare over time.Time is too strict.
func assertSameInstant(t *testing.T, want, got time.Time) {
	t.Helper()
	assert.True(t, got.Equal(want), "expected instant %v, got %v", want, got)
}
