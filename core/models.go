package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Message IDs are content-addressed, so a message whose source content grows
// produces a new ID and supersedes the old record instead of mutating it.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// MessageID derives the stable identifier for a message from its session,
// position, and contents.
func MessageID(sessionID string, seq int, contents string) ID {
	return IDFromContent(sessionID + "\x1f" + strconv.Itoa(seq) + "\x1f" + contents)
}

// SessionAnchorID derives the stable identifier that links a session-level
// embedding to its embedding record. The anchor must not change across
// re-embeds of the same session, or duplicate linkage rows accumulate.
func SessionAnchorID(sessionID string) ID {
	return IDFromContent("session\x1f" + sessionID)
}

// Role identifies the author of a message.
type Role int

const (
	// RoleHuman represents a human user.
	RoleHuman Role = iota + 1
	// RoleAssistant represents an AI assistant.
	RoleAssistant
)

// String returns the role label used in transcripts.
func (r Role) String() string {
	switch r {
	case RoleHuman:
		return "human"
	case RoleAssistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// Message is a single unit of conversational text eligible for embedding.
// Immutable once created; grown source content yields a new Message with a
// new content-addressed ID.
type Message struct {
	Id            ID
	SessionId     string
	Role          Role
	Contents      string
	ContentLength int
	Source        string // source system the conversation came from
	Project       string
	Path          string // path of the originating conversation log
	Timestamp     time.Time
	InsertedAt    time.Time
}

// Session groups the messages of one conversation.
type Session struct {
	Id            string
	Source        string
	Project       string
	Path          string
	Title         string
	ContentLength int // total transcript length in chars, used for staleness detection
	StartedAt     time.Time
	UpdatedAt     time.Time
}

// FailureReason classifies why an item could not be embedded.
type FailureReason int

const (
	// FailureNone marks a successful embedding record.
	FailureNone FailureReason = iota
	// FailureNoise marks content filtered out as unworthy of embedding.
	// Noise exclusions are permanent and never retried.
	FailureNoise
	// FailureNonFinite marks content that produced NaN/Inf vector values.
	// Retried on a cooldown schedule with a bounded attempt count.
	FailureNonFinite
)

// String returns the storage representation of the reason.
func (r FailureReason) String() string {
	switch r {
	case FailureNoise:
		return "noise"
	case FailureNonFinite:
		return "nan"
	default:
		return "none"
	}
}

// EmbeddingRecord tracks the relationship between one embeddable item and one
// vector-store collection. At most one record exists per (item, collection)
// pair; records are upserted, never duplicated. A successful record lives in
// a content collection; a failure record lives in the sentinel
// CollectionUnembeddable, never both for the same item.
type EmbeddingRecord struct {
	ItemId              ID
	Collection          string
	VectorKey           string
	Model               string
	Dimensions          int
	ContentCharsAtEmbed int
	FailureReason       FailureReason
	FailureDetail       string
	RetryCount          int
	UpdatedAt           time.Time
}

// Vector-store collection names.
const (
	// CollectionMessages holds message-level vectors.
	CollectionMessages = "messages"
	// CollectionSessions holds session-level (aggregate or summarized) vectors.
	CollectionSessions = "sessions"
	// CollectionUnembeddable is the sentinel collection for failure records.
	CollectionUnembeddable = "unembeddable"
)

// ScopeKind identifies what a centroid aggregates over.
type ScopeKind int

const (
	// ScopeSession aggregates one conversation's message vectors.
	ScopeSession ScopeKind = iota + 1
	// ScopeProject aggregates the message vectors of all sessions in a project.
	ScopeProject
)

// Centroid is the unit-normalized mean of a scope's message vectors.
// Recomputed wholesale on each run, never incrementally updated.
type Centroid struct {
	Kind        ScopeKind
	ScopeId     string
	Vector      []float32
	SourceCount int // vectors actually retrieved and summed
	ComputedAt  time.Time
}

// WeightedExemplar is a parsed (identifier, weight) search input that
// resolves to a stored centroid. Unresolved identifiers are dropped silently.
type WeightedExemplar struct {
	Id     string
	Weight float64
}

// ParseWeightedExemplar parses "identifier" or "identifier:weight".
// Weight defaults to 1.0 when unspecified.
func ParseWeightedExemplar(s string) (WeightedExemplar, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return WeightedExemplar{}, fmt.Errorf("%w: empty exemplar", ErrInvalidExemplar)
	}
	idx := strings.LastIndex(s, ":")
	if idx < 0 {
		return WeightedExemplar{Id: s, Weight: 1.0}, nil
	}
	weight, err := strconv.ParseFloat(s[idx+1:], 64)
	if err != nil {
		// Identifiers may contain colons themselves; only treat the suffix
		// as a weight when it parses as a number.
		return WeightedExemplar{Id: s, Weight: 1.0}, nil
	}
	if s[:idx] == "" {
		return WeightedExemplar{}, fmt.Errorf("%w: %q", ErrInvalidExemplar, s)
	}
	return WeightedExemplar{Id: s[:idx], Weight: weight}, nil
}

// CollectionKind identifies which metadata struct a vector record carries.
type CollectionKind int

const (
	// KindMessage marks a message-level vector record.
	KindMessage CollectionKind = iota + 1
	// KindSession marks a session-level vector record.
	KindSession
)

// MessageVectorMeta is the fixed metadata attached to message-level vector
// records.
type MessageVectorMeta struct {
	SessionId     string
	Source        string
	Project       string
	Path          string
	Role          Role
	Timestamp     time.Time
	ContentLength int
}

// SessionVectorMeta is the fixed metadata attached to session-level vector
// records.
type SessionVectorMeta struct {
	SessionId     string
	Source        string
	Project       string
	Path          string
	Title         string
	ContentLength int
	Summarized    bool // a summary was embedded instead of the full transcript
}

// VectorRecord is one entry in the vector index: the vector, the document
// text it was computed from, and collection-specific metadata.
type VectorRecord struct {
	Id          ID
	Vector      []float32
	Document    string
	Kind        CollectionKind
	MessageMeta MessageVectorMeta
	SessionMeta SessionVectorMeta
}
