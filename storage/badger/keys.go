package badger

import (
	"encoding/binary"

	"github.com/poiesic/recall/core"
)

// Key prefixes for different data types. Primary message, record, and
// vector keys encode the numeric ID in BigEndian so lexicographic key
// order matches ascending ID order, which cursor pagination relies on.
const (
	messagePrefix        = "msg"
	messageSessionPrefix = "msgsess"
	messageProjectPrefix = "msgproj"
	sessionPrefix        = "sess"
	embedRecordPrefix    = "embrec"
	centroidPrefix       = "cent"
	vectorPrefix         = "vec"
)

// keySep terminates variable-length string key components so that one
// component can never be a prefix of another ("infra" vs "infra-ops").
const keySep = byte(0x00)

// appendID appends a BigEndian-encoded ID to a key buffer.
func appendID(buf []byte, id core.ID) []byte {
	var enc [8]byte
	binary.BigEndian.PutUint64(enc[:], uint64(id))
	return append(buf, enc[:]...)
}

// makeMessageKey generates a key for a message by ID.
// Format: msg:id
func makeMessageKey(id core.ID) []byte {
	buf := make([]byte, 0, len(messagePrefix)+1+8)
	buf = append(buf, messagePrefix...)
	buf = append(buf, ':')
	return appendID(buf, id)
}

// makeMessageSessionKey generates a composite key for the session index.
// Format: msgsess:sessionID\x00id
func makeMessageSessionKey(sessionID string, id core.ID) []byte {
	buf := makePartialMessageSessionKey(sessionID)
	return appendID(buf, id)
}

// makePartialMessageSessionKey generates the prefix for session index scans.
func makePartialMessageSessionKey(sessionID string) []byte {
	buf := make([]byte, 0, len(messageSessionPrefix)+1+len(sessionID)+1+8)
	buf = append(buf, messageSessionPrefix...)
	buf = append(buf, ':')
	buf = append(buf, sessionID...)
	return append(buf, keySep)
}

// makeMessageProjectKey generates a composite key for the project index.
// Format: msgproj:project\x00id
func makeMessageProjectKey(project string, id core.ID) []byte {
	buf := makePartialMessageProjectKey(project)
	return appendID(buf, id)
}

// makePartialMessageProjectKey generates the prefix for project index scans.
func makePartialMessageProjectKey(project string) []byte {
	buf := make([]byte, 0, len(messageProjectPrefix)+1+len(project)+1+8)
	buf = append(buf, messageProjectPrefix...)
	buf = append(buf, ':')
	buf = append(buf, project...)
	return append(buf, keySep)
}

// makeSessionKey generates a key for a session by ID.
// Format: sess:sessionID
func makeSessionKey(id string) []byte {
	buf := make([]byte, 0, len(sessionPrefix)+1+len(id))
	buf = append(buf, sessionPrefix...)
	buf = append(buf, ':')
	return append(buf, id...)
}

// makeEmbedRecordKey generates a key for an embedding record.
// Format: embrec:collection\x00itemID
func makeEmbedRecordKey(itemID core.ID, collection string) []byte {
	buf := makePartialEmbedRecordKey(collection)
	return appendID(buf, itemID)
}

// makePartialEmbedRecordKey generates the prefix for collection scans.
func makePartialEmbedRecordKey(collection string) []byte {
	buf := make([]byte, 0, len(embedRecordPrefix)+1+len(collection)+1+8)
	buf = append(buf, embedRecordPrefix...)
	buf = append(buf, ':')
	buf = append(buf, collection...)
	return append(buf, keySep)
}

// makeCentroidKey generates a key for a centroid by scope.
// Format: cent:kind:scopeID
func makeCentroidKey(kind core.ScopeKind, scopeID string) []byte {
	buf := make([]byte, 0, len(centroidPrefix)+1+1+1+len(scopeID))
	buf = append(buf, centroidPrefix...)
	buf = append(buf, ':')
	buf = append(buf, byte(kind))
	buf = append(buf, ':')
	return append(buf, scopeID...)
}

// makeVectorKey generates a key for a vector record.
// Format: vec:collection\x00id
func makeVectorKey(collection string, id core.ID) []byte {
	buf := makePartialVectorKey(collection)
	return appendID(buf, id)
}

// makePartialVectorKey generates the prefix for collection scans.
func makePartialVectorKey(collection string) []byte {
	buf := make([]byte, 0, len(vectorPrefix)+1+len(collection)+1+8)
	buf = append(buf, vectorPrefix...)
	buf = append(buf, ':')
	buf = append(buf, collection...)
	return append(buf, keySep)
}

// idFromKeySuffix decodes the trailing BigEndian ID from a composite key.
func idFromKeySuffix(key []byte) core.ID {
	if len(key) < 8 {
		return 0
	}
	return core.ID(binary.BigEndian.Uint64(key[len(key)-8:]))
}
