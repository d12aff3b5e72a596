// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	sliceCnMkStk9wbv5RCch2c8RxQΞΞ = ord.NewSliceSer[float32](varint.Float32)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var RoleMUS = roleMUS{}

type roleMUS struct{}

func (s roleMUS) Marshal(v Role, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s roleMUS) Unmarshal(bs []byte) (v Role, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = Role(tmp)
	return
}

func (s roleMUS) Size(v Role) (size int) {
	return varint.Int.Size(int(v))
}

func (s roleMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var FailureReasonMUS = failureReasonMUS{}

type failureReasonMUS struct{}

func (s failureReasonMUS) Marshal(v FailureReason, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s failureReasonMUS) Unmarshal(bs []byte) (v FailureReason, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = FailureReason(tmp)
	return
}

func (s failureReasonMUS) Size(v FailureReason) (size int) {
	return varint.Int.Size(int(v))
}

func (s failureReasonMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var ScopeKindMUS = scopeKindMUS{}

type scopeKindMUS struct{}

func (s scopeKindMUS) Marshal(v ScopeKind, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s scopeKindMUS) Unmarshal(bs []byte) (v ScopeKind, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ScopeKind(tmp)
	return
}

func (s scopeKindMUS) Size(v ScopeKind) (size int) {
	return varint.Int.Size(int(v))
}

func (s scopeKindMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var CollectionKindMUS = collectionKindMUS{}

type collectionKindMUS struct{}

func (s collectionKindMUS) Marshal(v CollectionKind, bs []byte) (n int) {
	return varint.Int.Marshal(int(v), bs)
}

func (s collectionKindMUS) Unmarshal(bs []byte) (v CollectionKind, n int, err error) {
	tmp, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	v = CollectionKind(tmp)
	return
}

func (s collectionKindMUS) Size(v CollectionKind) (size int) {
	return varint.Int.Size(int(v))
}

func (s collectionKindMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int.Skip(bs)
}

var MessageMUS = messageMUS{}

type messageMUS struct{}

func (s messageMUS) Marshal(v Message, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.SessionId, bs[n:])
	n += RoleMUS.Marshal(v.Role, bs[n:])
	n += ord.String.Marshal(v.Contents, bs[n:])
	n += varint.Int.Marshal(v.ContentLength, bs[n:])
	n += ord.String.Marshal(v.Source, bs[n:])
	n += ord.String.Marshal(v.Project, bs[n:])
	n += ord.String.Marshal(v.Path, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.Timestamp, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.InsertedAt, bs[n:])
}

func (s messageMUS) Unmarshal(bs []byte) (v Message, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.SessionId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Role, n1, err = RoleMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Contents, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ContentLength, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Project, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Path, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Timestamp, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s messageMUS) Size(v Message) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.SessionId)
	size += RoleMUS.Size(v.Role)
	size += ord.String.Size(v.Contents)
	size += varint.Int.Size(v.ContentLength)
	size += ord.String.Size(v.Source)
	size += ord.String.Size(v.Project)
	size += ord.String.Size(v.Path)
	size += raw.TimeUnixMicro.Size(v.Timestamp)
	return size + raw.TimeUnixMicro.Size(v.InsertedAt)
}

func (s messageMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = RoleMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var SessionMUS = sessionMUS{}

type sessionMUS struct{}

func (s sessionMUS) Marshal(v Session, bs []byte) (n int) {
	n = ord.String.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Source, bs[n:])
	n += ord.String.Marshal(v.Project, bs[n:])
	n += ord.String.Marshal(v.Path, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += varint.Int.Marshal(v.ContentLength, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.StartedAt, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s sessionMUS) Unmarshal(bs []byte) (v Session, n int, err error) {
	v.Id, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Project, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Path, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ContentLength, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.StartedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s sessionMUS) Size(v Session) (size int) {
	size = ord.String.Size(v.Id)
	size += ord.String.Size(v.Source)
	size += ord.String.Size(v.Project)
	size += ord.String.Size(v.Path)
	size += ord.String.Size(v.Title)
	size += varint.Int.Size(v.ContentLength)
	size += raw.TimeUnixMicro.Size(v.StartedAt)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s sessionMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var EmbeddingRecordMUS = embeddingRecordMUS{}

type embeddingRecordMUS struct{}

func (s embeddingRecordMUS) Marshal(v EmbeddingRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(v.ItemId, bs)
	n += ord.String.Marshal(v.Collection, bs[n:])
	n += ord.String.Marshal(v.VectorKey, bs[n:])
	n += ord.String.Marshal(v.Model, bs[n:])
	n += varint.Int.Marshal(v.Dimensions, bs[n:])
	n += varint.Int.Marshal(v.ContentCharsAtEmbed, bs[n:])
	n += FailureReasonMUS.Marshal(v.FailureReason, bs[n:])
	n += ord.String.Marshal(v.FailureDetail, bs[n:])
	n += varint.Int.Marshal(v.RetryCount, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.UpdatedAt, bs[n:])
}

func (s embeddingRecordMUS) Unmarshal(bs []byte) (v EmbeddingRecord, n int, err error) {
	v.ItemId, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Collection, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.VectorKey, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Model, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Dimensions, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ContentCharsAtEmbed, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FailureReason, n1, err = FailureReasonMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FailureDetail, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.RetryCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s embeddingRecordMUS) Size(v EmbeddingRecord) (size int) {
	size = IDMUS.Size(v.ItemId)
	size += ord.String.Size(v.Collection)
	size += ord.String.Size(v.VectorKey)
	size += ord.String.Size(v.Model)
	size += varint.Int.Size(v.Dimensions)
	size += varint.Int.Size(v.ContentCharsAtEmbed)
	size += FailureReasonMUS.Size(v.FailureReason)
	size += ord.String.Size(v.FailureDetail)
	size += varint.Int.Size(v.RetryCount)
	return size + raw.TimeUnixMicro.Size(v.UpdatedAt)
}

func (s embeddingRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = FailureReasonMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var CentroidMUS = centroidMUS{}

type centroidMUS struct{}

func (s centroidMUS) Marshal(v Centroid, bs []byte) (n int) {
	n = ScopeKindMUS.Marshal(v.Kind, bs)
	n += ord.String.Marshal(v.ScopeId, bs[n:])
	n += sliceCnMkStk9wbv5RCch2c8RxQΞΞ.Marshal(v.Vector, bs[n:])
	n += varint.Int.Marshal(v.SourceCount, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.ComputedAt, bs[n:])
}

func (s centroidMUS) Unmarshal(bs []byte) (v Centroid, n int, err error) {
	v.Kind, n, err = ScopeKindMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.ScopeId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = sliceCnMkStk9wbv5RCch2c8RxQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SourceCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ComputedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s centroidMUS) Size(v Centroid) (size int) {
	size = ScopeKindMUS.Size(v.Kind)
	size += ord.String.Size(v.ScopeId)
	size += sliceCnMkStk9wbv5RCch2c8RxQΞΞ.Size(v.Vector)
	size += varint.Int.Size(v.SourceCount)
	return size + raw.TimeUnixMicro.Size(v.ComputedAt)
}

func (s centroidMUS) Skip(bs []byte) (n int, err error) {
	n, err = ScopeKindMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceCnMkStk9wbv5RCch2c8RxQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var MessageVectorMetaMUS = messageVectorMetaMUS{}

type messageVectorMetaMUS struct{}

func (s messageVectorMetaMUS) Marshal(v MessageVectorMeta, bs []byte) (n int) {
	n = ord.String.Marshal(v.SessionId, bs)
	n += ord.String.Marshal(v.Source, bs[n:])
	n += ord.String.Marshal(v.Project, bs[n:])
	n += ord.String.Marshal(v.Path, bs[n:])
	n += RoleMUS.Marshal(v.Role, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.Timestamp, bs[n:])
	return n + varint.Int.Marshal(v.ContentLength, bs[n:])
}

func (s messageVectorMetaMUS) Unmarshal(bs []byte) (v MessageVectorMeta, n int, err error) {
	v.SessionId, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Project, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Path, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Role, n1, err = RoleMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Timestamp, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ContentLength, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	return
}

func (s messageVectorMetaMUS) Size(v MessageVectorMeta) (size int) {
	size = ord.String.Size(v.SessionId)
	size += ord.String.Size(v.Source)
	size += ord.String.Size(v.Project)
	size += ord.String.Size(v.Path)
	size += RoleMUS.Size(v.Role)
	size += raw.TimeUnixMicro.Size(v.Timestamp)
	return size + varint.Int.Size(v.ContentLength)
}

func (s messageVectorMetaMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = RoleMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	return
}

var SessionVectorMetaMUS = sessionVectorMetaMUS{}

type sessionVectorMetaMUS struct{}

func (s sessionVectorMetaMUS) Marshal(v SessionVectorMeta, bs []byte) (n int) {
	n = ord.String.Marshal(v.SessionId, bs)
	n += ord.String.Marshal(v.Source, bs[n:])
	n += ord.String.Marshal(v.Project, bs[n:])
	n += ord.String.Marshal(v.Path, bs[n:])
	n += ord.String.Marshal(v.Title, bs[n:])
	n += varint.Int.Marshal(v.ContentLength, bs[n:])
	return n + ord.Bool.Marshal(v.Summarized, bs[n:])
}

func (s sessionVectorMetaMUS) Unmarshal(bs []byte) (v SessionVectorMeta, n int, err error) {
	v.SessionId, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Project, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Path, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ContentLength, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Summarized, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	return
}

func (s sessionVectorMetaMUS) Size(v SessionVectorMeta) (size int) {
	size = ord.String.Size(v.SessionId)
	size += ord.String.Size(v.Source)
	size += ord.String.Size(v.Project)
	size += ord.String.Size(v.Path)
	size += ord.String.Size(v.Title)
	size += varint.Int.Size(v.ContentLength)
	return size + ord.Bool.Size(v.Summarized)
}

func (s sessionVectorMetaMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.Bool.Skip(bs[n:])
	n += n1
	return
}

var VectorRecordMUS = vectorRecordMUS{}

type vectorRecordMUS struct{}

func (s vectorRecordMUS) Marshal(v VectorRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += sliceCnMkStk9wbv5RCch2c8RxQΞΞ.Marshal(v.Vector, bs[n:])
	n += ord.String.Marshal(v.Document, bs[n:])
	n += CollectionKindMUS.Marshal(v.Kind, bs[n:])
	n += MessageVectorMetaMUS.Marshal(v.MessageMeta, bs[n:])
	return n + SessionVectorMetaMUS.Marshal(v.SessionMeta, bs[n:])
}

func (s vectorRecordMUS) Unmarshal(bs []byte) (v VectorRecord, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Vector, n1, err = sliceCnMkStk9wbv5RCch2c8RxQΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Document, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Kind, n1, err = CollectionKindMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.MessageMeta, n1, err = MessageVectorMetaMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SessionMeta, n1, err = SessionVectorMetaMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s vectorRecordMUS) Size(v VectorRecord) (size int) {
	size = IDMUS.Size(v.Id)
	size += sliceCnMkStk9wbv5RCch2c8RxQΞΞ.Size(v.Vector)
	size += ord.String.Size(v.Document)
	size += CollectionKindMUS.Size(v.Kind)
	size += MessageVectorMetaMUS.Size(v.MessageMeta)
	return size + SessionVectorMetaMUS.Size(v.SessionMeta)
}

func (s vectorRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = sliceCnMkStk9wbv5RCch2c8RxQΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = CollectionKindMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = MessageVectorMetaMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = SessionVectorMetaMUS.Skip(bs[n:])
	n += n1
	return
}
