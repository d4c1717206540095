package core

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-composed MUS serializers for the types stored in the evidence
// index. Field order is the wire format; changing it breaks existing
// databases.

// IDMUS serializes IDs as varint-encoded uint64.
var IDMUS = idSer{}

// EvidenceUnitMUS serializes evidence units for storage values.
var EvidenceUnitMUS = evidenceUnitSer{}

var (
	_ mus.Serializer[ID]           = IDMUS
	_ mus.Serializer[EvidenceUnit] = EvidenceUnitMUS
)

var vectorMUS = ord.NewSliceSer[float32](raw.Float32)

type idSer struct{}

func (idSer) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idSer) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idSer) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idSer) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type evidenceUnitSer struct{}

func (evidenceUnitSer) Marshal(u EvidenceUnit, bs []byte) (n int) {
	n = IDMUS.Marshal(u.Id, bs)
	n += ord.String.Marshal(u.Content, bs[n:])
	n += ord.String.Marshal(u.SectionTitle, bs[n:])
	n += ord.String.Marshal(u.SourceFilename, bs[n:])
	n += varint.Int.Marshal(u.PageStart, bs[n:])
	n += varint.Int.Marshal(u.PageEnd, bs[n:])
	n += varint.Int.Marshal(u.SequenceIndex, bs[n:])
	n += varint.Int.Marshal(u.ByteLength, bs[n:])
	n += vectorMUS.Marshal(u.Vector, bs[n:])
	n += varint.Int64.Marshal(u.InsertedAt.UnixMicro(), bs[n:])
	return n
}

func (evidenceUnitSer) Unmarshal(bs []byte) (u EvidenceUnit, n int, err error) {
	var n1 int
	if u.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if u.Content, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.SectionTitle, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.SourceFilename, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.PageStart, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.PageEnd, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.SequenceIndex, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.ByteLength, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	if u.Vector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return u, n + n1, err
	}
	n += n1
	u.InsertedAt = time.UnixMicro(micros).UTC()
	return u, n, nil
}

func (evidenceUnitSer) Size(u EvidenceUnit) (size int) {
	size = IDMUS.Size(u.Id)
	size += ord.String.Size(u.Content)
	size += ord.String.Size(u.SectionTitle)
	size += ord.String.Size(u.SourceFilename)
	size += varint.Int.Size(u.PageStart)
	size += varint.Int.Size(u.PageEnd)
	size += varint.Int.Size(u.SequenceIndex)
	size += varint.Int.Size(u.ByteLength)
	size += vectorMUS.Size(u.Vector)
	size += varint.Int64.Size(u.InsertedAt.UnixMicro())
	return size
}

func (evidenceUnitSer) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = IDMUS.Skip(bs); err != nil {
		return
	}
	for i := 0; i < 3; i++ {
		if n1, err = ord.String.Skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	for i := 0; i < 4; i++ {
		if n1, err = varint.Int.Skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	if n1, err = vectorMUS.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = varint.Int64.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	return n + n1, nil
}
