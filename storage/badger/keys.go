package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/docquery/core"
)

// Key prefixes for different data types
const (
	evidenceUnitPrefix   = "evurec"
	evidenceSourcePrefix = "evusrc"
)

// makeEvidenceUnitKey generates a key for an evidence unit by ID.
func makeEvidenceUnitKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", evidenceUnitPrefix, id))
}

// makeEvidenceSourceKey generates a composite key for the source index.
// Format: prefix:filename\x00sequence:id
// The filename is terminated by a zero byte so one source name is never a
// prefix of another, and the sequence index is BigEndian so lexicographic
// iteration yields chunk order.
func makeEvidenceSourceKey(sourceFilename string, sequenceIndex int, id core.ID) []byte {
	prefix := makePartialEvidenceSourceKey(sourceFilename)
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(sequenceIndex))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialEvidenceSourceKey generates the iteration prefix for one source file.
func makePartialEvidenceSourceKey(sourceFilename string) []byte {
	prefix := evidenceSourcePrefix + ":"
	buf := make([]byte, len(prefix)+len(sourceFilename)+1)
	offset := copy(buf, prefix)
	offset += copy(buf[offset:], sourceFilename)
	buf[offset] = 0
	return buf
}
