package page

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// magic identifies a file as an elki page file. Spec §9 notes the source
// had no version/magic check on reopen; this module adds one.
var magic = [4]byte{'E', 'L', 'K', '1'}

// headerFormatVersion is bumped whenever the on-disk header or page layout
// changes in an incompatible way. Persistence format stability across
// module versions is explicitly not guaranteed (spec §1).
const headerFormatVersion = 1

// headerSize is the fixed number of bytes the header occupies. It must fit
// within a single page (enforced by CreateFileDisk).
const headerSize = 4 + 1 + 4 + 4 + 4 + 4 + 4 + 4 // magic+version+pageSize+dirCap+leafCap+freeListHead+pageCount+checksum

// header is block 0 of a file-backed page file.
type header struct {
	pageSize     uint32
	dirCapacity  uint32
	leafCapacity uint32
	freeListHead ID
	pageCount    uint32
}

func encodeHeader(h header) []byte {
	buf := make([]byte, headerSize)
	copy(buf[0:4], magic[:])
	buf[4] = headerFormatVersion
	binary.BigEndian.PutUint32(buf[5:9], h.pageSize)
	binary.BigEndian.PutUint32(buf[9:13], h.dirCapacity)
	binary.BigEndian.PutUint32(buf[13:17], h.leafCapacity)
	binary.BigEndian.PutUint32(buf[17:21], uint32(h.freeListHead))
	binary.BigEndian.PutUint32(buf[21:25], h.pageCount)

	checksum := crc32.ChecksumIEEE(buf[:headerSize-4])
	binary.BigEndian.PutUint32(buf[headerSize-4:headerSize], checksum)

	return buf
}

func decodeHeader(buf []byte) (header, error) {
	var h header

	if len(buf) < headerSize {
		return h, fmt.Errorf("page: header too short: got %d bytes, want at least %d", len(buf), headerSize)
	}

	if string(buf[0:4]) != string(magic[:]) {
		return h, fmt.Errorf("page: not an elki page file (bad magic)")
	}
	if buf[4] != headerFormatVersion {
		return h, fmt.Errorf("page: unsupported page file format version %d (want %d)", buf[4], headerFormatVersion)
	}

	checksum := binary.BigEndian.Uint32(buf[headerSize-4 : headerSize])
	newChecksum := crc32.ChecksumIEEE(buf[:headerSize-4])
	if checksum != newChecksum {
		return h, fmt.Errorf("page: header checksum mismatch: %x != %x", checksum, newChecksum)
	}

	h.pageSize = binary.BigEndian.Uint32(buf[5:9])
	h.dirCapacity = binary.BigEndian.Uint32(buf[9:13])
	h.leafCapacity = binary.BigEndian.Uint32(buf[13:17])
	h.freeListHead = ID(binary.BigEndian.Uint32(buf[17:21]))
	h.pageCount = binary.BigEndian.Uint32(buf[21:25])

	return h, nil
}
