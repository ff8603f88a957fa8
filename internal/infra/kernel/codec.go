package kernel

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hrntsm/dmkit/internal/domain"
)

const (
	fileMagic   = "3D Geometry File Format "
	fileVersion = "       1"
	headerLen   = len(fileMagic) + len(fileVersion)

	tcProperties  uint32 = 0x10000001
	tcObjectTable uint32 = 0x10000010
	tcEndOfFile   uint32 = 0x00007FFF

	chunkOverhead = 12 // typecode + length + crc

	flagCompressed byte = 1 << 0

	// kind + center + radius + id + user string count
	minRecordLen = 1 + 3*8 + 8 + 16 + 4
	// key length + value length
	minUserStringLen = 8
)

var byteOrder = binary.LittleEndian

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrMalformedDocument, fmt.Sprintf(format, args...))
}

// encodeDocument writes doc in the 3DM-lite layout:
//
//	header | properties chunk | object table chunk | end-of-file chunk
//
// Objects with a nil id receive one from newID.
func encodeDocument(doc *domain.Document, appName string, compress bool, newID func() uuid.UUID) ([]byte, error) {
	var out bytes.Buffer
	out.WriteString(fileMagic)
	out.WriteString(fileVersion)

	var props bytes.Buffer
	writeString(&props, appName)
	writeChunk(&out, tcProperties, props.Bytes())

	body, err := encodeObjects(doc, newID)
	if err != nil {
		return nil, err
	}

	flags := byte(0)
	if compress {
		body, err = deflate(body)
		if err != nil {
			return nil, err
		}
		flags |= flagCompressed
	}
	table := make([]byte, 0, len(body)+1)
	table = append(table, flags)
	table = append(table, body...)
	writeChunk(&out, tcObjectTable, table)

	// The end mark records the total file length, itself included.
	total := uint64(out.Len() + chunkOverhead + 8)
	var end [8]byte
	byteOrder.PutUint64(end[:], total)
	writeChunk(&out, tcEndOfFile, end[:])

	return out.Bytes(), nil
}

func encodeObjects(doc *domain.Document, newID func() uuid.UUID) ([]byte, error) {
	objects := doc.Objects()
	n := objects.Count()

	var b bytes.Buffer
	writeUint32(&b, uint32(n))
	for i := 0; i < n; i++ {
		obj, _ := objects.Get(i)

		sphere, ok := obj.Geometry.(domain.Sphere)
		if !ok {
			return nil, fmt.Errorf("object %d: unsupported geometry %T", i, obj.Geometry)
		}
		b.WriteByte(byte(sphere.Kind()))
		writeFloat64(&b, sphere.Center.X)
		writeFloat64(&b, sphere.Center.Y)
		writeFloat64(&b, sphere.Center.Z)
		writeFloat64(&b, sphere.Radius)

		id := obj.Attributes.ID
		if id == uuid.Nil {
			id = newID()
		}
		b.Write(id[:])

		strs := obj.Attributes.UserStrings()
		writeUint32(&b, uint32(len(strs)))
		for _, us := range strs {
			writeString(&b, us.Key)
			writeString(&b, us.Value)
		}
	}
	return b.Bytes(), nil
}

// decodeDocument parses data. A compressed object table may inflate to at most
// maxTable bytes.
func decodeDocument(data []byte, maxTable int64) (*domain.Document, error) {
	if len(data) == 0 {
		return nil, malformed("empty input")
	}
	if len(data) < headerLen {
		return nil, malformed("short header (%d bytes)", len(data))
	}
	if string(data[:len(fileMagic)]) != fileMagic {
		return nil, malformed("not a 3dm file")
	}
	if v := string(data[len(fileMagic):headerLen]); v != fileVersion {
		return nil, malformed("unsupported version %q", v)
	}

	var (
		doc      *domain.Document
		sawEnd   bool
		off      = headerLen
		sawProps bool
	)

	for off < len(data) {
		tc, payload, next, err := readChunk(data, off)
		if err != nil {
			return nil, err
		}

		switch tc {
		case tcProperties:
			if _, _, err := readString(payload, 0); err != nil {
				return nil, malformed("properties: %v", err)
			}
			sawProps = true

		case tcObjectTable:
			if doc != nil {
				return nil, malformed("duplicate object table at offset %d", off)
			}
			doc, err = decodeObjectTable(payload, maxTable)
			if err != nil {
				return nil, err
			}

		case tcEndOfFile:
			if len(payload) != 8 {
				return nil, malformed("end mark payload is %d bytes", len(payload))
			}
			if total := byteOrder.Uint64(payload); total != uint64(next) {
				return nil, malformed("end mark length %d, file length %d", total, next)
			}
			if next != len(data) {
				return nil, malformed("%d trailing bytes after end mark", len(data)-next)
			}
			sawEnd = true

		default:
			// Unknown chunks are skipped so newer writers stay readable.
		}
		off = next
	}

	if !sawProps {
		return nil, malformed("missing properties")
	}
	if doc == nil {
		return nil, malformed("missing object table")
	}
	if !sawEnd {
		return nil, malformed("missing end mark")
	}
	return doc, nil
}

func decodeObjectTable(payload []byte, maxTable int64) (*domain.Document, error) {
	if len(payload) < 1 {
		return nil, malformed("object table: empty payload")
	}
	flags, body := payload[0], payload[1:]
	if flags&^flagCompressed != 0 {
		return nil, malformed("object table: unknown flags %#x", flags)
	}
	if flags&flagCompressed != 0 {
		var err error
		body, err = inflate(body, maxTable)
		if errors.Is(err, errTableTooLarge) {
			return nil, malformed("object table: decompressed size exceeds %d bytes", maxTable)
		}
		if err != nil {
			return nil, malformed("object table: %v", err)
		}
	}

	count, off, err := readUint32(body, 0)
	if err != nil {
		return nil, malformed("object table: %v", err)
	}
	if int64(count)*minRecordLen > int64(len(body)-off) {
		return nil, malformed("object table: %d objects do not fit in %d bytes", count, len(body)-off)
	}

	doc := domain.NewDocument()
	for i := 0; i < int(count); i++ {
		geom, attrs, next, err := readRecord(body, off)
		if err != nil {
			return nil, malformed("object %d: %v", i, err)
		}
		doc.Objects().Add(geom, &attrs)
		off = next
	}
	if off != len(body) {
		return nil, malformed("object table: %d trailing bytes", len(body)-off)
	}
	return doc, nil
}

func readRecord(b []byte, off int) (domain.Geometry, domain.Attributes, int, error) {
	var attrs domain.Attributes
	if len(b)-off < minRecordLen {
		return nil, attrs, off, io.ErrUnexpectedEOF
	}

	kind := domain.ShapeKind(b[off])
	off++
	if kind != domain.ShapeSphere {
		return nil, attrs, off, fmt.Errorf("unknown geometry %s", kind)
	}

	var vals [4]float64
	for i := range vals {
		vals[i] = math.Float64frombits(byteOrder.Uint64(b[off:]))
		off += 8
	}
	sphere := domain.Sphere{
		Center: domain.Point3{X: vals[0], Y: vals[1], Z: vals[2]},
		Radius: vals[3],
	}
	if !domain.ValidRadius(sphere.Radius) {
		return nil, attrs, off, fmt.Errorf("invalid radius %v", sphere.Radius)
	}

	copy(attrs.ID[:], b[off:off+16])
	off += 16

	n, off, err := readUint32(b, off)
	if err != nil {
		return nil, attrs, off, err
	}
	if int64(n)*minUserStringLen > int64(len(b)-off) {
		return nil, attrs, off, fmt.Errorf("%d user strings do not fit", n)
	}
	for i := 0; i < int(n); i++ {
		var key, value string
		key, off, err = readString(b, off)
		if err != nil {
			return nil, attrs, off, fmt.Errorf("user string %d key: %w", i, err)
		}
		value, off, err = readString(b, off)
		if err != nil {
			return nil, attrs, off, fmt.Errorf("user string %d value: %w", i, err)
		}
		attrs.SetUserString(key, value)
	}

	return sphere, attrs, off, nil
}

func writeChunk(w *bytes.Buffer, tc uint32, payload []byte) {
	writeUint32(w, tc)
	writeUint32(w, uint32(len(payload)))
	w.Write(payload)
	writeUint32(w, crc32.ChecksumIEEE(payload))
}

func readChunk(data []byte, off int) (tc uint32, payload []byte, next int, err error) {
	if len(data)-off < 8 {
		return 0, nil, off, malformed("truncated chunk header at offset %d", off)
	}
	tc = byteOrder.Uint32(data[off:])
	length := int64(byteOrder.Uint32(data[off+4:]))
	start := off + 8
	if length+4 > int64(len(data)-start) {
		return 0, nil, off, malformed("chunk %#08x at offset %d overruns input", tc, off)
	}
	end := start + int(length)
	payload = data[start:end]
	if want, got := byteOrder.Uint32(data[end:]), crc32.ChecksumIEEE(payload); want != got {
		return 0, nil, off, malformed("chunk %#08x at offset %d: crc mismatch", tc, off)
	}
	return tc, payload, end + 4, nil
}

func writeUint32(w *bytes.Buffer, v uint32) {
	var b [4]byte
	byteOrder.PutUint32(b[:], v)
	w.Write(b[:])
}

func writeFloat64(w *bytes.Buffer, v float64) {
	var b [8]byte
	byteOrder.PutUint64(b[:], math.Float64bits(v))
	w.Write(b[:])
}

func writeString(w *bytes.Buffer, s string) {
	writeUint32(w, uint32(len(s)))
	w.WriteString(s)
}

func readUint32(b []byte, off int) (uint32, int, error) {
	if len(b)-off < 4 {
		return 0, off, io.ErrUnexpectedEOF
	}
	return byteOrder.Uint32(b[off:]), off + 4, nil
}

func readString(b []byte, off int) (string, int, error) {
	n, off, err := readUint32(b, off)
	if err != nil {
		return "", off, err
	}
	if int64(n) > int64(len(b)-off) {
		return "", off, io.ErrUnexpectedEOF
	}
	s := b[off : off+int(n)]
	if !utf8.Valid(s) {
		return "", off, fmt.Errorf("invalid utf-8")
	}
	return string(s), off + int(n), nil
}

func deflate(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(b); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}
	return buf.Bytes(), nil
}

var errTableTooLarge = errors.New("decompressed object table too large")

func inflate(b []byte, limit int64) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib reader: %w", err)
	}
	defer zr.Close()

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(zr, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	if n > limit {
		return nil, errTableTooLarge
	}
	return buf.Bytes(), nil
}
