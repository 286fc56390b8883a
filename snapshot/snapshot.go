package snapshot

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/voctree/distance"
	"github.com/hupe1980/voctree/model"
	"github.com/hupe1980/voctree/recognizer"
	"github.com/hupe1980/voctree/resource"
)

// Format: magic, version, compression byte, then the payload stream
// (compressed according to the compression byte):
//
//	norm uint8 | minDepth int32 | capFraction float64 | capLength int32
//	imageCount uint32 | imageCount * uint32
//	nodeCount uint32 | per node: entryCount uint32, entryCount * int32,
//	                             entryCount * float32
var magic = [4]byte{'V', 'T', 'R', 'E'}

const version = uint8(1)

var (
	// ErrBadMagic is returned when the stream is not a voctree snapshot.
	ErrBadMagic = errors.New("not a voctree snapshot")

	// ErrUnsupportedVersion is returned for snapshots written by a newer
	// format revision.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")

	// ErrCorrupt is returned when the stream is structurally invalid.
	ErrCorrupt = errors.New("corrupt snapshot")
)

// Compression selects the payload compression algorithm.
type Compression uint8

const (
	// CompressionNone stores the payload uncompressed.
	CompressionNone Compression = 0
	// CompressionLZ4 favors speed.
	CompressionLZ4 Compression = 1
	// CompressionZstd favors ratio.
	CompressionZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionLZ4:
		return "LZ4"
	case CompressionZstd:
		return "Zstd"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(c))
	}
}

// Options contains configuration options for writing snapshots.
type Options struct {
	// Compression selects the payload codec.
	Compression Compression

	// Controller, when non-nil, throttles write throughput against the
	// controller's IO budget.
	Controller *resource.Controller
}

// DefaultOptions contains the default configuration options for writing snapshots.
var DefaultOptions = Options{
	Compression: CompressionZstd,
}

// throttledWriter charges every write against the resource controller's IO
// budget before passing it on.
type throttledWriter struct {
	ctx  context.Context
	w    io.Writer
	ctrl *resource.Controller
}

func (tw *throttledWriter) Write(p []byte) (int, error) {
	if err := tw.ctrl.WaitIO(tw.ctx, len(p)); err != nil {
		return 0, err
	}
	return tw.w.Write(p)
}

// Write serializes a database state to w.
func Write(ctx context.Context, w io.Writer, s recognizer.State, optFns ...func(o *Options)) error {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Controller != nil {
		w = &throttledWriter{ctx: ctx, w: w, ctrl: opts.Controller}
	}

	bw := bufio.NewWriter(w)

	if _, err := bw.Write(magic[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := bw.WriteByte(version); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := bw.WriteByte(byte(opts.Compression)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	payload, closer, err := compressWriter(bw, opts.Compression)
	if err != nil {
		return err
	}

	if err := writePayload(payload, s); err != nil {
		return err
	}

	if closer != nil {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("flush compressor: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}

	return nil
}

// Read deserializes a database state from r. The result still has to be
// handed to Recognizer.Restore, which validates it against the tree.
func Read(r io.Reader) (recognizer.State, error) {
	br := bufio.NewReader(r)

	var header [6]byte
	if _, err := io.ReadFull(br, header[:]); err != nil {
		return recognizer.State{}, fmt.Errorf("read header: %w", err)
	}

	if [4]byte(header[:4]) != magic {
		return recognizer.State{}, ErrBadMagic
	}

	if header[4] != version {
		return recognizer.State{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, header[4])
	}

	payload, closer, err := decompressReader(br, Compression(header[5]))
	if err != nil {
		return recognizer.State{}, err
	}
	if closer != nil {
		defer closer.Close()
	}

	return readPayload(payload)
}

func compressWriter(w io.Writer, c Compression) (io.Writer, io.Closer, error) {
	switch c {
	case CompressionNone:
		return w, nil, nil
	case CompressionLZ4:
		lw := lz4.NewWriter(w)
		return lw, lw, nil
	case CompressionZstd:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, nil, fmt.Errorf("zstd writer: %w", err)
		}
		return zw, zw, nil
	default:
		return nil, nil, fmt.Errorf("unsupported compression: %v", c)
	}
}

func decompressReader(r io.Reader, c Compression) (io.Reader, io.Closer, error) {
	switch c {
	case CompressionNone:
		return r, nil, nil
	case CompressionLZ4:
		return lz4.NewReader(r), nil, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd reader: %w", err)
		}
		return zr.IOReadCloser(), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown compression %d", ErrCorrupt, uint8(c))
	}
}

func writePayload(w io.Writer, s recognizer.State) error {
	write := func(v any) error {
		return binary.Write(w, binary.LittleEndian, v)
	}

	if err := write(uint8(s.Options.Norm)); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := write(int32(s.Options.MinDepth)); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := write(s.Options.MaxNodeImages.Fraction); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := write(int32(s.Options.MaxNodeImages.Length)); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	if err := write(uint32(len(s.Images))); err != nil {
		return fmt.Errorf("write images: %w", err)
	}
	if err := write(s.Images); err != nil {
		return fmt.Errorf("write images: %w", err)
	}

	if err := write(uint32(len(s.Files))); err != nil {
		return fmt.Errorf("write inverted files: %w", err)
	}

	for i := range s.Files {
		f := &s.Files[i]

		if len(f.Images) != len(f.Weights) {
			return fmt.Errorf("node %d: %d images but %d weights", i, len(f.Images), len(f.Weights))
		}

		if err := write(uint32(len(f.Images))); err != nil {
			return fmt.Errorf("write node %d: %w", i, err)
		}
		if err := write(f.Images); err != nil {
			return fmt.Errorf("write node %d: %w", i, err)
		}
		if err := write(f.Weights); err != nil {
			return fmt.Errorf("write node %d: %w", i, err)
		}
	}

	return nil
}

func readPayload(r io.Reader) (recognizer.State, error) {
	read := func(v any) error {
		return binary.Read(r, binary.LittleEndian, v)
	}

	var s recognizer.State

	var norm uint8
	var minDepth, capLength int32
	var capFraction float64

	if err := read(&norm); err != nil {
		return s, fmt.Errorf("%w: config: %w", ErrCorrupt, err)
	}
	if err := read(&minDepth); err != nil {
		return s, fmt.Errorf("%w: config: %w", ErrCorrupt, err)
	}
	if err := read(&capFraction); err != nil {
		return s, fmt.Errorf("%w: config: %w", ErrCorrupt, err)
	}
	if err := read(&capLength); err != nil {
		return s, fmt.Errorf("%w: config: %w", ErrCorrupt, err)
	}

	s.Options = recognizer.Options{
		MinDepth:      int(minDepth),
		MaxNodeImages: recognizer.Cap{Fraction: capFraction, Length: int(capLength)},
		Norm:          distance.Kind(norm),
	}

	var imageCount uint32
	if err := read(&imageCount); err != nil {
		return s, fmt.Errorf("%w: image count: %w", ErrCorrupt, err)
	}

	s.Images = make([]model.ImageID, imageCount)
	if err := read(s.Images); err != nil {
		return s, fmt.Errorf("%w: images: %w", ErrCorrupt, err)
	}

	var nodeCount uint32
	if err := read(&nodeCount); err != nil {
		return s, fmt.Errorf("%w: node count: %w", ErrCorrupt, err)
	}

	s.Files = make([]recognizer.InvertedFile, nodeCount)
	for i := range s.Files {
		var entries uint32
		if err := read(&entries); err != nil {
			return s, fmt.Errorf("%w: node %d: %w", ErrCorrupt, i, err)
		}

		if entries > imageCount {
			return s, fmt.Errorf("%w: node %d: %d entries for %d images", ErrCorrupt, i, entries, imageCount)
		}

		if entries == 0 {
			continue
		}

		s.Files[i].Images = make([]int32, entries)
		s.Files[i].Weights = make([]float32, entries)

		if err := read(s.Files[i].Images); err != nil {
			return s, fmt.Errorf("%w: node %d: %w", ErrCorrupt, i, err)
		}
		if err := read(s.Files[i].Weights); err != nil {
			return s, fmt.Errorf("%w: node %d: %w", ErrCorrupt, i, err)
		}
	}

	return s, nil
}
