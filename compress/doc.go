// Package compress provides the payload codecs for structure record buffers.
//
// A structure payload is the concatenation of fixed-size records written by
// structure.Encoder. Records repeat the same layout, so general purpose
// compressors shrink them well, especially when members hold slowly varying
// values or zero padding.
//
// # Codecs
//
// Every codec implements Codec:
//
//	type Codec interface {
//	    Compress(data []byte) ([]byte, error)
//	    Decompress(data []byte) ([]byte, error)
//	}
//
// The available algorithms, selected by format.CompressionType:
//   - format.CompressionNone: NoOpCompressor, returns its input unchanged
//   - format.CompressionZstd: ZstdCompressor, best ratio
//   - format.CompressionS2: S2Compressor, balanced speed and ratio
//   - format.CompressionLZ4: LZ4Compressor, fastest decompression
//
// Zstandard uses the pure Go klauspost/compress implementation. Building with
// the gozstd tag (and cgo enabled) switches to the libzstd binding from
// valyala/gozstd; both produce standard zstd frames.
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionS2)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(records)
//	records, err = codec.Decompress(packed)
//
// Structure arrays decompress a payload once at construction:
//
//	arr, err := structure.NewArrayStructureBB(sm, []int{n}, packed,
//	    structure.WithCompression(format.CompressionS2))
//
// # Thread Safety
//
// All codecs are stateless values and safe for concurrent use. Zstd shares one
// encoder and one decoder process-wide; LZ4 compressors are pooled.
package compress
