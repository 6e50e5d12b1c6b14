package dng

const version = "1.0"

// software is the producer signature written into every container.
const software = "godng " + version

const (
	headerLen   = 8  // byte order mark, magic, first IFD offset
	ifdEntryLen = 12 // tag, type, count, value/offset
	ifdCountLen = 2  // entry count prefix
	ifdNextLen  = 4  // next-IFD pointer suffix

	// Directory entry values wider than this spill into the overflow region.
	entryValueLen = 4
)

// Compression schemes (TIFF tag 259).
const (
	CompressionNone    = 1
	CompressionLJ92    = 7 // lossless JPEG, 1992 process
	CompressionDeflate = 8 // zlib streams, required for float samples by DNG 1.4
)

// Sample formats (TIFF tag 339).
const (
	SampleUint  = 1
	SampleFloat = 3
)

// Photometric interpretations commonly carried by caller tags.
const (
	PhotometricBlackIsZero = 1
	PhotometricRGB         = 2
	PhotometricCFA         = 32803
	PhotometricLinearRaw   = 34892
)

var (
	dngVersion10 = []byte{1, 0, 0, 0}
	dngVersion14 = []byte{1, 4, 0, 0}
)
