package dng

// FieldType is an on-disk TIFF value type (p. 14-16 of the TIFF 6.0 spec).
type FieldType uint16

const (
	TypeByte      FieldType = 1
	TypeASCII     FieldType = 2
	TypeShort     FieldType = 3
	TypeLong      FieldType = 4
	TypeRational  FieldType = 5
	TypeSByte     FieldType = 6
	TypeUndefined FieldType = 7
	TypeSShort    FieldType = 8
	TypeSLong     FieldType = 9
	TypeSRational FieldType = 10
	TypeFloat     FieldType = 11
	TypeDouble    FieldType = 12
)

// typeSizes holds the byte length of one value of each field type, indexed by
// the type itself.
var typeSizes = [...]uint32{0, 1, 1, 2, 4, 8, 1, 1, 2, 4, 8, 4, 8}

func (t FieldType) size() uint32 {
	if int(t) >= len(typeSizes) {
		return 0
	}
	return typeSizes[t]
}

// TagID is a TIFF/DNG tag number. The numeric ids and their value types come
// from the TIFF 6.0 and DNG 1.4 registries and are not extensible here;
// callers supply values, never new vocabulary.
type TagID uint16

const (
	TagNewSubfileType            TagID = 254
	TagImageWidth                TagID = 256
	TagImageLength               TagID = 257
	TagBitsPerSample             TagID = 258
	TagCompression               TagID = 259
	TagPhotometricInterpretation TagID = 262
	TagFillOrder                 TagID = 266
	TagImageDescription          TagID = 270
	TagMake                      TagID = 271
	TagModel                     TagID = 272
	TagStripOffsets              TagID = 273
	TagOrientation               TagID = 274
	TagSamplesPerPixel           TagID = 277
	TagRowsPerStrip              TagID = 278
	TagStripByteCounts           TagID = 279
	TagXResolution               TagID = 282
	TagYResolution               TagID = 283
	TagPlanarConfiguration       TagID = 284
	TagResolutionUnit            TagID = 296
	TagSoftware                  TagID = 305
	TagDateTime                  TagID = 306
	TagTileWidth                 TagID = 322
	TagTileLength                TagID = 323
	TagSampleFormat              TagID = 339
	TagCFARepeatPatternDim       TagID = 33421
	TagCFAPattern                TagID = 33422
	TagExposureTime              TagID = 33434
	TagFNumber                   TagID = 33437
	TagISOSpeedRatings           TagID = 34855
	TagFocalLength               TagID = 37386
	TagEXIFVersion               TagID = 36864
	TagDNGVersion                TagID = 50706
	TagDNGBackwardVersion        TagID = 50707
	TagUniqueCameraModel         TagID = 50708
	TagCFAPlaneColor             TagID = 50710
	TagCFALayout                 TagID = 50711
	TagBlackLevelRepeatDim       TagID = 50713
	TagBlackLevel                TagID = 50714
	TagWhiteLevel                TagID = 50717
	TagDefaultScale              TagID = 50718
	TagDefaultCropOrigin         TagID = 50719
	TagDefaultCropSize           TagID = 50720
	TagColorMatrix1              TagID = 50721
	TagColorMatrix2              TagID = 50722
	TagCameraCalibration1        TagID = 50723
	TagCameraCalibration2        TagID = 50724
	TagAsShotNeutral             TagID = 50728
	TagBaselineExposure          TagID = 50730
	TagBaselineNoise             TagID = 50731
	TagBaselineSharpness         TagID = 50732
	TagLinearResponseLimit       TagID = 50734
	TagCalibrationIlluminant1    TagID = 50778
	TagCalibrationIlluminant2    TagID = 50779
	TagActiveArea                TagID = 50829
	TagPreviewColorSpace         TagID = 50970
)

// tagTypes fixes the field type each tag is encoded with.
var tagTypes = map[TagID]FieldType{
	TagNewSubfileType:            TypeLong,
	TagImageWidth:                TypeLong,
	TagImageLength:               TypeLong,
	TagBitsPerSample:             TypeShort,
	TagCompression:               TypeShort,
	TagPhotometricInterpretation: TypeShort,
	TagFillOrder:                 TypeShort,
	TagImageDescription:          TypeASCII,
	TagMake:                      TypeASCII,
	TagModel:                     TypeASCII,
	TagStripOffsets:              TypeLong,
	TagOrientation:               TypeShort,
	TagSamplesPerPixel:           TypeShort,
	TagRowsPerStrip:              TypeLong,
	TagStripByteCounts:           TypeLong,
	TagXResolution:               TypeRational,
	TagYResolution:               TypeRational,
	TagPlanarConfiguration:       TypeShort,
	TagResolutionUnit:            TypeShort,
	TagSoftware:                  TypeASCII,
	TagDateTime:                  TypeASCII,
	TagTileWidth:                 TypeLong,
	TagTileLength:                TypeLong,
	TagSampleFormat:              TypeShort,
	TagCFARepeatPatternDim:       TypeShort,
	TagCFAPattern:                TypeByte,
	TagExposureTime:              TypeRational,
	TagFNumber:                   TypeRational,
	TagISOSpeedRatings:           TypeShort,
	TagFocalLength:               TypeRational,
	TagEXIFVersion:               TypeUndefined,
	TagDNGVersion:                TypeByte,
	TagDNGBackwardVersion:        TypeByte,
	TagUniqueCameraModel:         TypeASCII,
	TagCFAPlaneColor:             TypeByte,
	TagCFALayout:                 TypeShort,
	TagBlackLevelRepeatDim:       TypeShort,
	TagBlackLevel:                TypeShort,
	TagWhiteLevel:                TypeShort,
	TagDefaultScale:              TypeRational,
	TagDefaultCropOrigin:         TypeLong,
	TagDefaultCropSize:           TypeLong,
	TagColorMatrix1:              TypeSRational,
	TagColorMatrix2:              TypeSRational,
	TagCameraCalibration1:        TypeSRational,
	TagCameraCalibration2:        TypeSRational,
	TagAsShotNeutral:             TypeRational,
	TagBaselineExposure:          TypeSRational,
	TagBaselineNoise:             TypeRational,
	TagBaselineSharpness:         TypeRational,
	TagLinearResponseLimit:       TypeRational,
	TagCalibrationIlluminant1:    TypeShort,
	TagCalibrationIlluminant2:    TypeShort,
	TagActiveArea:                TypeLong,
	TagPreviewColorSpace:         TypeLong,
}
