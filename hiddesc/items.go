package hiddesc

// Short items encode their tag, type and payload size in a single
// prefix byte:
//
//	Main items:   xxxx 00 xx
//	Global items: xxxx 01 xx
//	Local items:  xxxx 10 xx
//
// The low two bits select the payload size (0, 1, 2 or 4 bytes), so
// the constants below carry only the upper six bits.
const (
	TagInput         Tag = 0x80
	TagOutput        Tag = 0x90
	TagFeature       Tag = 0xB0
	TagCollection    Tag = 0xA0
	TagEndCollection Tag = 0xC0

	TagUsagePage       Tag = 0x04
	TagLogicalMinimum  Tag = 0x14
	TagLogicalMaximum  Tag = 0x24
	TagPhysicalMinimum Tag = 0x34
	TagPhysicalMaximum Tag = 0x44
	TagUnitExponent    Tag = 0x54
	TagUnit            Tag = 0x64
	TagReportSize      Tag = 0x74
	TagReportID        Tag = 0x84
	TagReportCount     Tag = 0x94
	TagPush            Tag = 0xA4
	TagPop             Tag = 0xB4

	TagUsage        Tag = 0x08
	TagUsageMinimum Tag = 0x18
	TagUsageMaximum Tag = 0x28
)

// tagLongItem introduces a long item: the next two bytes carry the
// payload size and the real tag. Long items are reserved by the HID
// specification and are skipped during decoding.
const tagLongItem = 0xFE

type Tag uint8

// Prefix strips the payload-size bits, leaving the value the Tag
// constants are defined with.
func (t Tag) Prefix() Tag {
	return t & 0xFC
}

// PayloadSize returns the number of payload bytes following the
// prefix byte.
func (t Tag) PayloadSize() int {
	switch t & 0x03 {
	case 0:
		return 0
	case 1:
		return 1
	case 2:
		return 2
	default:
		return 4
	}
}

// itemValue decodes an unsigned little-endian item payload of 0, 1, 2
// or 4 bytes.
func itemValue(payload []byte) uint32 {
	switch len(payload) {
	case 1:
		return uint32(payload[0])
	case 2:
		return uint32(payload[1])<<8 | uint32(payload[0])
	case 4:
		return uint32(payload[3])<<24 | uint32(payload[2])<<16 | uint32(payload[1])<<8 | uint32(payload[0])
	default:
		return 0
	}
}
