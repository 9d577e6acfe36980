// Package hiddesc decodes HID report descriptors far enough to answer
// the questions a raw report transport has to ask: how large are the
// device's input and output reports, and what is its primary usage.
package hiddesc

// Descriptor is the decoded form of a HID report descriptor. Only
// top-level Application Collections appear at the root.
type Descriptor struct {
	Collections []Collection
}

type CollectionType uint8

const (
	CollectionTypePhysical CollectionType = iota
	CollectionTypeApplication
	CollectionTypeLogical
	CollectionTypeReport
	CollectionTypeNamedArray
	CollectionTypeUsageSwitch
	CollectionTypeUsageModifier
)

// Collection groups the report fields declared between a Collection
// item and its matching End Collection. Collections nest.
type Collection struct {
	Type      CollectionType
	UsagePage uint16
	UsageID   uint16
	Items     []Item
}

// ReportKind is the direction of a report field.
type ReportKind uint8

const (
	ReportKindInput ReportKind = iota
	ReportKindOutput
	ReportKindFeature
)

// Item is a oneOf: either a report field or a nested collection.
type Item struct {
	Field      *ReportField
	Collection *Collection
}

// ReportField is one Input, Output or Feature main item together with
// the global state in effect when it was declared. A field with a
// Report Size of 8 and a Report Count of 64 contributes 512 bits to
// its report.
type ReportField struct {
	Kind        ReportKind
	Flags       DataFlags
	UsagePage   uint16
	ReportID    uint8
	ReportSize  uint32
	ReportCount uint32
}

// Bits returns the width of the field within its report.
func (f ReportField) Bits() uint32 {
	return f.ReportSize * f.ReportCount
}

type DataFlags uint32

const (
	DataFlagConstant DataFlags = 1 << iota // 1 = padding, 0 = real data
	DataFlagVariable
	DataFlagRelative
)

func (d DataFlags) IsConstant() bool {
	return d&DataFlagConstant != 0
}

func (d DataFlags) IsVariable() bool {
	return d&DataFlagVariable != 0
}

// Usage is a combined 32-bit usage value: the usage page in the high
// 16 bits and the usage ID in the low 16 bits.
type Usage uint32

func NewUsage(page, id uint16) Usage {
	return Usage(uint32(page)<<16 | uint32(id))
}

func (u Usage) Page() uint16 {
	return uint16(u >> 16)
}

func (u Usage) ID() uint16 {
	return uint16(u)
}

// Walk visits every item in the collection, depth first. Returning
// false stops the walk.
func (c Collection) Walk(fn func(item Item) bool) bool {
	for _, item := range c.Items {
		if !fn(item) {
			return false
		}
		if item.Collection != nil {
			if !item.Collection.Walk(fn) {
				return false
			}
		}
	}
	return true
}

// Walk visits every item in the descriptor, depth first.
func (d Descriptor) Walk(fn func(item Item) bool) {
	for _, c := range d.Collections {
		if !c.Walk(fn) {
			return
		}
	}
}
