package hiddesc

import "errors"

// ErrEmptyDescriptor is returned by Summarize when the descriptor
// declares no top-level collection, which means the device exchanges
// no reports at all.
var ErrEmptyDescriptor = errors.New("hiddesc: descriptor has no top-level collection")

// Summary holds the aggregate facts a report transport needs from a
// descriptor: the size of the largest report in each direction and the
// device's primary usage.
type Summary struct {
	// MaxInputLen and MaxOutputLen are report sizes in bytes,
	// including the report-ID prefix byte when the device uses
	// numbered reports. 0 means no reports in that direction.
	MaxInputLen  int
	MaxOutputLen int

	UsagePage uint16
	UsageID   uint16
}

// Usage returns the combined 32-bit usage value of the first
// top-level collection.
func (s Summary) Usage() Usage {
	return NewUsage(s.UsagePage, s.UsageID)
}

// Summarize derives a Summary from a decoded descriptor. The usage
// page and usage ID come from the first top-level collection, matching
// the first parsed item of the raw byte stream.
func Summarize(desc Descriptor) (Summary, error) {
	if len(desc.Collections) == 0 {
		return Summary{}, ErrEmptyDescriptor
	}
	first := desc.Collections[0]
	s := Summary{
		UsagePage: first.UsagePage,
		UsageID:   first.UsageID,
	}

	inputBits := make(map[uint8]uint32)
	outputBits := make(map[uint8]uint32)
	numbered := false
	desc.Walk(func(item Item) bool {
		f := item.Field
		if f == nil {
			return true
		}
		if f.ReportID != 0 {
			numbered = true
		}
		switch f.Kind {
		case ReportKindInput:
			inputBits[f.ReportID] += f.Bits()
		case ReportKindOutput:
			outputBits[f.ReportID] += f.Bits()
		}
		return true
	})

	s.MaxInputLen = maxReportBytes(inputBits, numbered)
	s.MaxOutputLen = maxReportBytes(outputBits, numbered)
	return s, nil
}

func maxReportBytes(bitsPerReport map[uint8]uint32, numbered bool) int {
	max := 0
	for _, bits := range bitsPerReport {
		n := int((bits + 7) / 8)
		if n > max {
			max = n
		}
	}
	if max > 0 && numbered {
		// Numbered reports travel with a leading report-ID byte.
		max++
	}
	return max
}
