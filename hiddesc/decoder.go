package hiddesc

import (
	"errors"
	"fmt"
)

type globalState struct {
	usagePage   uint16
	reportID    uint8
	reportSize  uint32
	reportCount uint32
}

type localState struct {
	usages []Usage
}

type decoderState struct {
	global      globalState
	globalStack []globalState
	local       localState

	collection      *Collection
	collectionStack []Collection
	collections     []Collection
}

type itemFn func(state *decoderState, payload []byte) error

var itemHandlers = map[Tag]itemFn{
	TagInput:         itemInput,
	TagOutput:        itemOutput,
	TagFeature:       itemFeature,
	TagCollection:    itemCollection,
	TagEndCollection: itemEndCollection,

	TagUsagePage:   itemUsagePage,
	TagReportSize:  itemReportSize,
	TagReportID:    itemReportID,
	TagReportCount: itemReportCount,
	TagPush:        itemPush,
	TagPop:         itemPop,

	TagUsage: itemUsage,
}

// Decode parses the raw report descriptor bytes into a Descriptor.
// Items the transport has no use for (logical and physical bounds,
// units, designators, strings) are validated for framing and skipped.
func Decode(data []byte) (Descriptor, error) {
	state := &decoderState{}
	for i := 0; i < len(data); {
		prefix := data[i]
		if prefix == tagLongItem {
			if i+1 >= len(data) {
				return Descriptor{}, errors.New("truncated long item")
			}
			// Long item: size byte, tag byte, then payload.
			i += 2 + int(data[i+1]) + 1
			continue
		}
		tag := Tag(prefix)
		size := tag.PayloadSize()
		if i+1+size > len(data) {
			return Descriptor{}, fmt.Errorf("truncated item %#02x at offset %d", prefix, i)
		}
		payload := data[i+1 : i+1+size]
		if fn := itemHandlers[tag.Prefix()]; fn != nil {
			if err := fn(state, payload); err != nil {
				return Descriptor{}, fmt.Errorf("item %#02x at offset %d: %w", prefix, i, err)
			}
		}
		i += 1 + size
	}
	if state.collection != nil {
		return Descriptor{}, errors.New("unterminated collection")
	}
	return Descriptor{Collections: state.collections}, nil
}

func (s *decoderState) appendField(kind ReportKind, flags DataFlags) error {
	if s.collection == nil {
		return errors.New("report field outside of a collection")
	}
	s.collection.Items = append(s.collection.Items, Item{
		Field: &ReportField{
			Kind:        kind,
			Flags:       flags,
			UsagePage:   s.global.usagePage,
			ReportID:    s.global.reportID,
			ReportSize:  s.global.reportSize,
			ReportCount: s.global.reportCount,
		},
	})
	s.local = localState{}
	return nil
}

func itemInput(state *decoderState, payload []byte) error {
	return state.appendField(ReportKindInput, DataFlags(itemValue(payload)))
}

func itemOutput(state *decoderState, payload []byte) error {
	return state.appendField(ReportKindOutput, DataFlags(itemValue(payload)))
}

func itemFeature(state *decoderState, payload []byte) error {
	return state.appendField(ReportKindFeature, DataFlags(itemValue(payload)))
}

func itemCollection(state *decoderState, payload []byte) error {
	c := Collection{
		Type:      CollectionType(itemValue(payload)),
		UsagePage: state.global.usagePage,
	}
	if len(state.local.usages) > 0 {
		usage := state.local.usages[0]
		if usage.Page() != 0 {
			c.UsagePage = usage.Page()
		}
		c.UsageID = usage.ID()
	}
	if state.collection != nil {
		state.collectionStack = append(state.collectionStack, *state.collection)
	}
	state.collection = &c
	state.local = localState{}
	return nil
}

func itemEndCollection(state *decoderState, payload []byte) error {
	if state.collection == nil {
		return errors.New("end collection without an open collection")
	}
	if len(state.collectionStack) == 0 {
		state.collections = append(state.collections, *state.collection)
		state.collection = nil
	} else {
		parent := state.collectionStack[len(state.collectionStack)-1]
		parent.Items = append(parent.Items, Item{Collection: state.collection})
		state.collectionStack = state.collectionStack[:len(state.collectionStack)-1]
		state.collection = &parent
	}
	state.local = localState{}
	return nil
}

func itemUsagePage(state *decoderState, payload []byte) error {
	if len(payload) == 0 {
		return errors.New("usage page: payload is missing")
	}
	state.global.usagePage = uint16(itemValue(payload))
	return nil
}

func itemReportSize(state *decoderState, payload []byte) error {
	if len(payload) == 0 {
		return errors.New("report size: payload is missing")
	}
	state.global.reportSize = itemValue(payload)
	return nil
}

func itemReportID(state *decoderState, payload []byte) error {
	if len(payload) == 0 {
		return errors.New("report id: payload is missing")
	}
	state.global.reportID = uint8(itemValue(payload))
	return nil
}

func itemReportCount(state *decoderState, payload []byte) error {
	if len(payload) == 0 {
		return errors.New("report count: payload is missing")
	}
	state.global.reportCount = itemValue(payload)
	return nil
}

func itemPush(state *decoderState, payload []byte) error {
	state.globalStack = append(state.globalStack, state.global)
	return nil
}

func itemPop(state *decoderState, payload []byte) error {
	if len(state.globalStack) == 0 {
		return errors.New("pop: global stack is empty")
	}
	state.global = state.globalStack[len(state.globalStack)-1]
	state.globalStack = state.globalStack[:len(state.globalStack)-1]
	return nil
}

func itemUsage(state *decoderState, payload []byte) error {
	if len(payload) == 0 {
		return errors.New("usage: payload is missing")
	}
	val := itemValue(payload)
	usage := Usage(val)
	if len(payload) < 4 {
		// Page-relative usage; an extended 4-byte usage carries its
		// own page in the high 16 bits.
		usage = NewUsage(state.global.usagePage, uint16(val))
	}
	state.local.usages = append(state.local.usages, usage)
	return nil
}
