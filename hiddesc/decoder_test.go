package hiddesc

import "testing"

// fidoDescriptor is the report descriptor of a typical U2F
// authenticator: one application collection with a 64-byte input
// report and a 64-byte output report, no report IDs.
var fidoDescriptor = []byte{
	0x06, 0xD0, 0xF1, // Usage Page (FIDO Alliance)
	0x09, 0x01, // Usage (U2F Authenticator Device)
	0xA1, 0x01, // Collection (Application)
	0x09, 0x20, //   Usage (Input Report Data)
	0x15, 0x00, //   Logical Minimum (0)
	0x26, 0xFF, 0x00, //   Logical Maximum (255)
	0x75, 0x08, //   Report Size (8)
	0x95, 0x40, //   Report Count (64)
	0x81, 0x02, //   Input (Data,Var,Abs)
	0x09, 0x21, //   Usage (Output Report Data)
	0x15, 0x00,
	0x26, 0xFF, 0x00,
	0x75, 0x08,
	0x95, 0x40,
	0x91, 0x02, //   Output (Data,Var,Abs)
	0xC0, // End Collection
}

// bootMouse nests a physical collection inside the application
// collection and pads the button byte with a constant field.
var bootMouse = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x02, // Usage (Mouse)
	0xA1, 0x01, // Collection (Application)
	0x09, 0x01, //   Usage (Pointer)
	0xA1, 0x00, //   Collection (Physical)
	0x05, 0x09, //     Usage Page (Buttons)
	0x19, 0x01, //     Usage Minimum (1)
	0x29, 0x03, //     Usage Maximum (3)
	0x15, 0x00, //     Logical Minimum (0)
	0x25, 0x01, //     Logical Maximum (1)
	0x95, 0x03, //     Report Count (3)
	0x75, 0x01, //     Report Size (1)
	0x81, 0x02, //     Input (Data,Var,Abs)
	0x95, 0x01, //     Report Count (1)
	0x75, 0x05, //     Report Size (5)
	0x81, 0x01, //     Input (Const) padding
	0x05, 0x01, //     Usage Page (Generic Desktop)
	0x09, 0x30, //     Usage (X)
	0x09, 0x31, //     Usage (Y)
	0x15, 0x81, //     Logical Minimum (-127)
	0x25, 0x7F, //     Logical Maximum (127)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x02, //     Report Count (2)
	0x81, 0x06, //     Input (Data,Var,Rel)
	0xC0, //   End Collection
	0xC0, // End Collection
}

func TestDecodeFido(t *testing.T) {
	desc, err := Decode(fidoDescriptor)
	if err != nil {
		t.Fatal(err)
	}
	if len(desc.Collections) != 1 {
		t.Fatalf("expected 1 top-level collection, got %d", len(desc.Collections))
	}
	c := desc.Collections[0]
	if c.Type != CollectionTypeApplication {
		t.Errorf("collection type: got %d", c.Type)
	}
	if c.UsagePage != 0xF1D0 || c.UsageID != 0x0001 {
		t.Errorf("collection usage: got %04x/%04x", c.UsagePage, c.UsageID)
	}
	if len(c.Items) != 2 {
		t.Fatalf("expected 2 report fields, got %d", len(c.Items))
	}
	in := c.Items[0].Field
	if in == nil || in.Kind != ReportKindInput || in.Bits() != 512 {
		t.Errorf("unexpected input field: %+v", in)
	}
	out := c.Items[1].Field
	if out == nil || out.Kind != ReportKindOutput || out.Bits() != 512 {
		t.Errorf("unexpected output field: %+v", out)
	}
}

func TestDecodeNestedCollections(t *testing.T) {
	desc, err := Decode(bootMouse)
	if err != nil {
		t.Fatal(err)
	}
	if len(desc.Collections) != 1 {
		t.Fatalf("expected 1 top-level collection, got %d", len(desc.Collections))
	}
	c := desc.Collections[0]
	if c.UsagePage != 0x0001 || c.UsageID != 0x0002 {
		t.Errorf("collection usage: got %04x/%04x", c.UsagePage, c.UsageID)
	}
	if len(c.Items) != 1 || c.Items[0].Collection == nil {
		t.Fatalf("expected a single nested collection, got %+v", c.Items)
	}
	nested := c.Items[0].Collection
	if nested.Type != CollectionTypePhysical {
		t.Errorf("nested collection type: got %d", nested.Type)
	}
	fields := 0
	desc.Walk(func(item Item) bool {
		if item.Field != nil {
			fields++
		}
		return true
	})
	if fields != 3 {
		t.Errorf("expected 3 report fields, got %d", fields)
	}
}

func TestDecodeExtendedUsage(t *testing.T) {
	// A 4-byte usage item carries its own usage page.
	data := []byte{
		0x0B, 0x01, 0x00, 0xD0, 0xF1, // Usage (0xF1D00001)
		0xA1, 0x01, // Collection (Application)
		0xC0, // End Collection
	}
	desc, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	c := desc.Collections[0]
	if c.UsagePage != 0xF1D0 || c.UsageID != 0x0001 {
		t.Errorf("collection usage: got %04x/%04x", c.UsagePage, c.UsageID)
	}
}

func TestDecodeEmpty(t *testing.T) {
	desc, err := Decode(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(desc.Collections) != 0 {
		t.Fatalf("expected no collections, got %d", len(desc.Collections))
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"truncated payload", []byte{0x06, 0xD0}},
		{"field outside collection", []byte{0x75, 0x08, 0x95, 0x01, 0x81, 0x02}},
		{"unterminated collection", []byte{0x05, 0x01, 0x09, 0x02, 0xA1, 0x01}},
		{"stray end collection", []byte{0xC0}},
		{"pop on empty stack", []byte{0xB4}},
	}
	for _, tc := range cases {
		if _, err := Decode(tc.data); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestUsageSplit(t *testing.T) {
	u := NewUsage(0xF1D0, 0x0001)
	if uint32(u) != 0xF1D00001 {
		t.Fatalf("combined usage: got %08x", uint32(u))
	}
	if u.Page() != 0xF1D0 || u.ID() != 0x0001 {
		t.Fatalf("split usage: got %04x/%04x", u.Page(), u.ID())
	}
}
