package registry

import "testing"

func TestStorageRegistryOrder(t *testing.T) {
	r := NewStorageRegistry()
	r.Insert(0x00020001, "emmc", "Internal")
	r.Insert(0x00010001, "sdmc", "SD Card")

	ids := r.IDs()
	want := []uint32{0x00020001, 0x00010001}
	if len(ids) != len(want) {
		t.Fatalf("IDs() = %v, want %v", ids, want)
	}
	for i, id := range want {
		if ids[i] != id {
			t.Errorf("IDs()[%d] = %#x, want %#x", i, ids[i], id)
		}
	}
}

func TestStorageRegistryLookup(t *testing.T) {
	r := NewStorageRegistry()
	r.Insert(0x00010001, "sdmc", "SD Card")

	entry, ok := r.Lookup(0x00010001)
	if !ok {
		t.Fatal("Lookup returned ok=false for registered id")
	}
	if entry.MountPrefix != "sdmc" || entry.Label != "SD Card" {
		t.Errorf("entry = %+v, want {sdmc SD Card}", entry)
	}

	if _, ok := r.Lookup(0xFFFFFFFF); ok {
		t.Error("Lookup returned ok=true for unregistered id")
	}
}

func TestFindByPrefix(t *testing.T) {
	r := NewStorageRegistry()
	r.Insert(0x00010001, "sdmc", "SD Card")

	id, ok := r.FindByPrefix("sdmc:/dir/file.bin")
	if !ok || id != 0x00010001 {
		t.Errorf("FindByPrefix = (%#x, %v), want (0x10001, true)", id, ok)
	}

	if _, ok := r.FindByPrefix("emmc:/file.bin"); ok {
		t.Error("FindByPrefix matched an unregistered prefix")
	}
}
