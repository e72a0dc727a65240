package atlas

import (
	"errors"
	"testing"
)

// fakeBackend records every command it receives so tests can assert
// upload counts and configured geometry without a real GPU.
type fakeBackend struct {
	size       Size
	props      Properties
	configures int
	uploads    []UploadCommand
	failUpload bool
}

func (f *fakeBackend) AtlasSize() Size { return f.size }

func (f *fakeBackend) ConfigureAtlas(size Size, props Properties) error {
	f.size = size
	f.props = props
	f.configures++
	return nil
}

func (f *fakeBackend) UploadTile(cmd UploadCommand) error {
	if f.failUpload {
		return errors.New("backend upload failed")
	}
	f.uploads = append(f.uploads, cmd)
	return nil
}

func (f *fakeBackend) RenderTile(cmd RenderCommand) error { return nil }

func hashOf(s string) ContentHash {
	return Sum([]byte(s))
}

func simpleFactory(tag string) func(Location, int) FactoryResult[string] {
	return func(loc Location, slot int) FactoryResult[string] {
		return FactoryResult[string]{
			Bitmap:   []byte{1, 2, 3},
			Format:   FormatRGBA8,
			Size:     Size{Width: 8, Height: 8},
			Metadata: tag,
		}
	}
}

func TestGetOrEmplaceUploadsOncePerHash(t *testing.T) {
	be := &fakeBackend{}
	a, err := New[string](be, Config{Format: FormatRGBA8, TileSize: 8, TileCount: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	h := hashOf("glyph-A")
	e1, err := a.GetOrEmplace(h, simpleFactory("A"))
	if err != nil {
		t.Fatalf("first GetOrEmplace: %v", err)
	}
	e2, err := a.GetOrEmplace(h, simpleFactory("A-again"))
	if err != nil {
		t.Fatalf("second GetOrEmplace: %v", err)
	}

	if e1.Location != e2.Location {
		t.Errorf("location changed across a cache hit: %v vs %v", e1.Location, e2.Location)
	}
	if e2.Metadata != "A" {
		t.Errorf("cache hit re-ran the factory: got metadata %q", e2.Metadata)
	}
	if len(be.uploads) != 1 {
		t.Errorf("got %d backend uploads, want 1", len(be.uploads))
	}
	if got := a.Stats(); got.Hits != 1 || got.Misses != 1 || got.Uploads != 1 {
		t.Errorf("got stats %+v, want 1 hit, 1 miss, 1 upload", got)
	}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	be := &fakeBackend{}
	// TileCount:2 -> grid rounds up to 2x2=4 slots, no direct mappings,
	// so LRU capacity is 4. Request a 3rd-beyond-capacity insert pattern
	// by shrinking the capacity explicitly via DirectMappingCount.
	a, err := New[string](be, Config{Format: FormatGray8, TileSize: 4, TileCount: 2, DirectMappingCount: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// Grid is 2x2=4 total slots, 2 reserved direct -> LRU capacity 2.

	hA, hB, hC := hashOf("A"), hashOf("B"), hashOf("C")

	entA, _ := a.GetOrEmplace(hA, simpleFactory("A"))
	a.GetOrEmplace(hB, simpleFactory("B"))
	// Touch A so B becomes the least-recently-used entry.
	a.GetOrEmplace(hA, simpleFactory("A"))

	entC, err := a.GetOrEmplace(hC, simpleFactory("C"))
	if err != nil {
		t.Fatalf("GetOrEmplace C: %v", err)
	}

	if a.Contains(hB) {
		t.Errorf("B should have been evicted as least-recently-used")
	}
	if !a.Contains(hA) || !a.Contains(hC) {
		t.Errorf("A and C should both be resident after evicting B")
	}
	if entC.Location == entA.Location {
		t.Errorf("C landed on A's slot instead of B's freed slot")
	}
	if got := a.Stats().Evictions; got != 1 {
		t.Errorf("got %d evictions, want 1", got)
	}
}

func TestDirectMappingSurvivesLRUEviction(t *testing.T) {
	be := &fakeBackend{}
	a, err := New[string](be, Config{Format: FormatGray8, TileSize: 4, TileCount: 1, DirectMappingCount: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := a.SetDirectMapping(0, FactoryResult[string]{
		Bitmap: []byte{9}, Format: FormatGray8, Size: Size{Width: 4, Height: 4}, Metadata: "cursor",
	}); err != nil {
		t.Fatalf("SetDirectMapping: %v", err)
	}

	// Grid is 2x2=4 slots, 1 direct -> LRU capacity 3. Fill and overflow
	// the LRU range; direct slot 0 must remain untouched.
	a.GetOrEmplace(hashOf("x"), simpleFactory("x"))
	a.GetOrEmplace(hashOf("y"), simpleFactory("y"))
	a.GetOrEmplace(hashOf("z"), simpleFactory("z"))
	a.GetOrEmplace(hashOf("w"), simpleFactory("w"))

	got := a.DirectMapped(0)
	if got.Metadata != "cursor" {
		t.Errorf("direct slot 0 metadata changed to %q, want %q", got.Metadata, "cursor")
	}
}

func TestDirectMappedPanicsWhenUnset(t *testing.T) {
	be := &fakeBackend{}
	a, err := New[string](be, Config{Format: FormatGray8, TileSize: 4, TileCount: 1, DirectMappingCount: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic reading an unset direct slot")
		}
	}()
	a.DirectMapped(0)
}

func TestGetOrTryEmplaceDeclineLeavesNoTrace(t *testing.T) {
	be := &fakeBackend{}
	a, err := New[string](be, Config{Format: FormatGray8, TileSize: 4, TileCount: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	h := hashOf("maybe")
	_, ok, err := a.GetOrTryEmplace(h, func(loc Location, slot int) (FactoryResult[string], bool) {
		return FactoryResult[string]{}, false
	})
	if err != nil || ok {
		t.Fatalf("expected decline to return ok=false, err=nil; got ok=%v err=%v", ok, err)
	}
	if a.Contains(h) {
		t.Errorf("declined factory should not have inserted an entry")
	}
	if len(be.uploads) != 0 {
		t.Errorf("declined factory should not have uploaded anything")
	}

	// The declined slot must be reusable by a subsequent real insert.
	entry, ok, err := a.GetOrTryEmplace(h, func(loc Location, slot int) (FactoryResult[string], bool) {
		return FactoryResult[string]{Size: Size{Width: 4, Height: 4}, Metadata: "real"}, true
	})
	if err != nil || !ok {
		t.Fatalf("expected second attempt to succeed, got ok=%v err=%v", ok, err)
	}
	if entry.Metadata != "real" {
		t.Errorf("got metadata %q, want %q", entry.Metadata, "real")
	}
}

func TestEmplaceForcesFreshUpload(t *testing.T) {
	be := &fakeBackend{}
	a, err := New[string](be, Config{Format: FormatGray8, TileSize: 4, TileCount: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	h := hashOf("stale")
	a.GetOrEmplace(h, simpleFactory("v1"))
	entry, err := a.Emplace(h, simpleFactory("v2"))
	if err != nil {
		t.Fatalf("Emplace: %v", err)
	}
	if entry.Metadata != "v2" {
		t.Errorf("Emplace did not overwrite metadata: got %q", entry.Metadata)
	}
	if len(be.uploads) != 2 {
		t.Errorf("got %d uploads, want 2 (one per Emplace/GetOrEmplace)", len(be.uploads))
	}
}

func TestRemoveFreesSlotForReuse(t *testing.T) {
	be := &fakeBackend{}
	a, err := New[string](be, Config{Format: FormatGray8, TileSize: 4, TileCount: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	h := hashOf("only")
	entry, _ := a.GetOrEmplace(h, simpleFactory("only"))
	if !a.Remove(h) {
		t.Fatalf("Remove reported no entry present")
	}
	if a.Contains(h) {
		t.Errorf("entry still resident after Remove")
	}

	next, err := a.GetOrEmplace(hashOf("other"), simpleFactory("other"))
	if err != nil {
		t.Fatalf("GetOrEmplace after Remove: %v", err)
	}
	if next.Location != entry.Location {
		t.Errorf("freed slot was not reused: got %v, want %v", next.Location, entry.Location)
	}
}

func TestResetSkipsReconfigureWhenGeometryUnchanged(t *testing.T) {
	be := &fakeBackend{}
	cfg := Config{Format: FormatGray8, TileSize: 4, TileCount: 2}
	a, err := New[string](be, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a.GetOrEmplace(hashOf("x"), simpleFactory("x"))

	if err := a.Reset(cfg); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if be.configures != 1 {
		t.Errorf("got %d configureAtlas calls, want 1 (Reset should not reconfigure)", be.configures)
	}
	if a.Contains(hashOf("x")) {
		t.Errorf("Reset did not clear existing entries")
	}
}

func TestResetReconfiguresOnGeometryChange(t *testing.T) {
	be := &fakeBackend{}
	a, err := New[string](be, Config{Format: FormatGray8, TileSize: 4, TileCount: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := a.Reset(Config{Format: FormatGray8, TileSize: 8, TileCount: 2}); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if be.configures != 2 {
		t.Errorf("got %d configureAtlas calls, want 2 (Reset should reconfigure on tileSize change)", be.configures)
	}
}

func TestUploadFailurePropagatesAndReleasesSlot(t *testing.T) {
	be := &fakeBackend{failUpload: true}
	a, err := New[string](be, Config{Format: FormatGray8, TileSize: 4, TileCount: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := a.GetOrEmplace(hashOf("x"), simpleFactory("x")); err == nil {
		t.Fatalf("expected backend upload failure to propagate")
	}
	if a.Contains(hashOf("x")) {
		t.Errorf("failed insert should not have left a cache entry")
	}

	be.failUpload = false
	if _, err := a.GetOrEmplace(hashOf("y"), simpleFactory("y")); err != nil {
		t.Fatalf("slot was not released after failed upload: %v", err)
	}
}

func TestNoDuplicateTileLocationsAmongLiveEntries(t *testing.T) {
	be := &fakeBackend{}
	a, err := New[string](be, Config{Format: FormatGray8, TileSize: 4, TileCount: 4, DirectMappingCount: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	a.SetDirectMapping(0, FactoryResult[string]{Size: Size{Width: 4, Height: 4}, Metadata: "d0"})
	a.SetDirectMapping(1, FactoryResult[string]{Size: Size{Width: 4, Height: 4}, Metadata: "d1"})

	seen := map[Location]string{}
	seen[a.DirectMapped(0).Location] = "direct0"
	seen[a.DirectMapped(1).Location] = "direct1"

	hashes := []string{"a", "b", "c"}
	entries := make(map[string]tileEntry[string])
	for _, h := range hashes {
		e, err := a.GetOrEmplace(hashOf(h), simpleFactory(h))
		if err != nil {
			t.Fatalf("GetOrEmplace(%s): %v", h, err)
		}
		entries[h] = e
	}

	if len(seen) != 2 {
		t.Fatalf("direct slots collided with each other")
	}
	for h, e := range entries {
		if owner, dup := seen[e.Location]; dup {
			t.Errorf("tile location %v used by both %q and %q", e.Location, owner, h)
		}
		seen[e.Location] = h
	}
}

func TestPreloadDirectFillsSlotsInOrder(t *testing.T) {
	be := &fakeBackend{}
	a, err := New[string](be, Config{Format: FormatGray8, TileSize: 4, TileCount: 1, DirectMappingCount: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	entries := []FactoryResult[string]{
		{Metadata: "zero", Size: Size{Width: 4, Height: 4}},
		{Metadata: "one", Size: Size{Width: 4, Height: 4}},
		{Metadata: "two", Size: Size{Width: 4, Height: 4}},
	}
	if err := a.PreloadDirect(entries); err != nil {
		t.Fatalf("PreloadDirect: %v", err)
	}

	for i, want := range []string{"zero", "one", "two"} {
		if got := a.DirectMapped(i).Metadata; got != want {
			t.Errorf("slot %d: got metadata %q, want %q", i, got, want)
		}
	}
}

func TestSlicesChunksWidthCeilDivision(t *testing.T) {
	tests := []struct {
		offsetX, width, tileWidth int
		want                      int
	}{
		{0, 100, 32, 4},  // 100/32 -> ceil to 4
		{0, 96, 32, 3},   // exact division
		{10, 42, 32, 1},  // 32 remaining, exactly one slice
		{10, 43, 32, 2},  // 33 remaining, spills into a second slice
		{0, 10, 0, 0},    // invalid tile width
		{50, 10, 32, 0},  // offset beyond width
	}
	for i, tt := range tests {
		got := Slices(tt.offsetX, tt.width, tt.tileWidth)
		if len(got) != tt.want {
			t.Errorf("%d: Slices(%d,%d,%d) got %d slices, want %d", i, tt.offsetX, tt.width, tt.tileWidth, len(got), tt.want)
		}
	}
}

func TestTileIDPixelRoundTrip(t *testing.T) {
	id := NewTileID(3, 7)
	if id.X() != 3 || id.Y() != 7 {
		t.Fatalf("NewTileID(3,7): got X=%d Y=%d", id.X(), id.Y())
	}
	loc := id.Pixel(16)
	if want := (Location{X: 48, Y: 112}); loc != want {
		t.Errorf("Pixel(16): got %v, want %v", loc, want)
	}
}

func TestSumIsDeterministicAndDistinguishesInput(t *testing.T) {
	a1 := Sum([]byte("hello"))
	a2 := Sum([]byte("hello"))
	b := Sum([]byte("world"))
	if a1 != a2 {
		t.Errorf("Sum is not deterministic")
	}
	if a1 == b {
		t.Errorf("Sum collided on distinct short inputs")
	}
}

func TestConfigureRejectsNonPositiveTileSize(t *testing.T) {
	be := &fakeBackend{}
	_, err := New[string](be, Config{Format: FormatGray8, TileSize: 0, TileCount: 4})
	if err == nil {
		t.Fatalf("expected an error for a zero tile size")
	}
}
