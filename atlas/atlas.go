// Package atlas implements the fixed-grid texture atlas cache: an
// LRU-governed tile cache mediating between a glyph/image rasterizer and
// an opaque GPU backend. It guarantees at most one backend upload per
// distinct content hash, bounds memory via a fixed slot grid, and exposes
// a parallel direct-mapped slot range exempt from eviction.
package atlas

import "fmt"

// Config describes the geometry an Atlas should construct: the tile
// bitmap format, the size of one tile in pixels, how many LRU-managed
// tiles to provision for, and how many additional slots to reserve as
// direct mappings.
type Config struct {
	Format             Format
	TileSize           int
	TileCount          int
	DirectMappingCount int
}

// Stats reports cache activity for diagnostics; it never affects cache
// behavior.
type Stats struct {
	Hits      int
	Misses    int
	Evictions int
	Uploads   int
}

// FactoryResult is what a factory function hands back to populate a tile
// slot: its bitmap, the bitmap's format and pixel size, and whatever
// metadata payload the caller wants cached alongside it.
type FactoryResult[M any] struct {
	Bitmap   []byte
	Format   Format
	Size     Size
	Metadata M
}

// Atlas maps content hashes to fixed-size tile coordinates inside a
// rectangular texture, enforcing LRU eviction and one-upload-per-hash
// semantics, and forwards configure/upload/render commands to a backend.
// It is not internally synchronized — per spec.md §5, a caller sharing
// one Atlas across goroutines must provide its own mutual exclusion.
type Atlas[M any] struct {
	backend Backend
	props   Properties

	tilesInX, tilesInY int
	locations          []Location

	direct *directSlots[M]
	lru    *lru[M]

	stats Stats
}

// New constructs an Atlas and issues a single configureAtlas command to
// backend, per spec.md §4.2.1.
func New[M any](backend Backend, cfg Config) (*Atlas[M], error) {
	a := &Atlas[M]{backend: backend}
	if err := a.configure(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

// configure derives the atlas's grid geometry from cfg and issues
// configureAtlas. It is shared by New and by Reset when the requested
// geometry changed.
func (a *Atlas[M]) configure(cfg Config) error {
	if cfg.TileSize <= 0 {
		return fmt.Errorf("atlas: tileSize must be positive, got %d", cfg.TileSize)
	}
	if cfg.DirectMappingCount < 0 {
		return fmt.Errorf("atlas: directMappingCount must be non-negative, got %d", cfg.DirectMappingCount)
	}

	total := cfg.TileCount + cfg.DirectMappingCount
	tilesPerEdge := dims(total)
	totalSlots := tilesPerEdge * tilesPerEdge

	if totalSlots < total {
		return fmt.Errorf("atlas: derived grid %dx%d cannot hold %d requested slots", tilesPerEdge, tilesPerEdge, total)
	}
	if cfg.DirectMappingCount > totalSlots {
		return fmt.Errorf("atlas: directMappingCount %d exceeds grid capacity %d", cfg.DirectMappingCount, totalSlots)
	}

	size := Size{Width: tilesPerEdge * cfg.TileSize, Height: tilesPerEdge * cfg.TileSize}
	props := Properties{
		Format:             cfg.Format,
		TileSize:           cfg.TileSize,
		TileCount:          cfg.TileCount,
		DirectMappingCount: cfg.DirectMappingCount,
	}
	if err := a.backend.ConfigureAtlas(size, props); err != nil {
		return fmt.Errorf("atlas: configure backend: %w", err)
	}

	a.props = props
	a.tilesInX = tilesPerEdge
	a.tilesInY = tilesPerEdge
	a.locations = tileLocations(tilesPerEdge, totalSlots, cfg.TileSize)
	a.direct = newDirectSlots[M](cfg.DirectMappingCount)
	a.lru = newLRU[M](totalSlots - cfg.DirectMappingCount)
	a.stats = Stats{}
	return nil
}

// TileLocation returns the pixel origin of slot index in the grid,
// independent of whether that slot is currently live, letting a caller
// that only holds a raw index compute coordinates without consulting
// atlas dimensions beyond this one call.
func (a *Atlas[M]) TileLocation(index int) Location {
	return a.locations[index]
}

// Stats returns a snapshot of the atlas's cache counters.
func (a *Atlas[M]) Stats() Stats {
	return a.stats
}

// Contains reports whether hash currently has a live LRU entry. Direct
// mappings are never hash-keyed and are not considered.
func (a *Atlas[M]) Contains(hash ContentHash) bool {
	return a.lru.Contains(hash)
}

// TryGet returns hash's entry without invoking a factory, promoting it to
// most-recently-used on a hit.
func (a *Atlas[M]) TryGet(hash ContentHash) (tileEntry[M], bool) {
	e, ok := a.lru.Get(hash)
	if ok {
		a.stats.Hits++
	} else {
		a.stats.Misses++
	}
	return e, ok
}

// GetOrEmplace returns hash's entry, promoting it to most-recently-used on
// a hit. On a miss it invokes factory with the slot's pixel location and
// logical slot index, uploads the resulting bitmap to the backend exactly
// once, and caches the result. If the table is already at capacity, the
// new entry takes the current least-recently-used entry's slot, and that
// entry is evicted only once the upload has succeeded.
func (a *Atlas[M]) GetOrEmplace(hash ContentHash, factory func(loc Location, slot int) FactoryResult[M]) (tileEntry[M], error) {
	if e, ok := a.lru.Get(hash); ok {
		a.stats.Hits++
		return e, nil
	}
	a.stats.Misses++

	alloc := a.lru.reserve()
	loc := a.locations[a.props.DirectMappingCount+alloc.slot]
	res := factory(loc, alloc.slot)

	if err := a.upload(loc, res); err != nil {
		a.lru.abort(alloc)
		return tileEntry[M]{}, err
	}

	entry := tileEntry[M]{Location: loc, Size: res.Size, Metadata: res.Metadata}
	if _, evicted := a.lru.commit(alloc, hash, entry); evicted {
		a.stats.Evictions++
	}
	return entry, nil
}

// GetOrTryEmplace is GetOrEmplace, except factory may decline by returning
// ok=false, in which case no upload happens, nothing is inserted, and the
// call returns a zero entry and false. A decline at capacity leaves the
// least-recently-used resident untouched, since the reservation is never
// committed.
func (a *Atlas[M]) GetOrTryEmplace(hash ContentHash, factory func(loc Location, slot int) (FactoryResult[M], bool)) (tileEntry[M], bool, error) {
	if e, ok := a.lru.Get(hash); ok {
		a.stats.Hits++
		return e, true, nil
	}
	a.stats.Misses++

	alloc := a.lru.reserve()
	loc := a.locations[a.props.DirectMappingCount+alloc.slot]
	res, ok := factory(loc, alloc.slot)
	if !ok {
		a.lru.abort(alloc)
		return tileEntry[M]{}, false, nil
	}

	if err := a.upload(loc, res); err != nil {
		a.lru.abort(alloc)
		return tileEntry[M]{}, false, err
	}

	entry := tileEntry[M]{Location: loc, Size: res.Size, Metadata: res.Metadata}
	if _, evicted := a.lru.commit(alloc, hash, entry); evicted {
		a.stats.Evictions++
	}
	return entry, true, nil
}

// Emplace force-inserts hash, evicting any existing entry for it first so
// the upload and metadata are always fresh, per spec.md §4.2.2.
func (a *Atlas[M]) Emplace(hash ContentHash, factory func(loc Location, slot int) FactoryResult[M]) (tileEntry[M], error) {
	a.lru.Remove(hash)

	alloc := a.lru.reserve()
	loc := a.locations[a.props.DirectMappingCount+alloc.slot]
	res := factory(loc, alloc.slot)

	if err := a.upload(loc, res); err != nil {
		a.lru.abort(alloc)
		return tileEntry[M]{}, err
	}

	entry := tileEntry[M]{Location: loc, Size: res.Size, Metadata: res.Metadata}
	if _, evicted := a.lru.commit(alloc, hash, entry); evicted {
		a.stats.Evictions++
	}
	return entry, nil
}

// Remove evicts hash's entry, if present, dropping its metadata and
// freeing its slot for reuse.
func (a *Atlas[M]) Remove(hash ContentHash) bool {
	_, ok := a.lru.Remove(hash)
	return ok
}

// SetDirectMapping unconditionally uploads data into direct slot index,
// overwriting any previous content and metadata there.
func (a *Atlas[M]) SetDirectMapping(index int, data FactoryResult[M]) error {
	a.direct.checkIndex(index)
	loc := a.locations[index]
	if err := a.upload(loc, data); err != nil {
		return err
	}
	a.direct.Set(index, tileEntry[M]{Location: loc, Size: data.Size, Metadata: data.Metadata})
	return nil
}

// PreloadDirect is a convenience wrapper that calls SetDirectMapping for
// slots 0..len(entries)-1 in order, for the common case of bulk-loading a
// stable glyph range at startup.
func (a *Atlas[M]) PreloadDirect(entries []FactoryResult[M]) error {
	for i, e := range entries {
		if err := a.SetDirectMapping(i, e); err != nil {
			return fmt.Errorf("atlas: preload direct slot %d: %w", i, err)
		}
	}
	return nil
}

// DirectMapped returns the entry at direct slot index. It panics if index
// is out of range or SetDirectMapping was never called for it — direct
// slots carry no sentinel valid/invalid bit, per spec.md §7.
func (a *Atlas[M]) DirectMapped(index int) tileEntry[M] {
	return a.direct.Get(index)
}

// Reset clears the LRU table and, per the spec.md §9 resolution, re-issues
// configureAtlas only when the requested geometry actually differs from
// the atlas's current properties; otherwise it just drops cached entries
// without a backend round-trip.
func (a *Atlas[M]) Reset(cfg Config) error {
	if cfg == a.props.asConfig() {
		a.lru.Clear()
		a.stats = Stats{}
		return nil
	}
	return a.configure(cfg)
}

func (p Properties) asConfig() Config {
	return Config{
		Format:             p.Format,
		TileSize:           p.TileSize,
		TileCount:          p.TileCount,
		DirectMappingCount: p.DirectMappingCount,
	}
}

func (a *Atlas[M]) upload(loc Location, res FactoryResult[M]) error {
	if err := a.backend.UploadTile(UploadCommand{
		Location: loc,
		Bitmap:   res.Bitmap,
		Size:     res.Size,
		Format:   res.Format,
	}); err != nil {
		return fmt.Errorf("atlas: upload tile at %v: %w", loc, err)
	}
	a.stats.Uploads++
	return nil
}
