package atlas

// Format identifies a tile bitmap's pixel layout. The atlas treats it as
// an opaque tag to pass through to the backend; it never interprets pixel
// data itself.
type Format int

const (
	FormatUnknown Format = iota
	FormatGray8
	FormatRGB8
	FormatRGBA8
)

// Color is a backend-agnostic RGBA color, used by RenderCommand for
// foreground/background tinting of a rendered tile.
type Color struct {
	R, G, B, A uint8
}

// Properties describes the atlas geometry a backend must configure
// storage for.
type Properties struct {
	Format             Format
	TileSize           int
	TileCount          int
	DirectMappingCount int
}

// UploadCommand is issued once per successful cache insert or overwrite,
// never on a cache hit, per spec.md §4.2.3.
type UploadCommand struct {
	Location Location
	Bitmap   []byte
	Size     Size
	Format   Format
}

// RenderCommand is issued by callers that want the backend to draw a
// previously uploaded tile; the atlas itself never issues these — they
// flow from the renderer that looked up a tile via TryGet/GetOrEmplace.
type RenderCommand struct {
	TargetXY               Location
	BitmapSize             Size
	Color                  Color
	TileLocation           Location
	NormalizedLocation     [2]float32
	FragmentShaderSelector int
}

// Backend is the capability set spec.md §4.2.4 requires of the GPU-facing
// collaborator: it owns the actual texture and draw calls, while the atlas
// owns cache policy and coordinate assignment. Modeled as an interface
// rather than an embedded base type, per spec.md §9's note that the atlas
// must not depend on the backend's representation.
type Backend interface {
	AtlasSize() Size
	ConfigureAtlas(size Size, props Properties) error
	UploadTile(cmd UploadCommand) error
	RenderTile(cmd RenderCommand) error
}
