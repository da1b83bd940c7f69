package entities

// Vector3 is a 3-component float vector as stored in POF files.
type Vector3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// Matrix3x3 is a row-major 3x3 float matrix.
type Matrix3x3 [3][3]float32

// IdentityMatrix returns the 3x3 identity.
func IdentityMatrix() Matrix3x3 {
	return Matrix3x3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// ModelHeader holds the HDR2 chunk contents.
type ModelHeader struct {
	MaxRadius     float32        `json:"max_radius"`
	Flags         uint32         `json:"flags"`
	NumSubobjects int32          `json:"num_subobjects"`
	MinBounding   Vector3        `json:"min_bounding"`
	MaxBounding   Vector3        `json:"max_bounding"`
	DetailLevels  [8]int32       `json:"detail_levels"`
	DebrisPieces  [32]int32      `json:"debris_pieces"`
	Mass          float32        `json:"mass,omitempty"`
	MassCenter    Vector3        `json:"mass_center,omitempty"`
	MomentInertia Matrix3x3      `json:"moment_of_inertia,omitempty"`
	CrossSections []CrossSection `json:"cross_sections,omitempty"`
	Lights        []ModelLight   `json:"lights,omitempty"`
}

// CrossSection is one (depth, radius) pair from the HDR2 cross-section table.
type CrossSection struct {
	Depth  float32 `json:"depth"`
	Radius float32 `json:"radius"`
}

// ModelLight is one entry of the HDR2 light table.
type ModelLight struct {
	Position Vector3 `json:"position"`
	Type     int32   `json:"type"`
}

// SubObject is one OBJ2 chunk. The BSP tree is kept as an opaque blob for a
// later conversion stage.
type SubObject struct {
	Index           int32   `json:"index"`
	Radius          float32 `json:"radius"`
	Parent          int32   `json:"parent"` // -1 marks a root subobject
	Offset          Vector3 `json:"offset"`
	GeometricCenter Vector3 `json:"geometric_center"`
	BoundingMin     Vector3 `json:"bounding_min"`
	BoundingMax     Vector3 `json:"bounding_max"`
	Name            string  `json:"name"`
	Properties      string  `json:"properties,omitempty"`
	MovementType    int32   `json:"movement_type"`
	MovementAxis    int32   `json:"movement_axis"`
	BSPData         []byte  `json:"-"`
	BSPSize         int     `json:"bsp_size"`
}

// SpecialPoint is one SPCL entry.
type SpecialPoint struct {
	Name       string  `json:"name"`
	Properties string  `json:"properties,omitempty"`
	Position   Vector3 `json:"position"`
	Radius     float32 `json:"radius"`
}

// PathVertex is one vertex of a PATH entry.
type PathVertex struct {
	Position Vector3 `json:"position"`
	Radius   float32 `json:"radius"`
	TurretID []int32 `json:"turret_ids,omitempty"`
}

// ModelPath is one PATH entry (AI waypoint path).
type ModelPath struct {
	Name     string       `json:"name"`
	Parent   string       `json:"parent,omitempty"`
	Vertices []PathVertex `json:"vertices"`
}

// WeaponSlot is a single hardpoint of a weapon bank.
type WeaponSlot struct {
	Position Vector3 `json:"position"`
	Normal   Vector3 `json:"normal"`
}

// WeaponBank is one GPNT/MPNT bank of gun or missile hardpoints.
type WeaponBank struct {
	Slots []WeaponSlot `json:"slots"`
}

// DockPoint is one DOCK entry. Exactly two slot pairs are stored regardless
// of the declared slot count.
type DockPoint struct {
	Properties string       `json:"properties,omitempty"`
	SplinePath []int32      `json:"spline_paths,omitempty"`
	Slots      []WeaponSlot `json:"slots"`
}

// ThrusterPoint is one glow point of a FUEL thruster bank.
type ThrusterPoint struct {
	Position Vector3 `json:"position"`
	Normal   Vector3 `json:"normal"`
	Radius   float32 `json:"radius"`
}

// Thruster is one FUEL entry.
type Thruster struct {
	Properties string          `json:"properties,omitempty"`
	Points     []ThrusterPoint `json:"points"`
}

// ShieldFace is one triangle of the SHLD mesh.
type ShieldFace struct {
	Normal    Vector3  `json:"normal"`
	Vertices  [3]int32 `json:"vertices"`
	Neighbors [3]int32 `json:"neighbors"` // -1 marks no neighbor
}

// ShieldMesh is the SHLD chunk contents.
type ShieldMesh struct {
	Vertices []Vector3    `json:"vertices"`
	Faces    []ShieldFace `json:"faces"`
}

// EyePoint is one EYE entry (camera viewpoint).
type EyePoint struct {
	Parent   int32   `json:"parent"`
	Position Vector3 `json:"position"`
	Normal   Vector3 `json:"normal"`
}

// InsigniaFace is one textured face of an INSG entry.
type InsigniaFace struct {
	Vertices [3]int32      `json:"vertices"`
	UVs      [3][2]float32 `json:"uvs"`
}

// Insignia is one INSG entry (squadron decal).
type Insignia struct {
	LOD      int32          `json:"lod"`
	Vertices []Vector3      `json:"vertices"`
	Offset   Vector3        `json:"offset"`
	Faces    []InsigniaFace `json:"faces"`
}

// GlowPoint is a single point of a GLOW bank.
type GlowPoint struct {
	Position Vector3 `json:"position"`
	Normal   Vector3 `json:"normal"`
	Radius   float32 `json:"radius"`
}

// GlowBank is one GLOW entry (hull running lights).
type GlowBank struct {
	DisplacementTime int32       `json:"disp_time"`
	OnTime           int32       `json:"on_time"`
	OffTime          int32       `json:"off_time"`
	Parent           int32       `json:"parent"`
	LOD              int32       `json:"lod"`
	Type             int32       `json:"type"`
	Properties       string      `json:"properties,omitempty"`
	Points           []GlowPoint `json:"points"`
}

// ChunkInfo describes one chunk of a POF stream without decoding it. The
// format analyzer emits these for compliance checks and coverage reports.
type ChunkInfo struct {
	ID       string         `json:"id"`
	Offset   int64          `json:"offset"`
	Length   int32          `json:"length"`
	Success  bool           `json:"success"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// ModelData aggregates everything parsed from a POF file.
type ModelData struct {
	Filename      string         `json:"filename"`
	Version       int32          `json:"version"`
	FileSize      int64          `json:"file_size"`
	ChunkCount    int            `json:"chunk_count"`
	Header        ModelHeader    `json:"header"`
	SubObjects    []SubObject    `json:"subobjects"`
	Textures      []string       `json:"textures"`
	SpecialPoints []SpecialPoint `json:"special_points,omitempty"`
	Paths         []ModelPath    `json:"paths,omitempty"`
	GunBanks      []WeaponBank   `json:"gun_banks,omitempty"`
	MissileBanks  []WeaponBank   `json:"missile_banks,omitempty"`
	DockPoints    []DockPoint    `json:"dock_points,omitempty"`
	Thrusters     []Thruster     `json:"thrusters,omitempty"`
	Shield        *ShieldMesh    `json:"shield,omitempty"`
	ShieldTree    []byte         `json:"-"`
	EyePoints     []EyePoint     `json:"eye_points,omitempty"`
	Insignia      []Insignia     `json:"insignia,omitempty"`
	AutoCenter    *Vector3       `json:"auto_center,omitempty"`
	GlowBanks     []GlowBank     `json:"glow_banks,omitempty"`
	Warnings      []string       `json:"warnings,omitempty"`
}
