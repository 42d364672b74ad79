package world

// BlockID identifies a block material. 0 is always air: no material,
// not solid, fully transparent.
type BlockID uint8

// BlockIDAir is the reserved empty block.
const BlockIDAir BlockID = 0

// BlockFace identifies a face of a block.
type BlockFace int

const (
	FaceTop    BlockFace = iota // Y+
	FaceBottom                  // Y-
	FaceNorth                   // Z-
	FaceSouth                   // Z+
	FaceEast                    // X+
	FaceWest                    // X-

	FaceCount = 6
)

func (f BlockFace) String() string {
	switch f {
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	case FaceNorth:
		return "north"
	case FaceSouth:
		return "south"
	case FaceEast:
		return "east"
	case FaceWest:
		return "west"
	}
	return "unknown"
}
