package physics

// Category is the semantic tag attached to every collider.
type Category string

const (
	CategoryNone     Category = ""
	CategoryPlayer   Category = "Player"
	CategoryGround   Category = "Ground"
	CategoryObstacle Category = "Obstacle"
	CategoryGem      Category = "Gem"
)

// Layer is a collision layer index in [0,31].
type Layer uint8

const (
	LayerDefault  Layer = 0
	LayerGround   Layer = 8
	LayerObstacle Layer = 9
	LayerGem      Layer = 10
	LayerPlayer   Layer = 11
)

// Layer returns the collision layer a category lives on.
func (c Category) Layer() Layer {
	switch c {
	case CategoryGround:
		return LayerGround
	case CategoryObstacle:
		return LayerObstacle
	case CategoryGem:
		return LayerGem
	case CategoryPlayer:
		return LayerPlayer
	default:
		return LayerDefault
	}
}

// LayerMask is a bit set of layers.
type LayerMask uint32

// AllLayers matches every layer.
const AllLayers LayerMask = ^LayerMask(0)

// MaskOf builds a mask from layers.
func MaskOf(layers ...Layer) LayerMask {
	var m LayerMask
	for _, l := range layers {
		m |= 1 << (l & 31)
	}
	return m
}

// MaskOfCategories builds a mask from the layers of the given categories.
func MaskOfCategories(categories ...Category) LayerMask {
	var m LayerMask
	for _, c := range categories {
		m |= MaskOf(c.Layer())
	}
	return m
}

func (m LayerMask) Contains(l Layer) bool {
	return m&(1<<(l&31)) != 0
}
