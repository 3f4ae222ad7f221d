package assets

// Kind identifies the type of an asset.
type Kind int

const (
	KindMap Kind = iota + 1
	KindSprite
)

func (k Kind) String() string {
	switch k {
	case KindMap:
		return "map"
	case KindSprite:
		return "sprite"
	default:
		return "unknown"
	}
}

// Status is the outcome of loading a single asset.
type Status int

const (
	// StatusLoaded means the asset was accepted, possibly with optional
	// parts dropped.
	StatusLoaded Status = iota + 1
	// StatusRejected means the asset was read but its content was
	// invalid.
	StatusRejected
	// StatusSkipped means the asset couldn't be read or decoded, or there
	// was no room left for it.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusRejected:
		return "rejected"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}
