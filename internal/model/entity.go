package model

// Entity is a catalog record with a small integer id that is unique
// within its collection.
type Entity[T any] interface {
	EntityID() int
	WithID(id int) T
}

// Patch is a typed partial update. Nil fields leave the target unchanged.
type Patch[T any] interface {
	Apply(T) T
}

func set[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}
