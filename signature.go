package depot

import (
	"fmt"
	"iter"
	"strings"

	"github.com/TheBitDrifter/mask"
)

// MaxSignatureWidth is the number of bits a Signature holds, as built into
// the mask package (64 by default, wider with its m256/m512/m1024 tags).
// Config.MaxComponents must not exceed it.
const MaxSignatureWidth = mask.MaxBits

// Signature is the set of component types an entity holds, one bit per
// registered ComponentID. The zero value is the empty signature.
type Signature struct {
	bits mask.Mask
}

// NewSignature returns a signature with the given ids set.
func NewSignature(ids ...ComponentID) Signature {
	var s Signature
	for _, id := range ids {
		s.Set(id)
	}
	return s
}

// Set marks id. Ids at or beyond MaxSignatureWidth are ignored.
func (s *Signature) Set(id ComponentID) {
	if !inWidth(id) {
		return
	}
	s.bits.Mark(uint32(id))
}

func (s *Signature) Clear(id ComponentID) {
	if !inWidth(id) {
		return
	}
	s.bits.Unmark(uint32(id))
}

// Has reports whether the bit for id is set.
func (s Signature) Has(id ComponentID) bool {
	return inWidth(id) && s.bits.Contains(uint32(id))
}

// Contains reports whether s is a superset of required.
func (s Signature) Contains(required Signature) bool {
	return s.bits.ContainsAll(required.bits)
}

// Intersects reports whether s and other share at least one bit.
func (s Signature) Intersects(other Signature) bool {
	return s.bits.ContainsAny(other.bits)
}

// Disjoint reports whether s and other share no bit. Every signature is
// disjoint from the empty one.
func (s Signature) Disjoint(other Signature) bool {
	return other.IsEmpty() || s.bits.ContainsNone(other.bits)
}

func (s Signature) IsEmpty() bool {
	return s == Signature{}
}

// IDs yields the set ids below width in ascending order. width is clamped
// to MaxSignatureWidth.
func (s Signature) IDs(width int) iter.Seq[ComponentID] {
	width = min(width, MaxSignatureWidth)
	return func(yield func(ComponentID) bool) {
		for i := 0; i < width; i++ {
			id := ComponentID(i)
			if s.Has(id) && !yield(id) {
				return
			}
		}
	}
}

func (s Signature) Count(width int) int {
	n := 0
	for range s.IDs(width) {
		n++
	}
	return n
}

func (s Signature) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for id := range s.IDs(MaxSignatureWidth) {
		if !first {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", id)
		first = false
	}
	sb.WriteByte('}')
	return sb.String()
}

func inWidth(id ComponentID) bool {
	return id < MaxSignatureWidth
}
