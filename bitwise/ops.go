// Package bitwise implements the pure-arithmetic (no host bitwise operators)
// logical and shift primitives for bit widths 1..32. Every operation is
// built from add/sub/mul/div/mod, so it behaves identically regardless of
// how the host represents integers or performs native shifts.
package bitwise

import "fmt"

// ErrInvalidWidth is returned when an Ops is constructed with a width
// outside the supported range of 1..32 bits.
type ErrInvalidWidth struct {
	Width int
}

func (e *ErrInvalidWidth) Error() string {
	return fmt.Sprintf("bitwise: invalid width %d (must be 1..32)", e.Width)
}

// Ops provides width-parameterized logical and shift operations computed
// without the host's native &, |, ^, <<, >> operators.
type Ops struct {
	width  int
	modM   int64 // 2^width
	maxVal int64 // 2^width - 1
	pow2   []int64
}

// New constructs an Ops for the given bit width (1..32).
func New(width int) (*Ops, error) {
	if width < 1 || width > 32 {
		return nil, &ErrInvalidWidth{Width: width}
	}
	pow2 := make([]int64, width+1)
	p := int64(1)
	for i := 0; i <= width; i++ {
		pow2[i] = p
		p *= 2
	}
	return &Ops{
		width:  width,
		modM:   pow2[width],
		maxVal: pow2[width] - 1,
		pow2:   pow2,
	}, nil
}

// Width returns the configured bit width.
func (o *Ops) Width() int { return o.width }

// MaxValue returns 2^width - 1.
func (o *Ops) MaxValue() int64 { return o.maxVal }

// PowerOfTwo returns 2^n for n in [0, width], from the precomputed table.
func (o *Ops) PowerOfTwo(n int) int64 {
	if n < 0 || n > o.width {
		return 0
	}
	return o.pow2[n]
}

// Normalize reduces v into [0, 2^width) using only mod/add, matching C's
// two's-complement wraparound for negative inputs.
func (o *Ops) Normalize(v int64) int64 {
	r := v % o.modM
	if r < 0 {
		r += o.modM
	}
	return r
}

// LeftShift computes (normalize(v) * 2^n) mod 2^width. Returns 0 when n is
// outside [0, width).
func (o *Ops) LeftShift(v int64, n int) int64 {
	if n < 0 || n >= o.width {
		return 0
	}
	return (o.Normalize(v) * o.pow2[n]) % o.modM
}

// RightShift performs a logical (zero-fill) right shift: normalize(v) / 2^n.
// Returns 0 when n is outside [0, width).
func (o *Ops) RightShift(v int64, n int) int64 {
	if n < 0 || n >= o.width {
		return 0
	}
	return o.Normalize(v) / o.pow2[n]
}

// CreateMask returns 2^k - 1, clamped to [0, maxValue].
func (o *Ops) CreateMask(k int) int64 {
	if k <= 0 {
		return 0
	}
	if k >= o.width {
		return o.maxVal
	}
	return o.pow2[k] - 1
}

// And computes the bitwise AND of a and b by iterating bit positions with
// mod-2/div-2, applying the documented shortcut a & (2^k-1) = a mod 2^k
// whenever b (or a) is itself a mask of that shape.
func (o *Ops) And(a, b int64) int64 {
	a = o.Normalize(a)
	b = o.Normalize(b)
	for k := 0; k <= o.width; k++ {
		if b == o.pow2[k]-1 {
			return a % o.pow2[k]
		}
		if a == o.pow2[k]-1 {
			return b % o.pow2[k]
		}
	}
	var result int64
	mult := int64(1)
	for i := 0; i < o.width; i++ {
		if a%2 == 1 && b%2 == 1 {
			result += mult
		}
		a /= 2
		b /= 2
		mult *= 2
	}
	return result
}

// Or computes the bitwise OR of a and b bit by bit.
func (o *Ops) Or(a, b int64) int64 {
	a = o.Normalize(a)
	b = o.Normalize(b)
	var result int64
	mult := int64(1)
	for i := 0; i < o.width; i++ {
		if a%2 == 1 || b%2 == 1 {
			result += mult
		}
		a /= 2
		b /= 2
		mult *= 2
	}
	return result
}

// Xor computes the bitwise XOR of a and b bit by bit.
func (o *Ops) Xor(a, b int64) int64 {
	a = o.Normalize(a)
	b = o.Normalize(b)
	var result int64
	mult := int64(1)
	for i := 0; i < o.width; i++ {
		abit := a % 2
		bbit := b % 2
		if abit != bbit {
			result += mult
		}
		a /= 2
		b /= 2
		mult *= 2
	}
	return result
}

// Not computes the bitwise complement: (2^width - 1) - normalize(v).
func (o *Ops) Not(v int64) int64 {
	return o.maxVal - o.Normalize(v)
}

// RotateLeft rotates v left by k (mod width) bits within the configured width.
func (o *Ops) RotateLeft(v int64, k int) int64 {
	k = ((k % o.width) + o.width) % o.width
	if k == 0 {
		return o.Normalize(v)
	}
	left := o.LeftShift(v, k)
	right := o.RightShift(v, o.width-k)
	return o.Or(left, right)
}

// RotateRight rotates v right by k (mod width) bits within the configured width.
func (o *Ops) RotateRight(v int64, k int) int64 {
	k = ((k % o.width) + o.width) % o.width
	if k == 0 {
		return o.Normalize(v)
	}
	return o.RotateLeft(v, o.width-k)
}

// ToSigned reinterprets normalize(v) as a two's-complement signed value of
// the configured width.
func (o *Ops) ToSigned(v int64) int64 {
	n := o.Normalize(v)
	if n >= o.pow2[o.width-1] {
		return n - o.modM
	}
	return n
}
