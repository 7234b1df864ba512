package shift

import "github.com/klang-rt/klang/bitwise"

// Mode selects how a BitShiftEngine computes its operations.
type Mode int

const (
	// Auto defers to a Config's per-width resolution the first time an
	// engine with this mode is used.
	Auto Mode = iota
	// Native computes with the host's own integer operators, which have
	// been cross-validated equivalent to Arithmetic for the width.
	Native
	// Arithmetic computes using only add/sub/mul/div/mod, via bitwise.Ops.
	Arithmetic
)

func (m Mode) String() string {
	switch m {
	case Auto:
		return "AUTO"
	case Native:
		return "NATIVE"
	case Arithmetic:
		return "ARITHMETIC"
	default:
		return "UNKNOWN"
	}
}

// ShiftResult is the (value, carry, overflow) triple every shift operation
// produces: value is the shifted result masked to width, carry is the bits
// shifted out (right-aligned), and overflow flags a left shift that lost
// significant bits. Right shifts never overflow.
type ShiftResult struct {
	Value    uint64
	Carry    uint64
	Overflow bool
}

// Engine is the public bit-layer facade: a width- and mode-parameterized,
// immutable value. Per Design Notes §9 it is a tagged variant dispatched
// once at the boundary of each call, not a per-operation virtual call.
type Engine struct {
	width Width
	mode  Mode
	cfg   *Config
	arith *bitwise.Ops // nil when width > 32 (Arithmetic unsupported at 64 bits)
}

// NewEngine builds an Engine for the given width and mode. When mode is
// Auto, cfg resolves it lazily (once per call, cached by cfg per width); if
// cfg is nil, DefaultConfig() is used.
func NewEngine(width Width, mode Mode, cfg *Config) (*Engine, error) {
	if !width.valid() {
		return nil, NewConfigError(ErrKindInvalidWidth, "width must be one of 8,16,32,64")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	e := &Engine{width: width, mode: mode, cfg: cfg}
	if width <= 32 {
		ops, err := bitwise.New(int(width))
		if err != nil {
			return nil, err
		}
		e.arith = ops
	}
	return e, nil
}

// Width returns the engine's configured bit width.
func (e *Engine) Width() Width { return e.width }

// resolvedMode returns the concrete mode (Native or Arithmetic) this call
// should use, resolving Auto via the attached Config and falling back to
// Native for 64-bit Arithmetic requests (spec.md §4.2).
func (e *Engine) resolvedMode() Mode {
	m := e.mode
	if m == Auto {
		m = e.cfg.Resolve(e.width)
	}
	if m == Arithmetic && e.width == Width64 {
		return Native
	}
	return m
}

func (e *Engine) maxVal() uint64 { return e.width.MaxValue() }

func (e *Engine) mask(v uint64) uint64 { return v & e.maxVal() }

// LeftShift computes v << n within the engine's width, reporting the bits
// shifted out as carry and whether any significant bit was lost.
func (e *Engine) LeftShift(v uint64, n int) ShiftResult {
	if n < 0 || n >= int(e.width) {
		return ShiftResult{Value: 0, Carry: 0, Overflow: true}
	}
	v = e.mask(v)
	if e.resolvedMode() == Arithmetic {
		value := uint64(e.arith.LeftShift(int64(v), n))
		// carry = bits shifted out, right-aligned = top n bits of v.
		carry := uint64(e.arith.RightShift(int64(v), int(e.width)-n))
		overflow := v != 0 && v > (e.maxVal()>>uint(n))
		return ShiftResult{Value: value, Carry: carry, Overflow: overflow}
	}
	// Native
	if n == 0 {
		return ShiftResult{Value: v, Carry: 0, Overflow: false}
	}
	value := e.mask(v << uint(n))
	carry := v >> (uint(e.width) - uint(n))
	overflow := v != 0 && v > (e.maxVal()>>uint(n))
	return ShiftResult{Value: value, Carry: carry, Overflow: overflow}
}

// RightShift performs the "logical right shift after normalizing" semantics
// specified in spec.md §9's Open Question: for in-range n, this is always a
// zero-fill shift (never arithmetic/sign-extending), regardless of how the
// input might be interpreted as host-wide signed. Out-of-range n returns
// (-1,0,false) if v's top bit (at width) is set when interpreted host-wide
// negative, else (0,0,false), matching the documented policy.
func (e *Engine) RightShift(v uint64, n int) ShiftResult {
	v = e.mask(v)
	if n < 0 || n >= int(e.width) {
		if e.isHostNegative(v) {
			return ShiftResult{Value: e.mask(^uint64(0)), Carry: 0, Overflow: false}
		}
		return ShiftResult{Value: 0, Carry: 0, Overflow: false}
	}
	if e.resolvedMode() == Arithmetic {
		value := uint64(e.arith.RightShift(int64(v), n))
		return ShiftResult{Value: value, Carry: 0, Overflow: false}
	}
	return ShiftResult{Value: v >> uint(n), Carry: 0, Overflow: false}
}

// UnsignedRightShift is sign-indifferent: out-of-range n always returns
// (0,0,false).
func (e *Engine) UnsignedRightShift(v uint64, n int) ShiftResult {
	v = e.mask(v)
	if n < 0 || n >= int(e.width) {
		return ShiftResult{Value: 0, Carry: 0, Overflow: false}
	}
	if e.resolvedMode() == Arithmetic {
		value := uint64(e.arith.RightShift(int64(v), n))
		return ShiftResult{Value: value, Carry: 0, Overflow: false}
	}
	return ShiftResult{Value: v >> uint(n), Carry: 0, Overflow: false}
}

// isHostNegative reports whether v's sign bit (at this engine's width) is
// set, i.e. it would be negative under host-wide two's complement.
func (e *Engine) isHostNegative(v uint64) bool {
	if e.width == Width64 {
		// maxValue(64) caps at 2^63-1, so the sign bit of the 64-bit
		// engine's domain is bit 62; bit 63 is never reachable.
		return v&(1<<62) != 0
	}
	signBit := uint64(1) << (uint(e.width) - 1)
	return v&signBit != 0
}

// BitwiseAnd computes a & b, masked to width.
func (e *Engine) BitwiseAnd(a, b uint64) uint64 {
	a, b = e.mask(a), e.mask(b)
	if e.resolvedMode() == Arithmetic {
		return uint64(e.arith.And(int64(a), int64(b)))
	}
	return a & b
}

// BitwiseOr computes a | b, masked to width.
func (e *Engine) BitwiseOr(a, b uint64) uint64 {
	a, b = e.mask(a), e.mask(b)
	if e.resolvedMode() == Arithmetic {
		return uint64(e.arith.Or(int64(a), int64(b)))
	}
	return a | b
}

// BitwiseXor computes a ^ b, masked to width.
func (e *Engine) BitwiseXor(a, b uint64) uint64 {
	a, b = e.mask(a), e.mask(b)
	if e.resolvedMode() == Arithmetic {
		return uint64(e.arith.Xor(int64(a), int64(b)))
	}
	return a ^ b
}

// BitwiseNot computes the width-masked complement of v.
func (e *Engine) BitwiseNot(v uint64) uint64 {
	v = e.mask(v)
	if e.resolvedMode() == Arithmetic {
		return uint64(e.arith.Not(int64(v)))
	}
	return e.mask(^v)
}

// GetMask returns 2^k - 1 clamped to width.
func (e *Engine) GetMask(k int) uint64 {
	return GetMask(e.width, k)
}

// checkBitIndex fails with OutOfRange when i doesn't lie in [0, width).
func (e *Engine) checkBitIndex(i int) error {
	if i < 0 || i >= int(e.width) {
		return NewConfigError(ErrKindOutOfRange, "bit index must be in [0,width)")
	}
	return nil
}

// IsBitSet reports whether bit i of v is set.
func (e *Engine) IsBitSet(v uint64, i int) (bool, error) {
	if err := e.checkBitIndex(i); err != nil {
		return false, err
	}
	v = e.mask(v)
	return (e.UnsignedRightShift(v, i).Value & 1) == 1, nil
}

// SetBit returns v with bit i set.
func (e *Engine) SetBit(v uint64, i int) (uint64, error) {
	if err := e.checkBitIndex(i); err != nil {
		return 0, err
	}
	bit := e.LeftShift(1, i).Value
	return e.BitwiseOr(v, bit), nil
}

// ClearBit returns v with bit i cleared.
func (e *Engine) ClearBit(v uint64, i int) (uint64, error) {
	if err := e.checkBitIndex(i); err != nil {
		return 0, err
	}
	bit := e.LeftShift(1, i).Value
	return e.BitwiseAnd(v, e.BitwiseNot(bit)), nil
}

// ToggleBit returns v with bit i flipped.
func (e *Engine) ToggleBit(v uint64, i int) (uint64, error) {
	if err := e.checkBitIndex(i); err != nil {
		return 0, err
	}
	bit := e.LeftShift(1, i).Value
	return e.BitwiseXor(v, bit), nil
}

// PopCount counts the set bits of v within width.
func (e *Engine) PopCount(v uint64) int {
	v = e.mask(v)
	n := 0
	for v != 0 {
		n += int(v & 1)
		v >>= 1
	}
	return n
}

// SignExtend sign-extends the srcBits-wide field of v to the engine's
// width.
func (e *Engine) SignExtend(v uint64, srcBits int) (uint64, error) {
	if srcBits <= 0 || srcBits > int(e.width) {
		return 0, NewConfigError(ErrKindOutOfRange, "srcBits must be in [1,width]")
	}
	v &= GetMask(e.width, srcBits)
	signBit := uint64(1) << (srcBits - 1)
	if v&signBit != 0 {
		extendMask := e.maxVal() &^ (GetMask(e.width, srcBits))
		return v | extendMask, nil
	}
	return v, nil
}

// ZeroExtend zero-extends the srcBits-wide field of v to the engine's
// width (a mask, since all wider bits are already absent).
func (e *Engine) ZeroExtend(v uint64, srcBits int) (uint64, error) {
	if srcBits <= 0 || srcBits > int(e.width) {
		return 0, NewConfigError(ErrKindOutOfRange, "srcBits must be in [1,width]")
	}
	return v & GetMask(e.width, srcBits), nil
}

// ExtractByte returns byte index i (0 = least significant) of v.
func (e *Engine) ExtractByte(v uint64, i int) (uint8, error) {
	nBytes := int(e.width) / 8
	if i < 0 || i >= nBytes {
		return 0, NewConfigError(ErrKindOutOfRange, "byte index out of range for width")
	}
	return uint8(e.UnsignedRightShift(v, i*8).Value & 0xFF), nil
}

// ReplaceByte returns v with byte index i replaced by b.
func (e *Engine) ReplaceByte(v uint64, i int, b uint8) (uint64, error) {
	nBytes := int(e.width) / 8
	if i < 0 || i >= nBytes {
		return 0, NewConfigError(ErrKindOutOfRange, "byte index out of range for width")
	}
	clearMask := e.BitwiseNot(e.LeftShift(0xFF, i*8).Value)
	cleared := e.BitwiseAnd(v, clearMask)
	return e.BitwiseOr(cleared, e.LeftShift(uint64(b), i*8).Value), nil
}

// ComposeBytes assembles a little-endian byte slice into a value.
// composeBytes(decomposeBytes(v)) == v for any v in [0, 2^width).
func (e *Engine) ComposeBytes(bs []uint8) uint64 {
	var v uint64
	for i, b := range bs {
		v = e.BitwiseOr(v, e.LeftShift(uint64(b), i*8).Value)
	}
	return v
}

// DecomposeBytes splits v into its little-endian bytes for this width.
func (e *Engine) DecomposeBytes(v uint64) []uint8 {
	nBytes := int(e.width) / 8
	out := make([]uint8, nBytes)
	for i := 0; i < nBytes; i++ {
		out[i] = uint8(e.UnsignedRightShift(v, i*8).Value & 0xFF)
	}
	return out
}

// LeftShiftByte masks the LeftShift result to a byte: a type-preserving
// convenience wrapper.
func (e *Engine) LeftShiftByte(v uint8, n int) uint8 {
	return uint8(e.LeftShift(uint64(v), n).Value & 0xFF)
}

// RightShiftByte masks the RightShift result to a byte.
func (e *Engine) RightShiftByte(v uint8, n int) uint8 {
	return uint8(e.RightShift(uint64(v), n).Value & 0xFF)
}

// LeftShiftShort masks the LeftShift result to 16 bits.
func (e *Engine) LeftShiftShort(v uint16, n int) uint16 {
	return uint16(e.LeftShift(uint64(v), n).Value & 0xFFFF)
}

// LeftShiftInt masks the LeftShift result to 32 bits.
func (e *Engine) LeftShiftInt(v uint32, n int) uint32 {
	return uint32(e.LeftShift(uint64(v), n).Value & 0xFFFFFFFF)
}
