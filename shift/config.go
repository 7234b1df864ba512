package shift

import "sync"

// testCorpusValues returns the fixed parameter-sweep values used to
// cross-validate Native against Arithmetic for a given width: 0, 1,
// maxValue, maxValue-1, the sign bit, and the two alternating patterns.
func testCorpusValues(w Width) []uint64 {
	max := w.MaxValue()
	alt0101 := uint64(0)
	alt1010 := uint64(0)
	for i := 0; i < int(w); i += 2 {
		alt0101 |= uint64(1) << uint(i)
	}
	alt1010 = (^alt0101) & max
	signBit := uint64(1) << (uint(w) - 1)
	return []uint64{0, 1, max, max - 1, signBit, alt0101, alt1010}
}

// Config holds a default Mode and a per-width memoized resolution of Auto,
// per spec.md §4.3. It is an explicit, caller-constructed context rather
// than a package-level global, per Design Notes §9's guidance to replace
// process-wide singletons with threaded contexts.
type Config struct {
	mu          sync.Mutex
	defaultMode Mode
	cache       map[Width]Mode
}

// DefaultConfig builds a Config whose default mode is Auto.
func DefaultConfig() *Config {
	return &Config{defaultMode: Auto, cache: make(map[Width]Mode)}
}

// NewConfig builds a Config with the given default mode.
func NewConfig(defaultMode Mode) *Config {
	return &Config{defaultMode: defaultMode, cache: make(map[Width]Mode)}
}

// SetDefaultMode reassigns the default mode and clears the memoized
// per-width resolutions, per spec.md §4.3 ("the cache is cleared whenever
// defaultMode is reassigned").
func (c *Config) SetDefaultMode(m Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultMode = m
	c.cache = make(map[Width]Mode)
}

// DefaultMode returns the currently configured default mode.
func (c *Config) DefaultMode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.defaultMode
}

// Resolve returns the concrete mode (Native or Arithmetic) that Auto should
// dispatch to for width w, computing and caching it on first use.
func (c *Config) Resolve(w Width) Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.cache[w]; ok {
		return m
	}
	m := c.resolveLocked(w)
	c.cache[w] = m
	return m
}

func (c *Config) resolveLocked(w Width) Mode {
	if w == Width64 {
		return Native
	}

	native, err := NewEngine(w, Native, c)
	if err != nil {
		return Native
	}
	arith, err := NewEngine(w, Arithmetic, c)
	if err != nil {
		return Native
	}

	for _, v := range testCorpusValues(w) {
		for n := 0; n < int(w); n++ {
			ln, la := native.LeftShift(v, n), arith.LeftShift(v, n)
			if ln.Value != la.Value || ln.Carry != la.Carry {
				return Arithmetic
			}
			rn, ra := native.RightShift(v, n), arith.RightShift(v, n)
			if rn.Value != ra.Value {
				return Arithmetic
			}
			un, ua := native.UnsignedRightShift(v, n), arith.UnsignedRightShift(v, n)
			if un.Value != ua.Value {
				return Arithmetic
			}
		}
	}
	return Native
}

// WithMode temporarily sets the default mode for the duration of fn,
// restoring the previous default mode (and its cache) on return.
func (c *Config) WithMode(m Mode, fn func()) {
	c.mu.Lock()
	prevMode := c.defaultMode
	prevCache := c.cache
	c.defaultMode = m
	c.cache = make(map[Width]Mode)
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.defaultMode = prevMode
		c.cache = prevCache
		c.mu.Unlock()
	}()

	fn()
}
