package carve

// FirstByteFilter marks which byte values can begin the signature of any
// registered carver. It is built once before scanning starts and is
// read-only afterwards, so workers share it without synchronization.
type FirstByteFilter [256]bool

func NewFirstByteFilter(carvers []Carver) FirstByteFilter {
	var f FirstByteFilter
	for _, c := range carvers {
		if sig := c.HeaderMagic(); len(sig) > 0 {
			f[sig[0]] = true
		}
	}
	return f
}

// Test reports whether b can be the first byte of a registered signature.
func (f *FirstByteFilter) Test(b byte) bool {
	return f[b]
}
