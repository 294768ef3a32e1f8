package cpu

// Stack push/pop helpers, supplementing spec §4.4's operand table with the
// explicit SP-relative accessors mentioned in original_source's
// stack_pointer.rs rather than inlining SP arithmetic at every call site.
//
// The stack grows downward: pushU8 predecrements SP then writes; popU8
// reads then postincrements SP.

func (c *CPU) pushU8(v uint8) {
	c.SP.Dec()
	c.mem.Write(c.SP.AsU16(), v)
}

func (c *CPU) popU8() uint8 {
	v := c.mem.Read(c.SP.AsU16())
	c.SP.Inc()
	return v
}

// pushU16 writes the high byte first, then the low byte, at decreasing SP.
func (c *CPU) pushU16(v uint16) {
	c.pushU8(uint8(v >> 8))
	c.pushU8(uint8(v))
}

// popU16 reads the low byte first, then the high byte, at increasing SP.
func (c *CPU) popU16() uint16 {
	lo := c.popU8()
	hi := c.popU8()
	return uint16(hi)<<8 | uint16(lo)
}
