package twocats

import "encoding/binary"

// preHash absorbs every parameter that can change the output into the
// HashProvider and emits the initial state (H.len() words). The absorption
// order is grounded on src/twocats-common.c's TwoCats_ClientHashPassword,
// the final revision in the lineage (see DESIGN.md for why this revision
// was chosen over the earlier TigerKDF/TigerPHS prototypes): hash size and
// field lengths first, then block and sub-block sizes, then every
// single-byte cost knob, and the variable-length fields themselves last, in
// the order the absorbing hash is fed.
//
// stopMemCost is deliberately never absorbed: UpdatePassword re-derives a
// higher-cost hash from a stored one precisely because the stored bytes
// don't depend on how far the garlic loop was originally going to run.
func preHash(p Params, password, salt, data []byte) ([]uint32, error) {
	d, err := newDigest(p.HashType)
	if err != nil {
		return nil, err
	}
	write := func(b []byte) error {
		_, err := d.Write(b)
		return err
	}
	writeUint32 := func(v uint32) error {
		var buf [4]byte
		binary.BigEndian.PutUint32(buf[:], v)
		return write(buf[:])
	}
	writeByte := func(v byte) error {
		return write([]byte{v})
	}
	boolByte := func(b bool) byte {
		if b {
			return 1
		}
		return 0
	}

	steps := []func() error{
		func() error { return writeUint32(p.HashSize) },
		func() error { return writeUint32(uint32(len(password))) },
		func() error { return writeUint32(uint32(len(salt))) },
		func() error { return writeUint32(uint32(len(data))) },
		func() error { return writeUint32(p.BlockLen) },
		func() error { return writeUint32(p.SubBlockLen) },
		func() error { return writeByte(p.StartMemCost) },
		func() error { return writeByte(p.TimeCost) },
		func() error { return writeByte(p.Multiplies) },
		func() error { return writeByte(p.Lanes) },
		func() error { return writeByte(p.Parallelism) },
		func() error { return writeByte(p.OverwriteCost) },
		func() error { return writeByte(boolByte(p.SideChannelResistant)) },
		func() error { return write(password) },
		func() error { return write(salt) },
		func() error { return write(data) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, wrapErr(ErrHashFailed, "preHash absorption", err)
		}
	}
	return decodeWords(d.Sum(nil)), nil
}

// clearBytes overwrites b in place with zeros. Used after successful
// absorption to honor ClearPassword/ClearData; never called on a
// validation-failure path so a caller can retry with the same buffers.
func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
