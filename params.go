package twocats

// Fixed constants from the Data Model. SLICES partitions each memory-cost
// level into temporal barriers; MinBlocks is the floor blocksPerThread is
// grown toward (by shrinking blockLen, then parallelism). Below memCost 3 the
// floor is not reached: with 32-byte blocks and one thread, memCost 0 gives
// 32 blocks.
const (
	Slices    = 4
	MinBlocks = 256

	MaxMemCost     = 30
	MaxTimeCost    = 30
	MaxMultiplies  = 8
	MaxParallelism = 255
	MaxBlockLen    = 1 << 20
	MinBlockLen    = 32

	// MaxMemoryBytes is a sanity ceiling on a single level's total memory
	// engine allocation. MaxMemCost alone permits up to ~1 TiB; this catches
	// that case with a recoverable error (KindOutOfMemory) instead of
	// letting a bare make([]uint32, ...) trigger a fatal, unrecoverable
	// runtime OOM.
	MaxMemoryBytes = 1 << 33
)

// Params is an immutable record of every cost and shape parameter that
// influences a hash call. Construct one with DefaultParams and override
// fields, or build it by hand; always run Validate before use.
type Params struct {
	HashType HashType
	HashSize uint32

	StartMemCost uint8
	StopMemCost  uint8
	TimeCost     uint8

	Multiplies  uint8
	Lanes       uint8
	Parallelism uint8

	BlockLen    uint32
	SubBlockLen uint32

	OverwriteCost uint8

	ClearPassword        bool
	ClearData            bool
	SideChannelResistant bool
}

// DefaultParams returns a Params with the conservative defaults used by the
// simple HashPassword entry point: a single memory-cost level, BLAKE2S, and
// block sizes tuned for typical server RAM rather than an embedded target.
func DefaultParams() Params {
	return Params{
		HashType:      BLAKE2S,
		HashSize:      32,
		StartMemCost:  0,
		StopMemCost:   0,
		TimeCost:      0,
		Multiplies:    2,
		Lanes:         4,
		Parallelism:   1,
		BlockLen:      16384,
		SubBlockLen:   64,
		OverwriteCost: 0,
		ClearPassword: true,
	}
}

func isPowerOfTwo(v uint32) bool { return v != 0 && v&(v-1) == 0 }

// Validate checks every field against the Data Model's range table and the
// cross-field invariants (power-of-two block sizes, hashSize vs blockLen,
// lanes vs hashSize). It never allocates the memory array; allocation only
// happens once validation succeeds, per the "validate before allocating"
// failure-semantics requirement.
func (p Params) Validate() error {
	if !p.HashType.valid() {
		return invalidParams("unknown hash type")
	}
	if p.HashSize == 0 || p.HashSize%4 != 0 || p.HashSize > 255*32 {
		return invalidParams("hashSize out of range")
	}
	if p.StartMemCost > MaxMemCost || p.StopMemCost > MaxMemCost {
		return invalidParams("memCost out of range")
	}
	if p.StartMemCost > p.StopMemCost {
		return invalidParams("startMemCost must be <= stopMemCost")
	}
	if p.TimeCost > MaxTimeCost {
		return invalidParams("timeCost out of range")
	}
	if p.Multiplies > MaxMultiplies {
		return invalidParams("multiplies out of range")
	}
	if p.Parallelism == 0 {
		return invalidParams("parallelism must be >= 1")
	}
	if p.Lanes == 0 || uint32(p.Lanes) > p.HashSize/4 {
		return invalidParams("lanes out of range")
	}
	if p.BlockLen < MinBlockLen || p.BlockLen > MaxBlockLen || !isPowerOfTwo(p.BlockLen) {
		return invalidParams("blockLen must be a power of two in [32, 2^20]")
	}
	if p.SubBlockLen < MinBlockLen || p.SubBlockLen > p.BlockLen || !isPowerOfTwo(p.SubBlockLen) {
		return invalidParams("subBlockLen must be a power of two in [32, blockLen]")
	}
	if p.HashSize > p.BlockLen {
		return invalidParams("hashSize must be <= blockLen")
	}
	if p.OverwriteCost > p.StartMemCost {
		return invalidParams("overwriteCost must be <= startMemCost")
	}
	subBlockWords := p.SubBlockLen / 4
	if subBlockWords < engineStateWords || subBlockWords%engineStateWords != 0 {
		return invalidParams("subBlockLen must be a multiple of 32 bytes")
	}
	return nil
}

// sizesForLevel computes blockLen/subBlockLen/parallelism/blocksPerThread
// for a single garlic level, applying the Data Model's "increase
// blocksPerThread to at least MinBlocks by shrinking blockLen then
// parallelism" rule; when blockLen is at its 32-byte floor and parallelism
// is 1 the loop stops even if MinBlocks is not reached. Grounded on
// TwoCats_ComputeSizes in the original sources: the shrink-knobs loop
// mutates a local copy of blockLen/parallelism, never memCost; subBlockLen
// only changes by being clamped down to a shrunken blockLen.
func sizesForLevel(memCost uint8, blockLen, subBlockLen uint32, parallelism uint8) (blockWords, subBlockWords, blocksPerThread uint32, threads uint8) {
	blockWords = blockLen / 4
	subBlockWords = subBlockLen / 4
	threads = parallelism

	for {
		memWords := (uint64(1) << memCost) * 1024 / 4
		blocksPerThread = uint32(Slices * (memWords / (Slices * uint64(threads) * uint64(blockWords))))
		if blocksPerThread >= MinBlocks || (blockWords <= engineStateWords && threads == 1) {
			break
		}
		if blockWords > engineStateWords {
			blockWords /= 2
			if subBlockWords > blockWords {
				subBlockWords = blockWords
			}
			continue
		}
		if threads > 1 {
			threads--
			continue
		}
		break
	}
	if blocksPerThread == 0 {
		blocksPerThread = 1
	}
	return blockWords, subBlockWords, blocksPerThread, threads
}
