package twocats

// DumpMemoryLevel runs PreHash followed by a single hashMemoryLevel call and
// returns the raw memory array as bytes, for feeding to a statistical test
// suite like dieharder. This bypasses the garlic ladder and PostHash
// entirely; it exists purely to let an external caller inspect the memory
// engine's output distribution, which is why it lives outside the normal
// HashPassword* entry points.
func DumpMemoryLevel(p Params, password, salt []byte, level uint8) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	initial, err := preHash(p, password, salt, nil)
	if err != nil {
		return nil, err
	}
	blockWords, subBlockWords, blocksPerThread, threads := sizesForLevel(level, p.BlockLen, p.SubBlockLen, p.Parallelism)
	ep := engineParams{
		hashType:        p.HashType,
		blockWords:      blockWords,
		subBlockWords:   subBlockWords,
		blocksPerThread: blocksPerThread,
		parallelism:     threads,
	}
	ep.multiplies, ep.repetitions = expandTimeCost(p.TimeCost, p.Multiplies)

	totalWords := uint64(threads) * uint64(blocksPerThread) * uint64(blockWords)
	if totalWords*4 > MaxMemoryBytes {
		return nil, outOfMemory("requested level exceeds the memory ceiling")
	}
	mem := make([]uint32, totalWords)
	if _, err := hashMemoryLevel(mem, initial, ep); err != nil {
		return nil, err
	}
	return encodeWords(mem), nil
}
