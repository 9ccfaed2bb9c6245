package twocats

// runLadder walks the garlic ladder from startLevel through stopMemCost
// inclusive, threading a running hashSize-byte accumulator through each
// level's hashMemoryLevel call and an optional post-level server-relief
// fold. This is shared by a fresh HashPasswordExtended call (startLevel ==
// 0, seeded from PreHash) and UpdatePassword (startLevel == oldMemCost+1,
// seeded from a previously stored hash) — both are "continue the same fold
// sequence from wherever it left off", which is what makes Testable
// Property 3 (update equivalence) hold by construction rather than by
// coincidence.
//
// The skip formula below implements the overwrite policy from §4.5: non-update callers
// additionally compute (and discard the effect of) the cheap band
// [startMemCost-overwriteCost, startMemCost-1] before the real ladder
// begins, so that disclosing memory mid-run never reveals a clean prefix of
// cheap levels an attacker could use to skip honest work. This package
// follows spec.md's literal skip formula in preference to the particular
// overwrite-band choice made by any one historical C revision; see
// DESIGN.md for the discrepancy this resolves.
func runLadder(p Params, startLevel uint8, hash []byte, updateMode bool, serverRelief bool) error {
	for level := uint8(0); level <= p.StopMemCost; level++ {
		skip := level < p.StartMemCost && (updateMode || uint16(level)+uint16(p.OverwriteCost) < uint16(p.StartMemCost))
		if skip {
			continue
		}
		discard := level < startLevel
		blockWords, subBlockWords, blocksPerThread, threads := sizesForLevel(level, p.BlockLen, p.SubBlockLen, p.Parallelism)
		// sizesForLevel's own shrink loop always drives blocksPerThread back
		// up to at least 32 for any Validate()-accepted Params (it keeps
		// shrinking parallelism down to 1 before giving up), so this never
		// actually fires today. Kept as a defensive floor in case MinBlockLen
		// or engineStateWords ever change underneath sizesForLevel.
		if blocksPerThread < Slices {
			continue
		}
		ep := engineParams{
			hashType:        p.HashType,
			blockWords:      blockWords,
			subBlockWords:   subBlockWords,
			blocksPerThread: blocksPerThread,
			parallelism:     threads,
			multiplies:      p.Multiplies,
			repetitions:     1,
		}
		ep.multiplies, ep.repetitions = expandTimeCost(p.TimeCost, p.Multiplies)

		totalWords := uint64(threads) * uint64(blocksPerThread) * uint64(blockWords)
		if totalWords*4 > MaxMemoryBytes {
			return outOfMemory("requested level exceeds the memory ceiling")
		}
		mem := make([]uint32, totalWords)
		acc, err := hashMemoryLevel(mem, decodeWords(hash), ep)
		if err != nil {
			return err
		}
		// A level below startLevel in the overwrite band still runs the full
		// memory-hard pass (to overwrite whatever memory the allocator hands
		// back), but its result is thrown away rather than folded into hash:
		// the caller's real running state must stay exactly what it was
		// going into this level.
		if discard {
			continue
		}
		if err := expandBytes(p.HashType, hash, acc[:]); err != nil {
			return err
		}
		if level < p.StopMemCost || !serverRelief {
			if err := rehash(p.HashType, hash); err != nil {
				return err
			}
		}
	}
	return nil
}

// expandTimeCost implements §4.3.3: timeCost expands into (multiplies,
// repetitions) when the caller didn't pin multiplies independently. When
// Params.Multiplies is nonzero we treat it as the authoritative, independent
// knob (per the spec's note that "some variants accept multiplies as an
// independent parameter; in that case timeCost only controls repetitions")
// and use timeCost purely for repetitions.
func expandTimeCost(timeCost, pinnedMultiplies uint8) (multiplies uint8, repetitions uint32) {
	if timeCost <= 8 {
		repetitions = 1
	} else {
		repetitions = 1 << (timeCost - 8)
	}
	if pinnedMultiplies > 0 {
		return pinnedMultiplies, repetitions
	}
	if timeCost <= 8 {
		return timeCost, 1
	}
	return 8, repetitions
}
