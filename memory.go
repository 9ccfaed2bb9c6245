package twocats

import (
	"fmt"
	"math/bits"
	"sync"
)

// engineParams is the fully-resolved, per-level shape the memory engine
// needs: every field here has already been validated and sized by
// sizesForLevel, so this package never re-derives blocksPerThread etc. once
// a level is running.
type engineParams struct {
	hashType      HashType
	blockWords    uint32
	subBlockWords uint32
	blocksPerThread uint32
	parallelism   uint8
	multiplies    uint8
	repetitions   uint32
}

// hashMemoryLevel runs one full memory-cost level: the resistant first half,
// the unpredictable second half, and the level-finalization fold. Grounded
// on tigerkdf.c's hashMemory, generalized from pthread_create/pthread_join
// to goroutines synchronized by sync.WaitGroup barriers between slices, per
// the re-architecture hint that a persistent worker pool with a barrier is
// the idiomatic target-language equivalent.
func hashMemoryLevel(mem []uint32, initial []uint32, ep engineParams) ([engineStateWords]uint32, error) {
	seed, err := hashTo8(ep.hashType, initial)
	if err != nil {
		return seed, err
	}

	states := make([][engineStateWords]uint32, ep.parallelism)
	for p := range states {
		s, err := hashState8(ep.hashType, seed, uint32(p))
		if err != nil {
			return seed, err
		}
		states[p] = s
	}

	for slice := uint32(0); slice < Slices/2; slice++ {
		completed := slice * ep.blocksPerThread / Slices
		if err := runSlice(mem, states, ep, completed, resistantWorker); err != nil {
			return seed, err
		}
	}
	for slice := uint32(Slices / 2); slice < Slices; slice++ {
		completed := slice * ep.blocksPerThread / Slices
		if err := runSlice(mem, states, ep, completed, unpredictableWorker); err != nil {
			return seed, err
		}
	}

	var acc [engineStateWords]uint32
	for p := uint32(0); p < uint32(ep.parallelism); p++ {
		regionEnd := uint64(p+1) * uint64(ep.blocksPerThread) * uint64(ep.blockWords)
		for k := 0; k < engineStateWords; k++ {
			acc[k] += mem[regionEnd-engineStateWords+uint64(k)]
		}
	}
	return acc, nil
}

// sliceWorker processes one thread's share of a single slice. completed is
// the number of blocks already finished by every thread before this slice
// started (used both as the loop's starting index and to decide whether a
// candidate "from" address falls inside already-finalized memory).
type sliceWorker func(mem []uint32, state *[engineStateWords]uint32, p uint8, ep engineParams, completed uint32) error

// runSlice fans one slice worth of work out across ep.parallelism goroutines
// and blocks until every one of them finishes: the barrier required between
// slices so second-half cross-region reads only ever see memory a prior
// slice already finalized.
func runSlice(mem []uint32, states [][engineStateWords]uint32, ep engineParams, completed uint32, worker sliceWorker) error {
	var wg sync.WaitGroup
	errs := make([]error, ep.parallelism)
	for p := uint8(0); p < ep.parallelism; p++ {
		wg.Add(1)
		go func(p uint8) {
			defer wg.Done()
			// A worker goroutine panicking (e.g. on a runtime fault inside
			// mixBlock) otherwise takes the whole process down with it and
			// never reaches the errs[p]/wg.Done() bookkeeping below; recover
			// it here so the caller gets back a normal KindSpawnFailed error
			// instead.
			defer func() {
				if r := recover(); r != nil {
					errs[p] = spawnFailed("worker goroutine panicked", fmt.Errorf("%v", r))
				}
			}()
			errs[p] = worker(mem, &states[p], p, ep, completed)
		}(p)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// resistantWorker hashes one slice of the first, data-independent half.
// Grounded on tigerkdf.c's hashWithoutPassword: Solar Designer's sliding
// power-of-two window combined with Catena's bit-reversal selects `from`
// using only the block index, never memory contents, so the whole half is
// computable without any data-dependent address.
func resistantWorker(mem []uint32, state *[engineStateWords]uint32, p uint8, ep engineParams, completed uint32) error {
	start := uint64(ep.blockWords) * uint64(ep.blocksPerThread) * uint64(p)
	first := completed
	if completed == 0 {
		for i := uint32(0); i < ep.blockWords/engineStateWords; i++ {
			chunk, err := hashState8(ep.hashType, *state, i)
			if err != nil {
				return err
			}
			copy(mem[start+uint64(i)*engineStateWords:], chunk[:])
		}
		first = 1
	}

	end := completed + ep.blocksPerThread/Slices
	numBits := uint32(1)
	for i := first; i < end; i++ {
		for uint32(1)<<numBits <= i {
			numBits++
		}
		reversePos := reverseBits(i, numBits-1)
		if reversePos+(1<<(numBits-1)) < i {
			reversePos += 1 << (numBits - 1)
		}

		fromAddr := uint64(ep.blockWords) * uint64(reversePos)
		if fromAddr < uint64(completed)*uint64(ep.blockWords) {
			fromAddr += uint64(ep.blockWords) * uint64(ep.blocksPerThread) * uint64(i%uint32(ep.parallelism))
		} else {
			fromAddr += start
		}

		toAddr := start + uint64(i)*uint64(ep.blockWords)
		prevAddr := toAddr - uint64(ep.blockWords)
		newState, err := mixBlock(ep.hashType, *state, mem, ep.blockWords, ep.blockWords, fromAddr, prevAddr, toAddr, ep.multiplies, ep.repetitions)
		if err != nil {
			return err
		}
		*state = newState
	}
	return nil
}

// unpredictableWorker hashes one slice of the second, data-dependent half.
// Grounded on tigerkdf.c's hashWithPassword: the cube-weighted distance
// computed from state[0] biases reads toward recent blocks, and the target
// thread for cross-region reads is itself data-dependent (state[1]).
func unpredictableWorker(mem []uint32, state *[engineStateWords]uint32, p uint8, ep engineParams, completed uint32) error {
	start := uint64(ep.blockWords) * uint64(ep.blocksPerThread) * uint64(p)
	end := completed + ep.blocksPerThread/Slices

	for i := completed; i < end; i++ {
		v := uint64(state[0])
		v2 := (v * v) >> 32
		v3 := (v * v2) >> 32
		distance := uint32((uint64(i-1) * v3) >> 32)

		fromAddr := uint64(i-1-distance) * uint64(ep.blockWords)
		if fromAddr < uint64(completed)*uint64(ep.blockWords) {
			fromAddr += uint64(ep.blockWords) * uint64(ep.blocksPerThread) * uint64(state[1]%uint32(ep.parallelism))
		} else {
			fromAddr += start
		}

		toAddr := start + uint64(i)*uint64(ep.blockWords)
		prevAddr := toAddr - uint64(ep.blockWords)
		newState, err := mixBlock(ep.hashType, *state, mem, ep.blockWords, ep.subBlockWords, fromAddr, prevAddr, toAddr, ep.multiplies, ep.repetitions)
		if err != nil {
			return err
		}
		*state = newState
	}
	return nil
}

// reverseBits is Catena's bit-reversal helper: reverse the bottom n bits of
// x. Grounded on tigerkdf.c's reverse().
func reverseBits(x uint32, n uint8) uint32 {
	if n == 0 {
		return 0
	}
	x = bits.Reverse32(x)
	return x >> (32 - n)
}

// mixBlock is the block-mixing function, §4.3.1. It writes blockWords words
// at mem[toAddr..) computed from mem[fromAddr..) and mem[prevAddr..), running
// the CPU-bound multiply chain inline with the SIMD-shaped memory hash
// (inlined realization preferred per the multiplication-chain design notes,
// since it avoids synchronizing a second thread). Grounded on tigerkdf.c's
// hashBlocksInner, generalized from a hardcoded AVX2/SSE2 8-word vector to
// the engine's fixed 8-word scalar state.
func mixBlock(hashType HashType, state [engineStateWords]uint32, mem []uint32, blockWords, effSubBlockWords uint32, fromAddr, prevAddr, toAddr uint64, multiplies uint8, repetitions uint32) ([engineStateWords]uint32, error) {
	numSubBlocks := blockWords / effSubBlockWords
	var oddState [engineStateWords]uint32
	for i := range oddState {
		oddState[i] = state[i] | 1
	}
	var v int64 = 1

	for r := uint32(0); r < repetitions; r++ {
		write := r == repetitions-1
		f := fromAddr
		t := toAddr
		for i := uint32(0); i < numSubBlocks; i++ {
			randVal := mem[f]
			p := prevAddr + uint64(effSubBlockWords)*uint64(randVal&(numSubBlocks-1))
			for j := uint32(0); j < effSubBlockWords/engineStateWords; j++ {
				for k := uint8(0); k < multiplies; k++ {
					v = int64(int32(v)) * int64(oddState[k])
					v ^= int64(randVal)
					randVal += uint32(v >> 32)
				}
				for k := 0; k < engineStateWords; k++ {
					state[k] += mem[p]
					state[k] ^= mem[f]
					state[k] = bits.RotateLeft32(state[k], 8)
					if write {
						mem[t] = state[k]
					}
					p++
					f++
					t++
				}
			}
		}
	}
	return hashState8(hashType, state, uint32(v))
}
