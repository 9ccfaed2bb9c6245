package twocats

import (
	"time"

	"github.com/klauspost/cpuid/v2"
)

// ProbeResult is the cost tuple a parameter probe selected for a target
// machine and budget.
type ProbeResult struct {
	MemCost    uint8
	TimeCost   uint8
	Multiplies uint8
	Lanes      uint8
}

// initialLanes seeds the probe's starting lane guess from detected CPU
// features, mirroring the original FindCostParameters' compile-time
// #if defined(__AVX2__) / __SSE2__ ladder with a runtime cpuid query
// instead: 8 lanes on AVX2-capable hardware, 4 on SSE2-only, 1 otherwise.
func initialLanes() uint8 {
	switch {
	case cpuid.CPU.Supports(cpuid.AVX2):
		return 8
	case cpuid.CPU.Supports(cpuid.SSE2):
		return 4
	default:
		return 1
	}
}

// FindCostParameters times trial hash calls to select (memCost, timeCost,
// multiplies, lanes) such that the measured runtime lands within ±50% of
// target and memory stays at or under maxMemKiB. Grounded on
// src/twocats-common.c's findRuntime/findMemCost/TwoCats_FindCostParameters:
// binary-ladder memCost upward until time exceeds target/8, then grow
// timeCost and multiplies until either adds at least 5% more cost, then
// scale memCost or timeCost to fill the remaining budget.
func FindCostParameters(target time.Duration, maxMemKiB uint32, hashType HashType, parallelism uint8) (ProbeResult, error) {
	lanes := initialLanes()
	res := ProbeResult{MemCost: 0, TimeCost: 0, Multiplies: 2, Lanes: lanes}

	trial := func(r ProbeResult) (time.Duration, error) {
		p := DefaultParams()
		p.HashType = hashType
		p.Parallelism = parallelism
		p.Lanes = r.Lanes
		p.StartMemCost = r.MemCost
		p.StopMemCost = r.MemCost
		p.TimeCost = r.TimeCost
		p.Multiplies = r.Multiplies
		start := time.Now()
		if _, err := HashPasswordExtended(p, []byte("probe"), []byte("probe-salt"), nil); err != nil {
			return 0, err
		}
		return time.Since(start), nil
	}

	// Binary-ladder memCost upward until the trial exceeds target/8 or we
	// would exceed the memory budget.
	for res.MemCost < MaxMemCost {
		memKiB := uint32(1) << (res.MemCost + 1)
		if memKiB > maxMemKiB {
			break
		}
		elapsed, err := trial(res)
		if err != nil {
			return res, err
		}
		if elapsed >= target/8 {
			break
		}
		res.MemCost++
	}

	// Grow timeCost, then multiplies, until each addition buys at least 5%
	// more measured cost.
	base, err := trial(res)
	if err != nil {
		return res, err
	}
	for res.TimeCost < MaxTimeCost {
		candidate := res
		candidate.TimeCost++
		elapsed, err := trial(candidate)
		if err != nil {
			return res, err
		}
		if float64(elapsed) < float64(base)*1.05 {
			break
		}
		res, base = candidate, elapsed
	}
	for res.Multiplies < MaxMultiplies {
		candidate := res
		candidate.Multiplies++
		elapsed, err := trial(candidate)
		if err != nil {
			return res, err
		}
		if float64(elapsed) < float64(base)*1.05 {
			break
		}
		res, base = candidate, elapsed
	}

	// Scale whichever of memCost/timeCost still has headroom to fill the
	// remaining budget, staying within ±50% of target.
	for base < target/2 && res.MemCost < MaxMemCost {
		memKiB := uint32(1) << (res.MemCost + 1)
		if memKiB > maxMemKiB {
			break
		}
		candidate := res
		candidate.MemCost++
		elapsed, err := trial(candidate)
		if err != nil {
			return res, err
		}
		if elapsed > target+target/2 {
			break
		}
		res, base = candidate, elapsed
	}
	for base < target/2 && res.TimeCost < MaxTimeCost {
		candidate := res
		candidate.TimeCost++
		elapsed, err := trial(candidate)
		if err != nil {
			return res, err
		}
		if elapsed > target+target/2 {
			break
		}
		res, base = candidate, elapsed
	}

	return res, nil
}
