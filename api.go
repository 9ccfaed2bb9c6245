package twocats

import log "github.com/sirupsen/logrus"

// HashPassword is the simple entry point: sensible defaults, auto-chosen
// multiplies (1 for memCost<=4, 2 for memCost<10, else 3), the full garlic
// ladder from level 0 through memCost, BLAKE2S, and parallelism 1. Mirrors TwoCats_HashPassword's
// role as the "just give me a hash" wrapper around HashPasswordExtended.
func HashPassword(hashSize uint32, password, salt []byte, memCost uint8, clearPassword bool) ([]byte, error) {
	p := DefaultParams()
	p.HashSize = hashSize
	p.StartMemCost = 0
	p.StopMemCost = memCost
	p.Multiplies = autoMultiplies(memCost)
	p.ClearPassword = clearPassword
	return HashPasswordExtended(p, password, salt, nil)
}

func autoMultiplies(memCost uint8) uint8 {
	switch {
	case memCost <= 4:
		return 1
	case memCost < 10:
		return 2
	default:
		return 3
	}
}

// HashPasswordFull adds hashType, timeCost and parallelism over the simple
// entry point while still defaulting block shape and the update/overwrite
// knobs.
func HashPasswordFull(hashType HashType, hashSize uint32, password, salt []byte, memCost, timeCost uint8, parallelism uint8, clearPassword bool) ([]byte, error) {
	p := DefaultParams()
	p.HashType = hashType
	p.HashSize = hashSize
	p.StartMemCost = 0
	p.StopMemCost = memCost
	p.TimeCost = timeCost
	p.Parallelism = parallelism
	p.ClearPassword = clearPassword
	return HashPasswordExtended(p, password, salt, nil)
}

// HashPasswordExtended is the full entry point: every field in Params is
// caller-controlled. This is where PreHash, the garlic ladder, and the
// final PostHash all actually get wired together.
func HashPasswordExtended(p Params, password, salt, data []byte) ([]byte, error) {
	hash, err := ClientHashPassword(p, password, salt, data)
	if err != nil {
		return nil, err
	}
	return hash, ServerHashPasswordInPlace(p.HashType, hash)
}

// ClientHashPassword runs PreHash and the full garlic ladder but stops
// short of the final PostHash call, for the server-relief split described
// in §4.6: the client does the memory-hard work, the server does one cheap
// hash to finish.
func ClientHashPassword(p Params, password, salt, data []byte) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	initial, err := preHash(p, password, salt, data)
	if err != nil {
		return nil, err
	}
	if p.ClearPassword {
		clearBytes(password)
	}
	if p.ClearData {
		clearBytes(data)
	}

	hash := make([]byte, p.HashSize)
	if err := expandBytes(p.HashType, hash, initial); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"hashType":     p.HashType,
		"startMemCost": p.StartMemCost,
		"stopMemCost":  p.StopMemCost,
		"parallelism":  p.Parallelism,
	}).Debug("twocats: starting garlic ladder")

	if err := runLadder(p, p.StartMemCost, hash, false, true); err != nil {
		return nil, err
	}
	return hash, nil
}

// ServerHashPasswordInPlace is the single extra hash a server performs to
// finish a client-relieved hash, mutating hash in place.
func ServerHashPasswordInPlace(t HashType, hash []byte) error {
	return rehash(t, hash)
}

// ServerHashPassword returns a new slice rather than mutating in place, for
// callers that want to keep the client's value around (e.g. tests checking
// Testable Property 4).
func ServerHashPassword(t HashType, hash []byte) ([]byte, error) {
	out := append([]byte(nil), hash...)
	if err := ServerHashPasswordInPlace(t, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePassword raises the cost of an existing, already-finalized hash in
// place, without needing the original password or salt. It resumes the
// garlic ladder exactly where the original run left off (oldMemCost+1),
// which is what makes this byte-identical to a fresh run stopped at
// newMemCost: see DESIGN.md and the commentary on runLadder.
func UpdatePassword(p Params, hash []byte, oldMemCost, newMemCost uint8) error {
	if uint32(len(hash)) != p.HashSize {
		return invalidParams("hash buffer length does not match hashSize")
	}
	if oldMemCost > newMemCost {
		return invalidParams("oldMemCost must be <= newMemCost")
	}
	p.StartMemCost = oldMemCost + 1
	p.StopMemCost = newMemCost
	if err := p.Validate(); err != nil {
		return err
	}
	if err := runLadder(p, oldMemCost+1, hash, true, true); err != nil {
		return err
	}
	return ServerHashPasswordInPlace(p.HashType, hash)
}

// PHS is the PHC-compatible entry point: t_cost maps to timeCost, m_cost to
// memCost, and hash type/parallelism/block shape take DefaultParams' values.
func PHS(out []byte, password, salt []byte, timeCost, memCost uint8) error {
	p := DefaultParams()
	p.HashSize = uint32(len(out))
	p.TimeCost = timeCost
	p.StartMemCost = 0
	p.StopMemCost = memCost
	p.Multiplies = autoMultiplies(memCost)
	p.ClearPassword = false
	hash, err := HashPasswordExtended(p, password, salt, nil)
	if err != nil {
		return err
	}
	copy(out, hash)
	return nil
}
