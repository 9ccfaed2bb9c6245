package twocats

import "testing"

func testEngineParams() engineParams {
	return engineParams{
		hashType:        BLAKE2S,
		blockWords:      32,
		subBlockWords:   32,
		blocksPerThread: 8,
		parallelism:     1,
		multiplies:      2,
		repetitions:     1,
	}
}

func TestReverseBits(t *testing.T) {
	cases := []struct {
		x    uint32
		n    uint8
		want uint32
	}{
		{0, 0, 0},
		{0b1, 1, 0b1},
		{0b01, 2, 0b10},
		{0b001, 3, 0b100},
		{0b110, 3, 0b011},
	}
	for _, c := range cases {
		if got := reverseBits(c.x, c.n); got != c.want {
			t.Errorf("reverseBits(%b, %d) = %b, want %b", c.x, c.n, got, c.want)
		}
	}
}

func TestHashMemoryLevelDeterministic(t *testing.T) {
	ep := testEngineParams()
	mem1 := make([]uint32, uint64(ep.parallelism)*uint64(ep.blocksPerThread)*uint64(ep.blockWords))
	mem2 := make([]uint32, len(mem1))
	initial := []uint32{1, 2, 3, 4, 5, 6, 7, 8}

	a, err := hashMemoryLevel(mem1, initial, ep)
	if err != nil {
		t.Fatal(err)
	}
	b, err := hashMemoryLevel(mem2, initial, ep)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatal("hashMemoryLevel is not deterministic for identical inputs")
	}

	mem3 := make([]uint32, len(mem1))
	c, err := hashMemoryLevel(mem3, []uint32{1, 2, 3, 4, 5, 6, 7, 9}, ep)
	if err != nil {
		t.Fatal(err)
	}
	if a == c {
		t.Fatal("hashMemoryLevel produced the same output for different initial state")
	}
}

func TestHashMemoryLevelSensitiveToParallelism(t *testing.T) {
	ep1 := testEngineParams()
	ep2 := testEngineParams()
	ep2.parallelism = 2

	initial := []uint32{1, 2, 3, 4, 5, 6, 7, 8}
	mem1 := make([]uint32, uint64(ep1.parallelism)*uint64(ep1.blocksPerThread)*uint64(ep1.blockWords))
	mem2 := make([]uint32, uint64(ep2.parallelism)*uint64(ep2.blocksPerThread)*uint64(ep2.blockWords))

	a, err := hashMemoryLevel(mem1, initial, ep1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := hashMemoryLevel(mem2, initial, ep2)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("hashMemoryLevel output unchanged when parallelism doubled")
	}
}

func TestMixBlockSensitiveToFromAddr(t *testing.T) {
	ep := testEngineParams()
	mem := make([]uint32, 256)
	for i := range mem {
		mem[i] = uint32(i*2654435761 + 1)
	}
	var state [engineStateWords]uint32
	for i := range state {
		state[i] = uint32(i + 1)
	}

	memA := append([]uint32(nil), mem...)
	memB := append([]uint32(nil), mem...)

	a, err := mixBlock(ep.hashType, state, memA, ep.blockWords, ep.subBlockWords, 0, 0, 64, ep.multiplies, ep.repetitions)
	if err != nil {
		t.Fatal(err)
	}
	b, err := mixBlock(ep.hashType, state, memB, ep.blockWords, ep.subBlockWords, 32, 0, 64, ep.multiplies, ep.repetitions)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("mixBlock output unchanged when fromAddr changed")
	}
}

func TestMixBlockRepetitionsChangeFinalBlock(t *testing.T) {
	ep := testEngineParams()
	mem1 := make([]uint32, 256)
	mem2 := make([]uint32, 256)
	for i := range mem1 {
		mem1[i] = uint32(i + 7)
		mem2[i] = mem1[i]
	}
	var state [engineStateWords]uint32
	for i := range state {
		state[i] = uint32(i + 3)
	}

	if _, err := mixBlock(ep.hashType, state, mem1, ep.blockWords, ep.subBlockWords, 0, 0, 64, ep.multiplies, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := mixBlock(ep.hashType, state, mem2, ep.blockWords, ep.subBlockWords, 0, 0, 64, ep.multiplies, 3); err != nil {
		t.Fatal(err)
	}

	same := true
	for i := 64; i < 64+int(ep.blockWords); i++ {
		if mem1[i] != mem2[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("repetitions=1 and repetitions=3 wrote identical final blocks; the repeated passes had no effect")
	}
}
