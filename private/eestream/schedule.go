// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package eestream

import (
	"fmt"

	"storj.io/fragment/private/bitmatrix"
	"storj.io/fragment/private/galois"
	"storj.io/fragment/private/technique"
)

func init() {
	register(technique.CauchyOriginal, bitmatrixTechnique{validate: validateCauchy, build: buildCauchy(false)})
	register(technique.CauchyGood, bitmatrixTechnique{validate: validateCauchy, build: buildCauchy(true)})
	register(technique.Liberation, bitmatrixTechnique{validate: validateLiberation, build: buildLiberation})
	register(technique.BlaumRoth, bitmatrixTechnique{validate: validateBlaumRoth, build: buildBlaumRoth})
	register(technique.Liber8tion, bitmatrixTechnique{validate: validateLiber8tion, build: buildLiber8tion})
}

// bitmatrixTechnique is a technique whose coding is described by a bitmatrix
// and executed as a compiled XOR schedule.
type bitmatrixTechnique struct {
	validate func(Params) error
	build    func(Params) (*bitmatrix.Matrix, error)
}

func (t bitmatrixTechnique) Validate(p Params) error { return t.validate(p) }

func (t bitmatrixTechnique) NewScheme(p Params) (ErasureScheme, error) {
	bm, err := t.build(p)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return NewScheduleScheme(bm, p)
}

func needPacketSize(p Params) error {
	if p.PacketSize == 0 {
		return invalid("packetsize must be set")
	}
	return nil
}

func needWordAlignedPacketSize(p Params) error {
	if err := needPacketSize(p); err != nil {
		return err
	}
	if p.PacketSize%technique.WordSize != 0 {
		return invalid("packetsize must be a multiple of %d, got %d", technique.WordSize, p.PacketSize)
	}
	return nil
}

func needTwoCodingShares(p Params) error {
	if p.M != 2 {
		return invalid("m must be 2, got %d", p.M)
	}
	return nil
}

func validateCauchy(p Params) error {
	if err := needPacketSize(p); err != nil {
		return err
	}
	if p.W > galois.MaxW {
		return invalid("w must be at most %d, got %d", galois.MaxW, p.W)
	}
	if uint64(p.K+p.M) > uint64(1)<<uint(p.W) {
		return invalid("k+m=%d exceeds 2^w for w=%d", p.K+p.M, p.W)
	}
	return nil
}

func validateLiberation(p Params) error {
	if p.K > p.W {
		return invalid("k must be less than or equal to w, got k=%d w=%d", p.K, p.W)
	}
	if p.W <= 2 || p.W%2 == 0 || !technique.IsPrime(p.W) {
		return invalid("w must be greater than two and w must be prime, got %d", p.W)
	}
	if err := needWordAlignedPacketSize(p); err != nil {
		return err
	}
	return needTwoCodingShares(p)
}

func validateBlaumRoth(p Params) error {
	if p.K > p.W {
		return invalid("k must be less than or equal to w, got k=%d w=%d", p.K, p.W)
	}
	if p.W <= 2 || !technique.IsPrime(p.W+1) {
		return invalid("w must be greater than two and w+1 must be prime, got %d", p.W)
	}
	if err := needWordAlignedPacketSize(p); err != nil {
		return err
	}
	return needTwoCodingShares(p)
}

func validateLiber8tion(p Params) error {
	if err := needPacketSize(p); err != nil {
		return err
	}
	if p.W != 8 {
		return invalid("w must equal 8, got %d", p.W)
	}
	if err := needTwoCodingShares(p); err != nil {
		return err
	}
	if p.K > p.W {
		return invalid("k must be less than or equal to 8, got %d", p.K)
	}
	return nil
}

func buildCauchy(good bool) func(Params) (*bitmatrix.Matrix, error) {
	return func(p Params) (*bitmatrix.Matrix, error) {
		f, err := galois.New(p.W)
		if err != nil {
			return nil, err
		}
		var elems []uint32
		if good {
			elems, err = bitmatrix.CauchyGood(f, p.K, p.M)
		} else {
			elems, err = bitmatrix.CauchyOriginal(f, p.K, p.M)
		}
		if err != nil {
			return nil, err
		}
		return bitmatrix.FromElements(f, p.M, p.K, elems)
	}
}

func buildLiberation(p Params) (*bitmatrix.Matrix, error) { return bitmatrix.Liberation(p.K, p.W) }
func buildBlaumRoth(p Params) (*bitmatrix.Matrix, error)  { return bitmatrix.BlaumRoth(p.K, p.W) }
func buildLiber8tion(p Params) (*bitmatrix.Matrix, error) { return bitmatrix.Liber8tion(p.K) }

type scheduleScheme struct {
	code       *bitmatrix.Code
	packetSize int
	encode     bitmatrix.Schedule

	// decoders caches decode schedules by erasure pattern. Not safe for
	// concurrent use; a scheme belongs to a single job.
	decoders map[string]bitmatrix.Schedule
}

// NewScheduleScheme returns an ErasureScheme that runs the smart schedule
// compiled from the m*w × k*w coding bitmatrix bm.
func NewScheduleScheme(bm *bitmatrix.Matrix, p Params) (ErasureScheme, error) {
	if p.PacketSize <= 0 {
		return nil, Error.New("schedule schemes require a packet size")
	}
	code, err := bitmatrix.NewCode(bm, p.K, p.M, p.W)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	encode, err := code.EncodeSchedule()
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return &scheduleScheme{
		code:       code,
		packetSize: p.PacketSize,
		encode:     encode,
		decoders:   map[string]bitmatrix.Schedule{},
	}, nil
}

func (s *scheduleScheme) Encode(stripe []byte, coding [][]byte) error {
	k := s.code.K
	if len(coding) != s.code.M {
		return Error.New("expected %d coding shares, got %d", s.code.M, len(coding))
	}
	if len(stripe)%k != 0 {
		return Error.New("stripe of %d bytes does not split into %d shares", len(stripe), k)
	}
	size := len(stripe) / k

	shards := make([][]byte, 0, k+len(coding))
	for i := 0; i < k; i++ {
		shards = append(shards, stripe[i*size:(i+1)*size:(i+1)*size])
	}
	shards = append(shards, coding...)
	return Error.Wrap(s.encode.Run(shards, s.packetSize))
}

func (s *scheduleScheme) Rebuild(shares [][]byte) error {
	k := s.code.K
	if len(shares) != s.TotalCount() {
		return Error.New("expected %d shares, got %d", s.TotalCount(), len(shares))
	}

	size := -1
	var survivors, erased []int
	for num, data := range shares {
		switch {
		case len(data) > 0:
			if size < 0 {
				size = len(data)
			}
			if len(survivors) < k {
				survivors = append(survivors, num)
			}
		case num < k:
			erased = append(erased, num)
		}
	}
	if len(erased) == 0 {
		return nil
	}
	if len(survivors) < k {
		return Error.New("need %d shares to rebuild, have %d", k, len(survivors))
	}

	key := fmt.Sprint(survivors, erased)
	schedule, ok := s.decoders[key]
	if !ok {
		var err error
		schedule, err = s.code.DecodeSchedule(survivors, erased)
		if err != nil {
			return Error.Wrap(err)
		}
		s.decoders[key] = schedule
	}
	mon.IntVal("rebuilt_shares").Observe(int64(len(erased)))

	for _, num := range erased {
		if cap(shares[num]) < size {
			shares[num] = make([]byte, size)
		} else {
			shares[num] = shares[num][:size]
		}
	}
	return Error.Wrap(schedule.Run(shares, s.packetSize))
}

func (s *scheduleScheme) TotalCount() int    { return s.code.K + s.code.M }
func (s *scheduleScheme) RequiredCount() int { return s.code.K }
