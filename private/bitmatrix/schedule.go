// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package bitmatrix

import (
	"crypto/subtle"
	"strconv"
	"strings"
)

// Packet addresses packet Index of device Device. Device -1 stands for no
// source, used by operations that clear their destination.
type Packet struct {
	Device int
	Index  int
}

// Op is one schedule step: the destination packet is overwritten with the
// source packet, or XORed with it when XOR is set.
type Op struct {
	Src Packet
	Dst Packet
	XOR bool
}

// Schedule is a compiled sequence of packet operations over w packets per
// device.
type Schedule struct {
	W   int
	Ops []Op
}

// Compile turns bm into a schedule. Column c of bm reads packet c%w of
// device srcDevs[c/w] and row r writes packet r%w of device dstDevs[r/w].
//
// Rows are emitted greedily: each row is built either from its source
// packets or by copying an already computed row and fixing up the bits in
// which the two differ, whichever needs fewer operations.
func Compile(bm *Matrix, w int, srcDevs, dstDevs []int) (Schedule, error) {
	if w <= 0 || bm.Cols() != len(srcDevs)*w || bm.Rows() != len(dstDevs)*w {
		return Schedule{}, Error.New("bitmatrix %d×%d does not match %d sources, %d destinations, w=%d",
			bm.Rows(), bm.Cols(), len(srcDevs), len(dstDevs), w)
	}

	rows := bm.Rows()
	cost := make([]int, rows)
	from := make([]int, rows)
	pending := make([]int, 0, rows)
	for r := 0; r < rows; r++ {
		cost[r] = bm.rowOnes(r)
		from[r] = -1
		pending = append(pending, r)
	}

	srcPacket := func(c int) Packet { return Packet{Device: srcDevs[c/w], Index: c % w} }
	dstPacket := func(r int) Packet { return Packet{Device: dstDevs[r/w], Index: r % w} }

	var ops []Op
	for len(pending) > 0 {
		best := 0
		for i := range pending {
			if cost[pending[i]] < cost[pending[best]] {
				best = i
			}
		}
		row := pending[best]
		pending = append(pending[:best], pending[best+1:]...)

		dst := dstPacket(row)
		if from[row] < 0 {
			first := true
			for c := 0; c < bm.Cols(); c++ {
				if !bm.Get(row, c) {
					continue
				}
				ops = append(ops, Op{Src: srcPacket(c), Dst: dst, XOR: !first})
				first = false
			}
			if first {
				ops = append(ops, Op{Src: Packet{Device: -1}, Dst: dst})
			}
		} else {
			ops = append(ops, Op{Src: dstPacket(from[row]), Dst: dst})
			for c := 0; c < bm.Cols(); c++ {
				if bm.Get(row, c) != bm.Get(from[row], c) {
					ops = append(ops, Op{Src: srcPacket(c), Dst: dst, XOR: true})
				}
			}
		}

		for _, other := range pending {
			if d := 1 + bm.rowDistance(row, other); d < cost[other] {
				cost[other] = d
				from[other] = row
			}
		}
	}

	return Schedule{W: w, Ops: ops}, nil
}

// Run executes the schedule over shards. Every referenced shard must have the
// same length, a multiple of w*packetSize.
func (s Schedule) Run(shards [][]byte, packetSize int) error {
	if packetSize <= 0 {
		return Error.New("packet size must be positive")
	}
	block := s.W * packetSize
	size := -1
	for _, op := range s.Ops {
		for _, dev := range [2]int{op.Src.Device, op.Dst.Device} {
			if dev < 0 {
				continue
			}
			if dev >= len(shards) {
				return Error.New("schedule references device %d of %d", dev, len(shards))
			}
			if size < 0 {
				size = len(shards[dev])
			}
			if len(shards[dev]) != size {
				return Error.New("shard %d has length %d, expected %d", dev, len(shards[dev]), size)
			}
		}
	}
	if size <= 0 {
		return nil
	}
	if size%block != 0 {
		return Error.New("shard length %d is not a multiple of %d", size, block)
	}

	for off := 0; off < size; off += block {
		for _, op := range s.Ops {
			d := op.Dst.Index*packetSize + off
			dst := shards[op.Dst.Device][d : d+packetSize]
			if op.Src.Device < 0 {
				clear(dst)
				continue
			}
			o := op.Src.Index*packetSize + off
			src := shards[op.Src.Device][o : o+packetSize]
			if op.XOR {
				subtle.XORBytes(dst, dst, src)
			} else {
				copy(dst, src)
			}
		}
	}
	return nil
}

// XORs returns the number of XOR operations in the schedule.
func (s Schedule) XORs() int {
	n := 0
	for _, op := range s.Ops {
		if op.XOR {
			n++
		}
	}
	return n
}

func (s Schedule) String() string {
	var b strings.Builder
	for _, op := range s.Ops {
		if op.XOR {
			b.WriteString("xor ")
		} else {
			b.WriteString("cpy ")
		}
		b.WriteString(strconv.Itoa(op.Src.Device) + "." + strconv.Itoa(op.Src.Index))
		b.WriteString(" -> ")
		b.WriteString(strconv.Itoa(op.Dst.Device) + "." + strconv.Itoa(op.Dst.Index))
		b.WriteByte('\n')
	}
	return b.String()
}
