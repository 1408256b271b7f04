// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package bitmatrix

// Code is a systematic bitmatrix code: k data devices followed by m coding
// devices, with generator rows for the coding devices only.
type Code struct {
	K, M, W int
	coding  *Matrix
}

// NewCode wraps an m*w × k*w coding bitmatrix.
func NewCode(coding *Matrix, k, m, w int) (*Code, error) {
	if coding.Rows() != m*w || coding.Cols() != k*w {
		return nil, Error.New("coding bitmatrix is %d×%d, expected %d×%d",
			coding.Rows(), coding.Cols(), m*w, k*w)
	}
	return &Code{K: k, M: m, W: w, coding: coding}, nil
}

// Coding returns the coding bitmatrix.
func (c *Code) Coding() *Matrix { return c.coding }

// EncodeSchedule compiles the schedule that computes devices k..k+m-1 from
// devices 0..k-1.
func (c *Code) EncodeSchedule() (Schedule, error) {
	return Compile(c.coding, c.W, devices(0, c.K), devices(c.K, c.K+c.M))
}

// DecodeSchedule compiles the schedule that recomputes the erased data
// devices from the survivors. survivors must name exactly k distinct
// devices; erased must name data devices not among them.
func (c *Code) DecodeSchedule(survivors, erased []int) (Schedule, error) {
	if len(survivors) != c.K {
		return Schedule{}, Error.New("need %d survivors, got %d", c.K, len(survivors))
	}
	for _, e := range erased {
		if e < 0 || e >= c.K {
			return Schedule{}, Error.New("erased device %d is not a data device", e)
		}
	}

	w := c.W
	generator, err := Identity(c.K * w).Stack(c.coding)
	if err != nil {
		return Schedule{}, err
	}

	rows := make([]int, 0, c.K*w)
	for _, dev := range survivors {
		if dev < 0 || dev >= c.K+c.M {
			return Schedule{}, Error.New("survivor %d out of range", dev)
		}
		for x := 0; x < w; x++ {
			rows = append(rows, dev*w+x)
		}
	}

	inverse, err := generator.SelectRows(rows).Invert()
	if err != nil {
		return Schedule{}, Error.New("survivors %v cannot recover data: %v", survivors, err)
	}

	want := make([]int, 0, len(erased)*w)
	for _, dev := range erased {
		for x := 0; x < w; x++ {
			want = append(want, dev*w+x)
		}
	}
	return Compile(inverse.SelectRows(want), w, survivors, erased)
}

func devices(from, to int) []int {
	devs := make([]int, 0, to-from)
	for d := from; d < to; d++ {
		devs = append(devs, d)
	}
	return devs
}
