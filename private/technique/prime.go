// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package technique

// smallPrimes holds the 55 primes below 258.
var smallPrimes = [55]int{
	2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67,
	71, 73, 79, 83, 89, 97, 101, 103, 107, 109, 113, 127, 131, 137, 139, 149,
	151, 157, 163, 167, 173, 179, 181, 191, 193, 197, 199, 211, 223, 227, 229,
	233, 239, 241, 251, 257,
}

// IsPrime reports whether n is prime.
//
// Values up to 257 are answered from the table. Larger values that have no
// small factor are finished with trial division.
func IsPrime(n int) bool {
	if n < 2 {
		return false
	}
	for _, p := range smallPrimes {
		if n == p {
			return true
		}
		if n%p == 0 {
			return false
		}
	}
	if n <= smallPrimes[len(smallPrimes)-1] {
		return false
	}
	for d := smallPrimes[len(smallPrimes)-1] + 2; d <= n/d; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}
