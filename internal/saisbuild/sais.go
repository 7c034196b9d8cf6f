// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package saisbuild

// sais builds the suffix array of s, whose values must lie in [0, K),
// using induced suffix sorting. The recursion needs a unique smallest
// symbol at the final position; a packed super-symbol ending in the
// terminator is not the alphabet minimum, so the input is shifted up by
// one, a zero sentinel is appended, and the sentinel's own suffix (always
// sorted first) is dropped from the returned array.
//
// This is a single alphabet-parametric recursion rather than the three
// fixed-width (u8/u16/u32) instantiations a generic systems language would
// need: Go's slices of int carry the alphabet size K as a plain argument,
// so one implementation covers every packing width we use.
func sais(s []int, K int) []int {
	n := len(s)
	input := make([]int, n+1)
	for i, v := range s {
		input[i] = v + 1
	}
	SA := make([]int, n+1)
	lmsNames := make([]int, n+1)
	return saisRec(input, K+1, n+1, SA, lmsNames)[1:]
}

func saisRec(s []int, K int, n int, SA []int, lmsNames []int) []int {
	SA = SA[:n]
	for i := range SA {
		SA[i] = -1
	}
	if n == 0 {
		return SA
	}
	if n == 1 {
		SA[0] = 0
		return SA
	}

	t := make([]bool, n)
	t[n-1] = true
	for i := n - 2; i >= 0; i-- {
		switch {
		case s[i] < s[i+1]:
			t[i] = true
		case s[i] > s[i+1]:
			t[i] = false
		default:
			t[i] = t[i+1]
		}
	}

	var lmsPositions []int
	for i := 1; i < n; i++ {
		if t[i] && !t[i-1] {
			lmsPositions = append(lmsPositions, i)
		}
	}

	SA = induceSort(s, SA, t, K, lmsPositions)

	var sortedLMS []int
	for _, pos := range SA {
		if pos > 0 && t[pos] && !t[pos-1] {
			sortedLMS = append(sortedLMS, pos)
		}
	}

	lmsNames = lmsNames[:n]
	for i := range lmsNames {
		lmsNames[i] = -1
	}
	name := 0
	prev := -1
	for _, pos := range sortedLMS {
		if prev == -1 {
			lmsNames[pos] = name
		} else {
			if !lmsSubstringEqual(s, t, prev, pos) {
				name++
			}
			lmsNames[pos] = name
		}
		prev = pos
	}
	numNames := name + 1

	reduced := make([]int, 0, len(lmsPositions))
	for _, pos := range lmsPositions {
		reduced = append(reduced, lmsNames[pos])
	}

	var reducedSA []int
	if numNames < len(reduced) {
		reducedSA = saisRec(reduced, numNames, len(reduced), SA, lmsNames)
	} else {
		reducedSA = make([]int, len(reduced))
		for i, nm := range reduced {
			reducedSA[nm] = i
		}
	}

	orderedLMS := make([]int, len(reducedSA))
	for i, idx := range reducedSA {
		orderedLMS[i] = lmsPositions[idx]
	}

	for i := range SA {
		SA[i] = -1
	}
	SA = induceSort(s, SA, t, K, orderedLMS)
	return SA
}

func induceSort(s []int, SA []int, t []bool, K int, lms []int) []int {
	bs := computeBucketSizes(s, K)

	bucketTails := computeBucketTails(bs)
	for i := len(lms) - 1; i >= 0; i-- {
		pos := lms[i]
		c := s[pos]
		SA[bucketTails[c]] = pos
		bucketTails[c]--
	}

	bucketHeads := computeBucketHeads(bs)
	for i := range SA {
		pos := SA[i]
		if pos > 0 && !t[pos-1] {
			c := s[pos-1]
			SA[bucketHeads[c]] = pos - 1
			bucketHeads[c]++
		}
	}

	bucketTails = computeBucketTails(bs)
	for i := len(SA) - 1; i >= 0; i-- {
		pos := SA[i]
		if pos > 0 && t[pos-1] {
			c := s[pos-1]
			SA[bucketTails[c]] = pos - 1
			bucketTails[c]--
		}
	}
	return SA
}

func computeBucketSizes(s []int, K int) []int {
	bs := make([]int, K)
	for _, c := range s {
		bs[c]++
	}
	return bs
}

func computeBucketHeads(bs []int) []int {
	heads := make([]int, len(bs))
	sum := 0
	for i, v := range bs {
		heads[i] = sum
		sum += v
	}
	return heads
}

func computeBucketTails(bs []int) []int {
	tails := make([]int, len(bs))
	sum := 0
	for i, v := range bs {
		sum += v
		tails[i] = sum - 1
	}
	return tails
}

// lmsSubstringEqual compares the LMS substrings starting at i and j. Both
// starting positions are themselves LMS, so the termination test only kicks
// in once the cursors have advanced past them -- two substrings are equal
// when both reach their closing LMS position with every symbol agreeing.
func lmsSubstringEqual(s []int, t []bool, i, j int) bool {
	n := len(s)
	for d := 0; ; d++ {
		if s[i] != s[j] {
			return false
		}
		if d > 0 {
			iIsLMS := i > 0 && t[i] && !t[i-1]
			jIsLMS := j > 0 && t[j] && !t[j-1]
			if iIsLMS && jIsLMS {
				return true
			}
			if iIsLMS != jIsLMS {
				return false
			}
		}
		i++
		j++
		if i >= n || j >= n {
			break
		}
	}
	return false
}
