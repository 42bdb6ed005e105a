/*
NAME
  osd.go

DESCRIPTION
  osd.go implements ordered-statistics decoding (OSD), the non-iterative
  fallback used when belief propagation fails to converge.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ldpc

import (
	"math"
	"sort"

	"github.com/ausocean/ft8/crc"
)

// lookaheadWidth records the width of the "short look-ahead window" of the
// reference OSD implementation (original_source/src/ldpc/osd.rs).
// buildInformationSet does not use it: it visits every column,
// least-reliable first, and a column that fails to pivot simply stays in
// the information set, so no column swap or bounded search takes place.
//
// The reference description row-reduces the 91-column generator submatrix
// to put the 91 most reliable positions into systematic form; this builds
// the dual of that: row-reducing the 83-row parity-check matrix H = [P|I_M]
// so the 83 least reliable columns become pivots, leaving the 91 most
// reliable columns as the free (information) set. The two are equivalent:
// either way, the 91 most reliable bit positions end up forming the basis
// that the candidate search perturbs.
const lookaheadWidth = 20

// OSDOrders are the Hamming-weight orders OSD enumerates by default.
var OSDOrders = []int{0, 1, 2}

// parityCheckRows returns the 83x174 parity-check matrix H = [P | I_M] as
// dense rows, the same systematic check matrix documented in tanner.go.
func parityCheckRows() [][]byte {
	rows := make([][]byte, M)
	for r := 0; r < M; r++ {
		rows[r] = make([]byte, N)
		copy(rows[r], generatorRows[r][:])
		rows[r][K+r] = 1
	}
	return rows
}

// buildInformationSet row-reduces H with columns visited least-reliable
// first, so pivot columns are drawn from the 83 least reliable positions
// whenever possible, leaving the most reliable columns in the free
// (information) set. It returns, for each of the M rows (in the order they
// were assigned a pivot), the pivot column and the reduced row, plus a
// boolean per original column marking information-set membership.
func buildInformationSet(order []int, rows [][]byte) (pivotCols []int, reduced [][]byte, isInfo []bool) {
	n := len(order)
	reduced = make([][]byte, len(rows))
	for i, r := range rows {
		reduced[i] = append([]byte(nil), r...)
	}
	isInfo = make([]bool, n)
	for i := range isInfo {
		isInfo[i] = true
	}

	row := 0
	// order is most-reliable-first; visit least-reliable-first for pivoting.
	for k := n - 1; k >= 0 && row < len(reduced); k-- {
		col := order[k]
		pivot := -1
		for r := row; r < len(reduced); r++ {
			if reduced[r][col] == 1 {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			continue // column is dependent on already-used pivots; stays free
		}
		reduced[pivot], reduced[row] = reduced[row], reduced[pivot]
		for r := 0; r < len(reduced); r++ {
			if r != row && reduced[r][col] == 1 {
				xorRow(reduced[r], reduced[row])
			}
		}
		pivotCols = append(pivotCols, col)
		isInfo[col] = false
		row++
	}
	return pivotCols, reduced, isInfo
}

// OSDDecode attempts ordered-statistics decoding of 174 LLRs up to the given
// maximum perturbation order (commonly one of OSDOrders). It enumerates
// every flip pattern up to maxOrder and returns the 91-bit message frame
// (77 payload bits + 14 CRC bits) of the CRC-valid candidate with the
// lowest LLR-weighted Hamming distance to the received hard decision.
func OSDDecode(llr []float64, maxOrder int) (Result, bool) {
	if len(llr) != N {
		return Result{}, false
	}

	// 1. Sort bit positions by descending |LLR|.
	order := make([]int, N)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return math.Abs(llr[order[i]]) > math.Abs(llr[order[j]])
	})

	hard := make([]byte, N)
	for i := 0; i < N; i++ {
		hard[i] = hardBit(llr[i])
	}

	rows := parityCheckRows()
	pivotCols, reduced, isInfo := buildInformationSet(order, rows)
	if len(pivotCols) != M {
		return Result{}, false // H should always have full rank M
	}

	// Information columns, in the reliability order they appear in `order`.
	var infoCols []int
	for _, c := range order {
		if isInfo[c] {
			infoCols = append(infoCols, c)
		}
	}
	if len(infoCols) != K {
		return Result{}, false
	}

	// For each pivot row, precompute which info columns it sums over.
	rowInfoCols := make([][]int, len(pivotCols))
	for i, row := range reduced[:len(pivotCols)] {
		for _, c := range infoCols {
			if row[c] == 1 {
				rowInfoCols[i] = append(rowInfoCols[i], c)
			}
		}
	}

	m0 := make([]byte, K)
	for i, c := range infoCols {
		m0[i] = hard[c]
	}

	build := func(infoBits []byte) []byte {
		codeword := make([]byte, N)
		for i, c := range infoCols {
			codeword[c] = infoBits[i]
		}
		for i, col := range pivotCols {
			var v byte
			for _, ic := range rowInfoCols[i] {
				idx := colIndex(infoCols, ic)
				v ^= infoBits[idx]
			}
			codeword[col] = v
		}
		return codeword
	}

	bestDist := math.Inf(1)
	var best []byte
	found := false

	tryCandidate := func(flip []int) {
		cand := make([]byte, K)
		copy(cand, m0)
		for _, idx := range flip {
			cand[idx] ^= 1
		}
		codeword := build(cand)

		dist := 0.0
		for i := 0; i < N; i++ {
			if codeword[i] != hard[i] {
				dist += math.Abs(llr[i])
			}
		}
		if dist >= bestDist {
			return
		}
		if crc.Check(messageFrame(codeword)) {
			bestDist = dist
			best = codeword
			found = true
		}
	}

	for w := 0; w <= maxOrder; w++ {
		for _, combo := range combinations(K, w) {
			tryCandidate(combo)
		}
	}

	if !found {
		return Result{}, false
	}
	return Result{Message91: messageFrame(best)}, true
}

// messageFrame reassembles the canonical (unpermuted) 91-bit message+CRC
// frame from a 174-bit codeword built in original column order.
func messageFrame(codeword []byte) []byte {
	frame := make([]byte, K)
	copy(frame, codeword[:K])
	return frame
}

func colIndex(cols []int, want int) int {
	for i, c := range cols {
		if c == want {
			return i
		}
	}
	return -1
}

func hardBit(llr float64) byte {
	if llr > 0 {
		return 1
	}
	return 0
}

func xorRow(dst, src []byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}

// combinations enumerates, in lexicographic order, all index subsets of
// {0,...,n-1} of size weight. For weight 0 it yields a single empty subset.
func combinations(n, weight int) [][]int {
	if weight == 0 {
		return [][]int{{}}
	}
	var out [][]int
	combo := make([]int, weight)
	for i := range combo {
		combo[i] = i
	}
	for {
		cp := make([]int, weight)
		copy(cp, combo)
		out = append(out, cp)

		i := weight - 1
		for i >= 0 && combo[i] == n-weight+i {
			i--
		}
		if i < 0 {
			break
		}
		combo[i]++
		for j := i + 1; j < weight; j++ {
			combo[j] = combo[j-1] + 1
		}
	}
	return out
}
