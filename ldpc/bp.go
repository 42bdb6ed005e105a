/*
NAME
  bp.go

DESCRIPTION
  bp.go implements the sum-product (belief propagation) LDPC decoder: given
  174 soft LLRs it iteratively refines bit estimates until all 83 parity
  checks are satisfied and the embedded CRC-14 is valid.

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
	"sync"

	"github.com/ausocean/ft8/crc"
)

// clampBound keeps tanh arguments away from +/-1 so atanh never sees +/-inf.
// A bound of 1-1e-6 is the value spec §9 calls out as sufficient.
const clampBound = 1 - 1e-6

// edgePos[c][i] is the position, within varToCheck[checkToVar[c][i]], that
// refers back to check c. edgePosRev[v][i] is the symmetric lookup: the
// position, within checkToVar[varToCheck[v][i]], that refers back to
// variable v. Precomputing these removes the linear scan the reference
// decoder performs per edge per iteration. They are built on first use,
// because the package's init functions run in file-name order and this
// file's would run before tanner.go's init has filled the Tanner graph.
var edgePos [][]int
var edgePosRev [][]int
var edgePosOnce sync.Once

func buildEdgePositions() {
	edgePos = make([][]int, M)
	for c := 0; c < M; c++ {
		edgePos[c] = make([]int, len(checkToVar[c]))
		for i, v := range checkToVar[c] {
			for pos, cc := range varToCheck[v] {
				if cc == c {
					edgePos[c][i] = pos
					break
				}
			}
		}
	}
	edgePosRev = make([][]int, N)
	for v := 0; v < N; v++ {
		edgePosRev[v] = make([]int, len(varToCheck[v]))
		for i, c := range varToCheck[v] {
			for pos, vv := range checkToVar[c] {
				if vv == v {
					edgePosRev[v][i] = pos
					break
				}
			}
		}
	}
}

// Result is a successful belief-propagation decode.
type Result struct {
	Message91  []byte // 91 bits: 77 payload bits followed by 14 CRC bits
	Iterations int
}

// Decode runs sum-product belief propagation over 174 LLRs for up to
// maxIterations rounds. It returns ok=false if no iteration produced a
// codeword that satisfies both all 83 parity checks and CRC-14.
func Decode(llr []float64, maxIterations int) (Result, bool) {
	res, _, ok := decode(llr, maxIterations, nil)
	return res, ok
}

// DecodeWithSnapshots behaves like Decode but additionally captures the
// per-bit belief vector Z at each iteration listed in snapshotIters (commonly
// {1,2,3}), for use as OSD reseed input when BP itself does not converge.
func DecodeWithSnapshots(llr []float64, maxIterations int, snapshotIters []int) (Result, map[int][]float64, bool) {
	return decode(llr, maxIterations, snapshotIters)
}

func decode(llr []float64, maxIterations int, snapshotIters []int) (Result, map[int][]float64, bool) {
	if len(llr) != N {
		return Result{}, nil, false
	}
	edgePosOnce.Do(buildEdgePositions)

	toc := make([][]float64, M) // message to each check, per incident var
	for c := range toc {
		toc[c] = make([]float64, len(checkToVar[c]))
		for i, v := range checkToVar[c] {
			toc[c][i] = llr[v]
		}
	}
	tov := make([][]float64, N) // message to each var, per incident check
	for v := range tov {
		tov[v] = make([]float64, len(varToCheck[v]))
	}

	zn := make([]float64, N)
	hard := make([]byte, N)

	var snapshots map[int][]float64
	if len(snapshotIters) > 0 {
		snapshots = make(map[int][]float64, len(snapshotIters))
	}
	wantSnapshot := func(iter int) bool {
		for _, want := range snapshotIters {
			if want == iter {
				return true
			}
		}
		return false
	}

	for iter := 0; iter <= maxIterations; iter++ {
		for v := 0; v < N; v++ {
			sum := llr[v]
			for _, m := range tov[v] {
				sum += m
			}
			zn[v] = sum
			if zn[v] > 0 {
				hard[v] = 1
			} else {
				hard[v] = 0
			}
		}

		if iter > 0 && wantSnapshot(iter) {
			cp := make([]float64, N)
			copy(cp, zn)
			snapshots[iter] = cp
		}

		if satisfiesParity(hard) {
			frame91 := make([]byte, K)
			copy(frame91, hard[:K])
			if crc.Check(frame91) {
				return Result{Message91: frame91, Iterations: iter}, snapshots, true
			}
		}

		if iter == maxIterations {
			break
		}

		// Variable -> check messages: total belief minus this check's own
		// prior contribution.
		for c := 0; c < M; c++ {
			for i, v := range checkToVar[c] {
				toc[c][i] = zn[v] - tov[v][edgePos[c][i]]
			}
		}

		// Check -> variable messages: tanh-product rule.
		for v := 0; v < N; v++ {
			for i, c := range varToCheck[v] {
				pos := edgePosRev[v][i]
				product := 1.0
				for k, tocK := range toc[c] {
					if k == pos {
						continue
					}
					product *= math.Tanh(-tocK / 2)
				}
				tov[v][i] = 2 * atanhSafe(-product)
			}
		}
	}

	return Result{}, snapshots, false
}

func atanhSafe(x float64) float64 {
	if x > clampBound {
		x = clampBound
	} else if x < -clampBound {
		x = -clampBound
	}
	return 0.5 * math.Log((1+x)/(1-x))
}

func satisfiesParity(hard []byte) bool {
	for c := 0; c < M; c++ {
		var parity byte
		for _, v := range checkToVar[c] {
			parity ^= hard[v]
		}
		if parity != 0 {
			return false
		}
	}
	return true
}

