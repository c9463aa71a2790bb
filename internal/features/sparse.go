package features

import (
	"math"
	"sort"
)

// SparseVector holds the non-zero entries of a vector, Indices ascending.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// NewSparseVector builds a vector from an index→value map, dropping zeros.
func NewSparseVector(entries map[int]float64) SparseVector {
	idx := make([]int, 0, len(entries))
	for i, v := range entries {
		if v != 0 {
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	vals := make([]float64, len(idx))
	for k, i := range idx {
		vals[k] = entries[i]
	}
	return SparseVector{Indices: idx, Values: vals}
}

// DotDense returns the inner product of v and a dense vector.
func (v SparseVector) DotDense(dense []float64) float64 {
	var dot float64
	for k, i := range v.Indices {
		if i < len(dense) {
			dot += v.Values[k] * dense[i]
		}
	}
	return dot
}

// Dense expands v into a dense slice of length dim.
func (v SparseVector) Dense(dim int) []float64 {
	out := make([]float64, dim)
	for k, i := range v.Indices {
		if i < dim {
			out[i] = v.Values[k]
		}
	}
	return out
}

// Norm returns the L2 norm of v.
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Normalized returns v scaled to unit L2 norm. A zero vector is returned unchanged.
func (v SparseVector) Normalized() SparseVector {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.scale(1 / n)
}

func (v SparseVector) scale(f float64) SparseVector {
	vals := make([]float64, len(v.Values))
	for k, x := range v.Values {
		vals[k] = x * f
	}
	idx := make([]int, len(v.Indices))
	copy(idx, v.Indices)
	return SparseVector{Indices: idx, Values: vals}
}

// Sub returns v - o. Components may go negative.
func (v SparseVector) Sub(o SparseVector) SparseVector {
	return v.combine(o, -1)
}

func (v SparseVector) combine(o SparseVector, sign float64) SparseVector {
	idx := make([]int, 0, len(v.Indices)+len(o.Indices))
	vals := make([]float64, 0, len(v.Indices)+len(o.Indices))
	push := func(i int, x float64) {
		if x != 0 {
			idx = append(idx, i)
			vals = append(vals, x)
		}
	}
	i, j := 0, 0
	for i < len(v.Indices) || j < len(o.Indices) {
		switch {
		case j >= len(o.Indices) || (i < len(v.Indices) && v.Indices[i] < o.Indices[j]):
			push(v.Indices[i], v.Values[i])
			i++
		case i >= len(v.Indices) || o.Indices[j] < v.Indices[i]:
			push(o.Indices[j], sign*o.Values[j])
			j++
		default:
			push(v.Indices[i], v.Values[i]+sign*o.Values[j])
			i++
			j++
		}
	}
	return SparseVector{Indices: idx, Values: vals}
}

// Mean returns the component-wise mean of vs; the zero vector when vs is empty.
func Mean(vs []SparseVector) SparseVector {
	if len(vs) == 0 {
		return SparseVector{}
	}
	sum := make(map[int]float64)
	for _, v := range vs {
		for k, i := range v.Indices {
			sum[i] += v.Values[k]
		}
	}
	n := float64(len(vs))
	for i := range sum {
		sum[i] /= n
	}
	return NewSparseVector(sum)
}
