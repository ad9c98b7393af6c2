package index

import (
	"fmt"

	"github.com/scipp/scipp-sub009/internal/dims"
	"github.com/scipp/scipp-sub009/internal/storage"
)

// MaxOperands is the operand capacity of one MultiIndex: an output plus up
// to three inputs.
const MaxOperands = 4

// BucketParams marks an operand as bucketed. The operand's aligned strides
// then index into Indices rather than into element storage; the element
// offset of the kernel argument is derived from the active bin's range plus
// the inner cursor, scaled by BufferStride (the buffer's stride along the
// dimension the bins slice).
type BucketParams struct {
	Indices      []storage.IndexPair
	BufferStride int
	BufferOffset int
}

// Operand describes one participant of a coordinated iteration.
type Operand struct {
	Dims    dims.Dimensions
	Strides dims.Strides
	Offset  int
	Bucket  *BucketParams
}

// MultiIndex advances 1..N operands in lockstep over a common iteration
// shape, honoring each operand's own strides (stride 0 along broadcast
// axes). A bucketed operand additionally walks the contents of the bin at
// every outer position; dense operands behave as though every bin has size
// 1. State is fixed-size throughout: Increment never allocates.
//
// Dimensions contiguous in every operand are folded together at
// construction, mirroring the single-operand ViewIndex folding.
type MultiIndex struct {
	extent [dims.NDimMax]int
	coord  [dims.NDimMax]int
	stride [MaxOperands][dims.NDimMax]int
	delta  [MaxOperands][dims.NDimMax]int
	offset [MaxOperands]int
	ndim   int
	nop    int
	index  int
	size   int

	hasBuckets bool
	buckets    [MaxOperands]*BucketParams
	binBase    [MaxOperands]int
	binSize    int
	inner      int
}

// NewMultiIndex builds a MultiIndex over iter. Each operand's Strides must
// already be aligned to iter (one stride per iteration dimension, 0 for
// broadcast axes); use AlignStrides. Bucketed operands must have had their
// bin sizes validated against each other beforehand (see
// ValidateBinSizes): construction and iteration assume consistency.
func NewMultiIndex(iter dims.Dimensions, operands ...Operand) *MultiIndex {
	if len(operands) == 0 || len(operands) > MaxOperands {
		panic(fmt.Sprintf("index: %d operands, capacity %d", len(operands), MaxOperands))
	}
	m := &MultiIndex{nop: len(operands), size: iter.Volume()}
	for i, op := range operands {
		m.offset[i] = op.Offset
		if op.Bucket != nil {
			m.buckets[i] = op.Bucket
			m.hasBuckets = true
		}
	}
	// Fold adjacent dimensions that are jointly contiguous in every
	// operand. Folding uses the same criterion as ViewIndex, applied to all
	// stride vectors at once.
	for j := iter.NDim() - 1; j >= 0; j-- {
		n := iter.Size(j)
		if n == 1 {
			continue
		}
		if m.ndim > 0 && m.foldable(j, operands) {
			m.extent[m.ndim-1] *= n
			continue
		}
		m.extent[m.ndim] = n
		for i := range operands {
			m.stride[i][m.ndim] = operands[i].Strides.At(j)
		}
		m.ndim++
	}
	for i := 0; i < m.nop; i++ {
		for d := 0; d < m.ndim; d++ {
			m.delta[i][d] = m.stride[i][d]
			if d > 0 {
				m.delta[i][d] -= m.extent[d-1] * m.stride[i][d-1]
			}
		}
	}
	if m.hasBuckets && !m.AtEnd() {
		m.loadBin()
		m.skipEmptyBins()
	} else {
		m.binSize = 1
	}
	return m
}

func (m *MultiIndex) foldable(j int, operands []Operand) bool {
	for i := range operands {
		inner := m.ndim - 1
		if operands[i].Strides.At(j) != m.stride[i][inner]*m.extent[inner] {
			return false
		}
	}
	return true
}

// Get writes the current flat storage offset of every operand into offs.
// For a bucketed operand this is the offset of the inner cursor's element
// within the shared buffer; for dense operands it is the outer offset.
func (m *MultiIndex) Get(offs *[MaxOperands]int) {
	for i := 0; i < m.nop; i++ {
		if m.buckets[i] != nil {
			offs[i] = m.binBase[i] + m.inner*m.buckets[i].BufferStride
		} else {
			offs[i] = m.offset[i]
		}
	}
}

// AtEnd reports whether every logical position of the iteration shape has
// been visited.
func (m *MultiIndex) AtEnd() bool { return m.index >= m.size }

// Increment advances the iteration by one element. For bucketed iteration
// the inner cursor advances within the active bin first; exhausting the bin
// moves to the next outer position, skipping empty bins.
func (m *MultiIndex) Increment() {
	if m.hasBuckets {
		m.inner++
		if m.inner < m.binSize {
			return
		}
		m.advanceOuter()
		if !m.AtEnd() {
			m.loadBin()
			m.skipEmptyBins()
		}
		return
	}
	m.advanceOuter()
}

func (m *MultiIndex) advanceOuter() {
	m.index++
	if m.ndim == 0 {
		return
	}
	m.coord[0]++
	for i := 0; i < m.nop; i++ {
		m.offset[i] += m.delta[i][0]
	}
	for d := 0; d+1 < m.ndim && m.coord[d] == m.extent[d]; d++ {
		m.coord[d] = 0
		m.coord[d+1]++
		for i := 0; i < m.nop; i++ {
			m.offset[i] += m.delta[i][d+1]
		}
	}
}

// loadBin reads the bin range at the current outer position for every
// bucketed operand. Bin sizes were validated up front, so the first
// bucketed operand defines the common size.
func (m *MultiIndex) loadBin() {
	m.inner = 0
	m.binSize = 1
	first := true
	for i := 0; i < m.nop; i++ {
		b := m.buckets[i]
		if b == nil {
			continue
		}
		pair := b.Indices[m.offset[i]]
		m.binBase[i] = b.BufferOffset + int(pair.Begin)*b.BufferStride
		if first {
			m.binSize = int(pair.End - pair.Begin)
			first = false
		}
	}
}

// skipEmptyBins advances past outer positions whose bins hold no elements.
func (m *MultiIndex) skipEmptyBins() {
	for !m.AtEnd() && m.binSize == 0 {
		m.advanceOuter()
		if !m.AtEnd() {
			m.loadBin()
		}
	}
}
