package transform

import (
	"strings"

	"github.com/scipp/scipp-sub009/internal/dims"
	"github.com/scipp/scipp-sub009/internal/except"
	"github.com/scipp/scipp-sub009/internal/index"
	"github.com/scipp/scipp-sub009/internal/parallel"
	"github.com/scipp/scipp-sub009/internal/storage"
	"github.com/scipp/scipp-sub009/internal/units"
	"github.com/scipp/scipp-sub009/internal/variable"
)

// prepared carries one operand's iteration descriptor plus the storage,
// dispatch dtype, unit, and variance presence the engine works with. For a
// bucketed operand these refer to the bin buffer, so kernels see buffer
// elements and dispatch runs on the buffer dtype.
type prepared struct {
	op     index.Operand
	arr    storage.ElementArray
	dtype  storage.DType
	unit   units.Unit
	hasVar bool
	binned bool
}

func prepare(iter dims.Dimensions, v *variable.Variable, allowBroadcast bool) (prepared, error) {
	strides, err := index.AlignStrides(iter, v.Dims(), v.Strides(), allowBroadcast)
	if err != nil {
		return prepared{}, err
	}
	p := prepared{
		op:     index.Operand{Dims: v.Dims(), Strides: strides, Offset: v.Offset()},
		arr:    v.Data(),
		dtype:  v.DType(),
		unit:   v.Unit(),
		hasVar: v.HasVariances(),
	}
	if v.IsBinned() {
		buf := v.BinBuffer()
		bi := buf.Dims().Index(v.BinDim())
		p.op.Bucket = &index.BucketParams{
			Indices:      storage.Values[storage.IndexPair](v.Data()),
			BufferStride: buf.Strides().At(bi),
			BufferOffset: buf.Offset(),
		}
		p.arr = buf.Data()
		p.dtype = buf.DType()
		p.unit = buf.Unit()
		p.hasVar = buf.HasVariances()
		p.binned = true
	}
	return p, nil
}

// Transform applies op elementwise over the broadcast union of the operand
// shapes, producing a new variable. Bucketed operands recurse into their
// bins through the shared MultiIndex; a bucketed input yields a bucketed
// output with matching per-bin sizes.
func Transform(op *Op, operands ...*variable.Variable) (*variable.Variable, error) {
	return transform(parallel.Serial(), op, operands...)
}

// TransformParallel is Transform with the outermost output dimension
// partitioned across worker goroutines. Bucketed operations fall back to
// the serial path.
func TransformParallel(cfg parallel.Config, op *Op, operands ...*variable.Variable) (*variable.Variable, error) {
	return transform(cfg, op, operands...)
}

func transform(cfg parallel.Config, op *Op, operands ...*variable.Variable) (*variable.Variable, error) {
	if len(operands) == 0 || len(operands) > index.MaxOperands-1 {
		return nil, except.Typef("%s: %d operands, supported 1..%d", op.name, len(operands), index.MaxOperands-1)
	}
	iter := operands[0].Dims()
	for _, v := range operands[1:] {
		merged, err := dims.Merge(iter, v.Dims())
		if err != nil {
			return nil, err
		}
		iter = merged
	}

	preps := make([]prepared, len(operands))
	var key dtypeKey
	for i, v := range operands {
		p, err := prepare(iter, v, true)
		if err != nil {
			return nil, err
		}
		if p.binned && !v.Dims().Equal(iter) {
			return nil, except.Dimensionf("%s: bucketed operand %s cannot broadcast to %s", op.name, v.Dims(), iter)
		}
		preps[i] = p
		key[i] = p.dtype
	}

	ov, ok := op.overloads[key]
	if !ok {
		return nil, except.Typef("%s: no overload for (%s)", op.name, keyString(key, len(operands)))
	}
	outUnit, err := resolveUnit(ov, preps)
	if err != nil {
		return nil, err
	}
	withVar, err := resolveVariances(op.name, ov, preps)
	if err != nil {
		return nil, err
	}

	out, err := makeOutput(ov.out, iter, outUnit, withVar, operands, preps)
	if err != nil {
		return nil, err
	}
	outPrep, err := prepare(iter, out, false)
	if err != nil {
		return nil, err
	}
	if err := validateBins(iter, outPrep, preps); err != nil {
		return nil, err
	}

	outArr := out.DataMut()
	if out.IsBinned() {
		outArr = out.BinBuffer().DataMut()
	}
	apply := ov.bind(outArr, args(preps), withVar)
	ops := multiOperands(outPrep, preps)

	if canPartition(cfg, iter, outPrep, preps) {
		return out, runPartitioned(cfg, iter, ops, apply)
	}
	run(iter, ops, apply)
	return out, nil
}

// TransformInPlace applies op elementwise, writing into dest. dest's shape
// must already equal the broadcast union of all operand shapes: a mismatch
// that would require broadcasting into dest is a dimension error.
func TransformInPlace(op *InPlaceOp, dest *variable.Variable, operands ...*variable.Variable) error {
	if len(operands) > index.MaxOperands-2 {
		return except.Typef("%s: %d operands, supported 0..%d", op.name, len(operands), index.MaxOperands-2)
	}
	iter := dest.Dims()
	for _, v := range operands {
		merged, err := dims.Merge(iter, v.Dims())
		if err != nil {
			return err
		}
		if !merged.Equal(dest.Dims()) {
			return except.Dimensionf("%s: operand %s requires broadcasting destination %s", op.name, v.Dims(), dest.Dims())
		}
	}

	destPrep, err := prepare(iter, dest, false)
	if err != nil {
		return err
	}
	preps := make([]prepared, len(operands))
	var key dtypeKey
	key[0] = destPrep.dtype
	for i, v := range operands {
		p, err := prepare(iter, v, true)
		if err != nil {
			return err
		}
		preps[i] = p
		key[i+1] = p.dtype
	}

	ov, ok := op.overloads[key]
	if !ok {
		return except.Typef("%s: no overload for (%s)", op.name, keyString(key, len(operands)+1))
	}
	return applyInPlace(op.name, ov, iter, dest, destPrep, preps)
}

// AccumulateInPlace reduces src into dest with op. dest's shape must be a
// reduction of src's: every dest dimension appears in src, either with
// matching extent or kept at size 1. dest offsets are replayed via stride 0
// along the reduced dimensions, so op must be associative and commutative
// up to floating-point tolerance.
func AccumulateInPlace(op *InPlaceOp, dest, src *variable.Variable) error {
	iter := src.Dims()
	destStrides, err := reductionStrides(iter, dest)
	if err != nil {
		return err
	}
	destPrep := prepared{
		op:     index.Operand{Dims: dest.Dims(), Strides: destStrides, Offset: dest.Offset()},
		arr:    dest.Data(),
		dtype:  dest.DType(),
		unit:   dest.Unit(),
		hasVar: dest.HasVariances(),
	}
	if dest.IsBinned() {
		return except.Typef("%s: accumulation destination cannot be binned", op.name)
	}
	srcPrep, err := prepare(iter, src, true)
	if err != nil {
		return err
	}
	if srcPrep.binned && !src.Dims().Equal(iter) {
		return except.Dimensionf("%s: bucketed source %s cannot broadcast", op.name, src.Dims())
	}

	key := dtypeKey{destPrep.dtype, srcPrep.dtype}
	ov, ok := op.overloads[key]
	if !ok {
		return except.Typef("%s: no overload for (%s)", op.name, keyString(key, 2))
	}
	return applyInPlace(op.name, ov, iter, dest, destPrep, []prepared{srcPrep})
}

// reductionStrides aligns dest against the source iteration shape for
// accumulation: missing or size-1 destination dimensions get stride 0 so
// the same destination element is replayed across every reduced position.
func reductionStrides(iter dims.Dimensions, dest *variable.Variable) (dims.Strides, error) {
	d := dest.Dims()
	for _, label := range d.Labels() {
		if !iter.Contains(label) {
			return dims.Strides{}, except.Dimensionf("destination dimension %s absent from source %s", label, iter)
		}
	}
	values := make([]int, 0, dims.NDimMax)
	for i := 0; i < iter.NDim(); i++ {
		j := d.Index(iter.Label(i))
		switch {
		case j < 0, d.Size(j) == 1 && iter.Size(i) != 1:
			values = append(values, 0)
		case d.Size(j) == iter.Size(i):
			values = append(values, dest.Strides().At(j))
		default:
			return dims.Strides{}, except.Dimensionf("destination extent %d incompatible with source extent %d for %s",
				d.Size(j), iter.Size(i), iter.Label(i))
		}
	}
	return dims.StridesFrom(values...), nil
}

func applyInPlace(name string, ov *overload, iter dims.Dimensions, dest *variable.Variable, destPrep prepared, preps []prepared) error {
	all := append([]prepared{destPrep}, preps...)
	unitOperands := make([]units.Unit, len(all))
	for i, p := range all {
		unitOperands[i] = p.unit
	}
	rule := ov.unit
	if rule == nil {
		rule = SameUnit
	}
	outUnit, err := rule(unitOperands)
	if err != nil {
		return err
	}
	withVar, err := resolveVariances(name, ov, all)
	if err != nil {
		return err
	}
	// A destination without variances cannot absorb a variance-carrying
	// source; there is nowhere to store the propagated variance.
	if withVar && !destPrep.hasVar {
		return except.Variancef("%s: destination lacks variances", name)
	}
	if err := validateBins(iter, destPrep, preps); err != nil {
		return err
	}

	// Detach shared storage before binding slices; the clone must happen
	// once, outside the loop. Only the written storage detaches: for a
	// binned destination that is the bin buffer, not the index ranges.
	var destArr storage.ElementArray
	if dest.IsBinned() {
		destArr = dest.BinBuffer().DataMut()
	} else {
		destArr = dest.DataMut()
	}
	apply := ov.bind(destArr, args(preps), withVar)
	run(iter, multiOperands(destPrep, preps), apply)
	dest.SetUnit(outUnit)
	if dest.IsBinned() {
		dest.BinBuffer().SetUnit(outUnit)
	}
	return nil
}

func resolveUnit(ov *overload, preps []prepared) (units.Unit, error) {
	operands := make([]units.Unit, len(preps))
	for i, p := range preps {
		operands[i] = p.unit
	}
	rule := ov.unit
	if rule == nil {
		rule = SameUnit
	}
	return rule(operands)
}

// resolveVariances decides whether the result carries variances: it does
// as soon as any operand does, with variance-less operands contributing
// variance zero. The overload must then provide a propagation formula.
func resolveVariances(name string, ov *overload, preps []prepared) (bool, error) {
	withVar := false
	for _, p := range preps {
		if p.hasVar {
			withVar = true
			break
		}
	}
	if withVar && !ov.supportsVariances {
		return false, except.Variancef("%s: overload has no variance propagation", name)
	}
	return withVar, nil
}

// makeOutput allocates the transform result once, dense or bucketed. A
// bucketed result replicates the first bucketed operand's per-bin sizes
// with a packed buffer of the overload's output dtype.
func makeOutput(out storage.DType, iter dims.Dimensions, u units.Unit, withVar bool,
	operands []*variable.Variable, preps []prepared) (*variable.Variable, error) {
	var proto *variable.Variable
	for i, p := range preps {
		if p.binned {
			proto = operands[i]
			break
		}
	}
	if proto == nil {
		return variable.NewOfType(out, iter, withVar).WithUnit(u), nil
	}
	ranges := variable.BinRanges(proto)
	indices := make([]storage.IndexPair, len(ranges))
	var total int64
	for i, r := range ranges {
		n := r.End - r.Begin
		indices[i] = storage.IndexPair{Begin: total, End: total + n}
		total += n
	}
	buf := proto.BinBuffer()
	bufDims := buf.Dims().Resize(proto.BinDim(), int(total))
	newBuf := variable.NewOfType(out, bufDims, withVar).WithUnit(u)
	return variable.NewBinned(iter, indices, proto.BinDim(), newBuf)
}

// validateBins runs the bucket-size pre-pass across all bucketed
// participants, output included.
func validateBins(iter dims.Dimensions, first prepared, preps []prepared) error {
	return index.ValidateBinSizes(iter, multiOperands(first, preps)...)
}

func multiOperands(first prepared, preps []prepared) []index.Operand {
	ops := make([]index.Operand, 0, len(preps)+1)
	ops = append(ops, first.op)
	for _, p := range preps {
		ops = append(ops, p.op)
	}
	return ops
}

func args(preps []prepared) []storage.ElementArray {
	out := make([]storage.ElementArray, len(preps))
	for i, p := range preps {
		out[i] = p.arr
	}
	return out
}

func run(iter dims.Dimensions, ops []index.Operand, apply applier) {
	m := index.NewMultiIndex(iter, ops...)
	var offs [index.MaxOperands]int
	for ; !m.AtEnd(); m.Increment() {
		m.Get(&offs)
		apply(&offs)
	}
}

func keyString(key dtypeKey, n int) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = key[i].String()
	}
	return strings.Join(parts, ", ")
}

func unitMismatch(operands []units.Unit) error {
	parts := make([]string, len(operands))
	for i, u := range operands {
		parts[i] = u.String()
	}
	return except.Unitf("operands have units (%s)", strings.Join(parts, ", "))
}
