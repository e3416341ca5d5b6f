package ir

import "testing"

// TestFunctionBuilderIfMerge builds the IR for:
//
//	int pick(int a, int b, bool c) {
//	    int r;
//	    if (c) { r = a; } else { r = b; }
//	    return r;
//	}
//
// and checks that the merge block receives exactly one phi parameter fed
// by both arms, matching the if/else block-sealing idiom in spec.md §4.2.
func TestFunctionBuilderIfMerge(t *testing.T) {
	sig := &Signature{
		Params:  []AbiParam{{I32}, {I32}, {I8}},
		Returns: []AbiParam{{I32}},
	}
	f := NewFunction("pick", sig)
	entry := f.CreateBlock()
	f.EntryBlock = entry
	f.AppendToLayout(entry)

	a := f.AppendBlockParam(entry, I32)
	b := f.AppendBlockParam(entry, I32)
	c := f.AppendBlockParam(entry, I8)
	f.Seal(entry)

	b1 := NewFunctionBuilder(f)
	r := b1.DeclareVar(I32)

	thenBlk := f.CreateBlock()
	elseBlk := f.CreateBlock()
	mergeBlk := f.CreateBlock()
	f.AppendToLayout(thenBlk)
	f.AppendToLayout(elseBlk)
	f.AppendToLayout(mergeBlk)

	b1.Brif(entry, c, thenBlk, nil, elseBlk, nil)
	b1.SealBlock(thenBlk)
	b1.SealBlock(elseBlk)

	b1.DefVar(thenBlk, r, a)
	b1.Jump(thenBlk, mergeBlk, nil)

	b1.DefVar(elseBlk, r, b)
	b1.Jump(elseBlk, mergeBlk, nil)

	b1.SealBlock(mergeBlk)
	result := b1.UseVar(mergeBlk, r)
	f.PushInst(mergeBlk, Instruction{Op: OpReturn, Args: []Value{result}}, TypeInvalid)

	if got := len(f.BlockParams(mergeBlk)); got != 1 {
		t.Fatalf("merge block should gain exactly one phi param, got %d", got)
	}

	thenInsts := f.Insts(thenBlk)
	elseInsts := f.Insts(elseBlk)
	if len(thenInsts[len(thenInsts)-1].Targets[0].Args) != 1 {
		t.Fatalf("then-block jump should carry one phi argument")
	}
	if len(elseInsts[len(elseInsts)-1].Targets[0].Args) != 1 {
		t.Fatalf("else-block jump should carry one phi argument")
	}

	errs := validateFunction(f)
	for _, e := range errs {
		t.Errorf("unexpected validation error: %v", e)
	}
}

func TestSourceLocManagerMerge(t *testing.T) {
	a := NewSourceLocManager()
	idA := a.Intern(SourceLoc{Line: 1, Column: 2})

	bMgr := NewSourceLocManager()
	_ = bMgr.Intern(SourceLoc{Line: 9, Column: 9})
	idB2 := bMgr.Intern(SourceLoc{Line: 3, Column: 4})

	preMergeMax := a.NextID()
	if bMgr.NextID() > preMergeMax {
		preMergeMax = bMgr.NextID()
	}

	a.Merge(bMgr)

	if loc, ok := a.Lookup(idA); !ok || loc.Line != 1 {
		t.Fatalf("merge dropped an original mapping")
	}
	if loc, ok := a.Lookup(idB2); !ok || loc.Line != 3 {
		t.Fatalf("merge did not absorb the other manager's mapping")
	}
	if a.NextID() != preMergeMax {
		t.Fatalf("merged NextID = %d, want pre-merge max %d", a.NextID(), preMergeMax)
	}
}
