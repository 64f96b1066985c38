// Copyright ©2017 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sublinsolve

import "testing"

func TestCGDetectsBreakdown(t *testing.T) {
	cg := newCG(2)
	cg.Init([]float64{0, 0}, []float64{1, 0})

	ctx := &Context{X: []float64{0, 0}, Src: make([]float64, 2), Dst: make([]float64, 2)}

	op, err := cg.Iterate(ctx)
	if err != nil {
		t.Fatalf("first Iterate: %v", err)
	}
	if op != MulVec {
		t.Fatalf("first Iterate op = %v, want MulVec", op)
	}

	// Report A*p = 0, forcing pᵀAp to collapse to zero.
	ctx.Dst[0], ctx.Dst[1] = 0, 0
	op, err = cg.Iterate(ctx)
	if op != NoOperation {
		t.Errorf("second Iterate op = %v, want NoOperation", op)
	}
	var brk *BreakdownError
	if err == nil {
		t.Fatalf("second Iterate: expected a breakdown error")
	}
	if be, ok := err.(*BreakdownError); ok {
		brk = be
	} else {
		t.Fatalf("second Iterate: err = %T, want *BreakdownError", err)
	}
	if brk.Value != 0 {
		t.Errorf("BreakdownError.Value = %v, want 0", brk.Value)
	}
}

func TestCGPanicsWithoutInit(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic when Iterate is called before Init")
		}
	}()
	cg := newCG(2)
	cg.Iterate(&Context{})
}
