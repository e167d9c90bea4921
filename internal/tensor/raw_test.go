package tensor

import "testing"

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float64, 8},
		{Float32, 4},
	}

	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}

func TestParseDataType(t *testing.T) {
	for _, dt := range []DataType{Float64, Float32} {
		got, ok := ParseDataType(dt.String())
		if !ok || got != dt {
			t.Errorf("ParseDataType(%q) = %v, %v", dt.String(), got, ok)
		}
	}
	if _, ok := ParseDataType("int8"); ok {
		t.Error("ParseDataType(int8) should fail")
	}
}

func TestNewRaw(t *testing.T) {
	r, err := NewRaw(Shape{2, 3}, Float64, CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	if r.NumElements() != 6 {
		t.Errorf("NumElements() = %d, want 6", r.NumElements())
	}
	if r.ByteSize() != 48 {
		t.Errorf("ByteSize() = %d, want 48", r.ByteSize())
	}
	for i, v := range r.AsFloat64() {
		if v != 0 {
			t.Errorf("element %d = %v, want 0", i, v)
		}
	}
}

func TestNewRawInvalidShape(t *testing.T) {
	if _, err := NewRaw(Shape{2, 0}, Float64, CPU); err == nil {
		t.Error("NewRaw with zero dimension should fail")
	}
	if _, err := NewRaw(Shape{-1}, Float64, CPU); err == nil {
		t.Error("NewRaw with negative dimension should fail")
	}
}

func TestFromFloat64(t *testing.T) {
	r, err := FromFloat64([]float64{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	if err != nil {
		t.Fatalf("FromFloat64: %v", err)
	}
	if got := r.At(r.Offset(1, 2)); got != 6 {
		t.Errorf("At(1,2) = %v, want 6", got)
	}

	if _, err := FromFloat64([]float64{1, 2}, Shape{2, 3}); err == nil {
		t.Error("FromFloat64 with short slice should fail")
	}
}

func TestCloneIsDeep(t *testing.T) {
	r, _ := FromFloat64([]float64{1, 2, 3, 4}, Shape{2, 2})
	c := r.Clone()
	c.AsFloat64()[0] = 99

	if r.AsFloat64()[0] != 1 {
		t.Error("Clone must not alias the original buffer")
	}
	if !c.Shape().Equal(r.Shape()) {
		t.Errorf("clone shape %v != original shape %v", c.Shape(), r.Shape())
	}
}

func TestWithShape(t *testing.T) {
	r, _ := FromFloat64([]float64{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	v, err := r.WithShape(Shape{3, 2})
	if err != nil {
		t.Fatalf("WithShape: %v", err)
	}
	if v.At(v.Offset(2, 1)) != 6 {
		t.Errorf("row-major reinterpretation broken: got %v", v.At(v.Offset(2, 1)))
	}

	if _, err := r.WithShape(Shape{4, 2}); err == nil {
		t.Error("WithShape with mismatched element count should fail")
	}
}

func TestComputeStrides(t *testing.T) {
	s := Shape{2, 3, 4}
	strides := s.ComputeStrides()
	want := []int{12, 4, 1}
	for i := range want {
		if strides[i] != want[i] {
			t.Errorf("strides = %v, want %v", strides, want)
			break
		}
	}
}

func TestFloat32RoundTrip(t *testing.T) {
	r, err := FromFloat32([]float32{1.5, -2.5}, Shape{2})
	if err != nil {
		t.Fatalf("FromFloat32: %v", err)
	}
	if r.At(0) != 1.5 || r.At(1) != -2.5 {
		t.Errorf("float32 values = %v, %v", r.At(0), r.At(1))
	}
	r.SetAt(1, 4.5)
	if r.AsFloat32()[1] != 4.5 {
		t.Errorf("SetAt did not write: %v", r.AsFloat32()[1])
	}
}
