package bit

import "testing"

func TestReadBSBoundaries(t *testing.T) {
	vec := []struct {
		sel  uint8
		data []byte
		want uint16
	}{
		{0, []byte{0x34, 0x12}, 0x1234},
		{1, []byte{0xFF}, 255},
		{2, nil, 0},
		{3, nil, 256},
	}
	for _, v := range vec {
		w := NewWriter()
		w.WriteBB(v.sel)
		w.putRawBytes(v.data)
		r := NewReader(w.Bytes())
		got, err := r.ReadBS()
		if err != nil {
			t.Fatalf("sel %d: %v", v.sel, err)
		}
		if got != v.want {
			t.Errorf("sel %d: got %d, want %d", v.sel, got, v.want)
		}
	}
}

func TestReadDD(t *testing.T) {
	const def = 12.5
	w := NewWriter()
	w.WriteBB(0)
	r := NewReader(w.Bytes())
	got, err := r.ReadDD(def)
	if err != nil || got != def {
		t.Fatalf("selector 00: got %v, err %v", got, err)
	}

	w2 := NewWriter()
	w2.WriteBB(3)
	w2.WriteRD(99.25)
	r2 := NewReader(w2.Bytes())
	got2, err := r2.ReadDD(def)
	if err != nil || got2 != 99.25 {
		t.Fatalf("selector 11: got %v, err %v", got2, err)
	}
}

func TestReadH(t *testing.T) {
	w := NewWriter()
	w.putBits(0x05, 4) // code
	w.putBits(0, 4)    // counter 0
	r := NewReader(w.Bytes())
	h, err := r.ReadH()
	if err != nil || h.Value != 0 {
		t.Fatalf("counter 0: got %+v, err %v", h, err)
	}

	w2 := NewWriter()
	w2.putBits(0x02, 4)
	w2.putBits(4, 4)
	w2.putRawBytes([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	r2 := NewReader(w2.Bytes())
	h2, err := r2.ReadH()
	if err != nil || h2.Value != 0xDEADBEEF {
		t.Fatalf("counter 4: got %+v, err %v", h2, err)
	}
}

func TestReadMS(t *testing.T) {
	w := NewWriter()
	w.WriteRS(0x0005) // high word zero -> 2 bytes
	r := NewReader(w.Bytes())
	v, err := r.ReadMS()
	if err != nil || v != 5 {
		t.Fatalf("got %v, err %v", v, err)
	}
	if r.TellBits() != 16 {
		t.Errorf("expected 2 bytes consumed, got %d bits", r.TellBits())
	}

	w2 := NewWriter()
	if err := w2.WriteMS(40000); err != nil {
		t.Fatal(err)
	}
	r2 := NewReader(w2.Bytes())
	v2, err := r2.ReadMS()
	if err != nil || v2 != 40000 {
		t.Fatalf("got %v, err %v", v2, err)
	}
	if r2.TellBits() != 32 {
		t.Errorf("expected 4 bytes consumed, got %d bits", r2.TellBits())
	}
}

func TestRoundTripPrimitives(t *testing.T) {
	w := NewWriter()
	w.WriteB(1)
	w.WriteBB(2)
	w.Write3B(5)
	w.WriteBS(12345)
	w.WriteBL(70000)
	if err := w.WriteBLL(0x0102030405); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteMC(-123456); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteUMC(999999); err != nil {
		t.Fatal(err)
	}
	w.WriteBD(3.5)
	w.WriteDD(3.5, 1.0)
	w.WriteBT(0)
	w.WriteBT(2.0)
	w.WriteBE(Point3{0, 0, 1})
	w.Write3BD(Point3{1, 2, 3})
	w.WriteRC(-5)
	w.WriteRS(0xBEEF)
	w.WriteRL(0xCAFEBABE)
	w.WriteRD(2.71828)
	if err := w.WriteH(3, 0xABCDEF); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteTV("HELLO"); err != nil {
		t.Fatal(err)
	}
	w.WriteCRC(0x55AA)

	r := NewReader(w.Bytes())
	if v, _ := r.ReadB(); v != 1 {
		t.Error("B mismatch")
	}
	if v, _ := r.ReadBB(); v != 2 {
		t.Error("BB mismatch")
	}
	if v, _ := r.Read3B(); v != 5 {
		t.Error("3B mismatch")
	}
	if v, _ := r.ReadBS(); v != 12345 {
		t.Error("BS mismatch")
	}
	if v, _ := r.ReadBL(); v != 70000 {
		t.Error("BL mismatch")
	}
	if v, _ := r.ReadBLL(); v != 0x0102030405 {
		t.Errorf("BLL mismatch: %x", v)
	}
	if v, _ := r.ReadMC(); v != -123456 {
		t.Errorf("MC mismatch: %d", v)
	}
	if v, _ := r.ReadUMC(); v != 999999 {
		t.Errorf("UMC mismatch: %d", v)
	}
	if v, _ := r.ReadBD(); v != 3.5 {
		t.Error("BD mismatch")
	}
	if v, _ := r.ReadDD(1.0); v != 3.5 {
		t.Error("DD mismatch")
	}
	if v, _ := r.ReadBT(); v != 0 {
		t.Error("BT(0) mismatch")
	}
	if v, _ := r.ReadBT(); v != 2.0 {
		t.Error("BT(2.0) mismatch")
	}
	if v, _ := r.ReadBE(); v != (Point3{0, 0, 1}) {
		t.Error("BE mismatch")
	}
	if v, _ := r.Read3BD(); v != (Point3{1, 2, 3}) {
		t.Error("3BD mismatch")
	}
	if v, _ := r.ReadRC(); v != -5 {
		t.Error("RC mismatch")
	}
	if v, _ := r.ReadRS(); v != 0xBEEF {
		t.Error("RS mismatch")
	}
	if v, _ := r.ReadRL(); v != 0xCAFEBABE {
		t.Error("RL mismatch")
	}
	if v, _ := r.ReadRD(); v != 2.71828 {
		t.Error("RD mismatch")
	}
	if h, _ := r.ReadH(); h.Value != 0xABCDEF || h.Code != 3 {
		t.Errorf("H mismatch: %+v", h)
	}
	if s, _ := r.ReadTV(); s != "HELLO" {
		t.Errorf("TV mismatch: %q", s)
	}
	if c, _ := r.ReadCRC(); c != 0x55AA {
		t.Error("CRC mismatch")
	}
}

func TestSetBitPosOutOfRange(t *testing.T) {
	r := NewReader([]byte{0x00})
	if err := r.SetBitPos(9); err == nil {
		t.Fatal("expected error crossing buffer end")
	}
	if err := r.SetBitPos(8); err != nil {
		t.Fatalf("SetBitPos at exact end should succeed: %v", err)
	}
}
